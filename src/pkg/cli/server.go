package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"meilikit/src/pkg/config"
	"meilikit/src/pkg/consoleutil"
	"meilikit/src/pkg/loggingutil"
	"meilikit/src/pkg/meili"
)

func (a *app) newHealthCommand() *cobra.Command {
	var watch bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check whether the server is healthy",
		Long: `Check whether the server answers its health route.

With --watch the check repeats every --interval until interrupted. When a
config file is in use, edits to it (host, key) apply without restarting;
values given as flags keep precedence over the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if watch {
				return a.watchHealth(cmd.Context(), cmd.OutOrStdout(), interval)
			}

			healthy, err := a.client().IsHealthy(cmd.Context())
			if err != nil {
				return err
			}
			if err := a.printHealth(cmd.OutOrStdout(), a.cfg.Server.Host, healthy); err != nil {
				return err
			}
			if !healthy {
				return fmt.Errorf("server %s is not healthy", a.cfg.Server.Host)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep checking until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Delay between checks with --watch")

	return cmd
}

func (a *app) printHealth(w io.Writer, host string, healthy bool) error {
	status := "unavailable"
	if healthy {
		status = "available"
	}
	return a.render(w, map[string]interface{}{"host": host, "healthy": healthy}, func() string {
		return consoleutil.FormatStatusLine(host, status, consoleutil.GetStatusFromState(healthy)) + "\n"
	})
}

// watchHealth polls the health route and reloads the client when the config
// file changes.
func (a *app) watchHealth(ctx context.Context, w io.Writer, interval time.Duration) error {
	logger := loggingutil.Get(ctx)
	cfg := a.cfg
	client := newClient(cfg)

	var updates <-chan config.Update
	if path := a.v.ConfigFileUsed(); path != "" {
		watcher, err := config.NewWatcher(path, config.DefaultDebounceTime, config.Reloader(a.v))
		if err != nil {
			logger.Warn("Config reload disabled", "error", err)
		} else {
			defer watcher.Close()
			updates = watcher.Start(ctx)
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		healthy, err := client.IsHealthy(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprint(w, consoleutil.FormatStatusLine(cfg.Server.Host, err.Error(), consoleutil.StatusInactive)+"\n")
		} else if err := a.printHealth(w, cfg.Server.Host, healthy); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			if update.Err != nil {
				fmt.Fprint(w, consoleutil.FormatWarning("Config reload failed: "+update.Err.Error())+"\n")
				continue
			}
			cfg = update.Config
			client = newClient(cfg)
			logger.Info("Configuration reloaded", "host", cfg.Server.Host)
		case <-ticker.C:
		}
	}
}

func (a *app) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, err := a.client().Version(cmd.Context())
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), version, func() string {
				table := consoleutil.NewStatusTable("Version")
				table.AddRow("meilictl", a.version, consoleutil.StatusUnknown)
				table.AddRow("Server", version.PkgVersion, consoleutil.StatusUnknown)
				table.AddRow("Commit", version.CommitSha, consoleutil.StatusUnknown)
				table.AddRow("Build date", version.BuildDate, consoleutil.StatusUnknown)
				return table.Render()
			})
		},
	}
}

func (a *app) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.client().Stats(cmd.Context())
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), stats, func() string {
				return statsText(*stats)
			})
		},
	}
}

func statsText(stats meili.Stats) string {
	var sb strings.Builder

	table := consoleutil.NewStatusTable("Database")
	table.AddRow("Size", humanize.IBytes(uint64(stats.DatabaseSize)), consoleutil.StatusUnknown)
	if stats.LastUpdate != nil {
		table.AddRow("Last update", humanize.Time(*stats.LastUpdate), consoleutil.StatusUnknown)
	} else {
		table.AddRow("Last update", "never", consoleutil.StatusUnknown)
	}
	table.AddRow("Indexes", fmt.Sprintf("%d", len(stats.Indexes)), consoleutil.StatusUnknown)
	sb.WriteString(table.Render())

	if len(stats.Indexes) > 0 {
		uids := make([]string, 0, len(stats.Indexes))
		for uid := range stats.Indexes {
			uids = append(uids, uid)
		}
		sort.Strings(uids)

		rows := make([][]string, 0, len(uids))
		for _, uid := range uids {
			s := stats.Indexes[uid]
			indexing := "no"
			if s.IsIndexing {
				indexing = "yes"
			}
			rows = append(rows, []string{uid, humanize.Comma(s.NumberOfDocuments), indexing})
		}
		sb.WriteString("\n")
		sb.WriteString(consoleutil.FormatTable([]string{"UID", "DOCUMENTS", "INDEXING"}, rows, consoleutil.IsColorSupported()))
	}

	return sb.String()
}

func (a *app) newSysInfoCommand() *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "sys-info",
		Short: "Show server system information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pretty {
				info, err := a.client().PrettySysInfo(cmd.Context())
				if err != nil {
					return err
				}
				return a.render(cmd.OutOrStdout(), info, func() string {
					return prettySysInfoText(*info)
				})
			}

			info, err := a.client().SysInfo(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), info, func() string {
				return sysInfoText(*info)
			})
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Ask the server for human formatted figures")

	return cmd
}

func sysInfoText(info meili.SysInfo) string {
	memoryUsage := "unknown"
	if info.MemoryUsage != nil {
		memoryUsage = fmt.Sprintf("%.2f %%", *info.MemoryUsage)
	}

	table := consoleutil.NewStatusTable("System")
	table.AddRow("Memory usage", memoryUsage, consoleutil.StatusUnknown)
	table.AddRow("Processors", fmt.Sprintf("%d", len(info.ProcessorUsage)), consoleutil.StatusUnknown)
	table.AddRow("Total memory", humanize.IBytes(info.Global.TotalMemory), consoleutil.StatusUnknown)
	table.AddRow("Used memory", humanize.IBytes(info.Global.UsedMemory), consoleutil.StatusUnknown)
	table.AddRow("Total swap", humanize.IBytes(info.Global.TotalSwap), consoleutil.StatusUnknown)
	table.AddRow("Used swap", humanize.IBytes(info.Global.UsedSwap), consoleutil.StatusUnknown)
	table.AddRow("Input data", humanize.IBytes(info.Global.InputData), consoleutil.StatusUnknown)
	table.AddRow("Output data", humanize.IBytes(info.Global.OutputData), consoleutil.StatusUnknown)
	table.AddRow("Process memory", humanize.IBytes(info.Process.Memory), consoleutil.StatusUnknown)
	table.AddRow("Process CPU", fmt.Sprintf("%.2f %%", info.Process.CPU), consoleutil.StatusUnknown)
	return table.Render()
}

func prettySysInfoText(info meili.SysInfoPretty) string {
	table := consoleutil.NewStatusTable("System")
	table.AddRow("Memory usage", info.MemoryUsage, consoleutil.StatusUnknown)
	table.AddRow("Processors", strings.Join(info.ProcessorUsage, ", "), consoleutil.StatusUnknown)
	table.AddRow("Total memory", info.Global.TotalMemory, consoleutil.StatusUnknown)
	table.AddRow("Used memory", info.Global.UsedMemory, consoleutil.StatusUnknown)
	table.AddRow("Total swap", info.Global.TotalSwap, consoleutil.StatusUnknown)
	table.AddRow("Used swap", info.Global.UsedSwap, consoleutil.StatusUnknown)
	table.AddRow("Input data", info.Global.InputData, consoleutil.StatusUnknown)
	table.AddRow("Output data", info.Global.OutputData, consoleutil.StatusUnknown)
	table.AddRow("Process memory", info.Process.Memory, consoleutil.StatusUnknown)
	table.AddRow("Process CPU", info.Process.CPU, consoleutil.StatusUnknown)
	return table.Render()
}

func (a *app) newKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Show the private and public keys (master key required)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			keys, err := a.client().Keys(cmd.Context())
			if err != nil {
				return err
			}

			return a.render(cmd.OutOrStdout(), keys, func() string {
				table := consoleutil.NewStatusTable("Keys")
				table.AddRow("Private", keys.Private, consoleutil.StatusUnknown)
				table.AddRow("Public", keys.Public, consoleutil.StatusUnknown)
				return table.Render()
			})
		},
	}
}
