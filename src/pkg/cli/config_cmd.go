package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"meilikit/src/pkg/config"
	"meilikit/src/pkg/consoleutil"
)

func (a *app) newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration",
	}

	cmd.AddCommand(
		a.newConfigShowCommand(),
		a.newConfigInitCommand(),
		a.newConfigPathCommand(),
	)

	return cmd
}

func (a *app) newConfigShowCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if !reveal {
				cfg.Server.APIKey = maskSecret(cfg.Server.APIKey)
				cfg.Mock.MasterKey = maskSecret(cfg.Mock.MasterKey)
			}

			return a.render(cmd.OutOrStdout(), cfg, func() string {
				table := consoleutil.NewStatusTable("Configuration")
				table.AddRow("server.host", cfg.Server.Host, consoleutil.StatusUnknown)
				table.AddRow("server.api_key", cfg.Server.APIKey, consoleutil.StatusUnknown)
				table.AddRow("server.auth_header", cfg.Server.AuthHeader, consoleutil.StatusUnknown)
				table.AddRow("server.timeout_seconds", strconv.Itoa(cfg.Server.TimeoutSeconds), consoleutil.StatusUnknown)
				table.AddRow("server.trace", strconv.FormatBool(cfg.Server.Trace), consoleutil.StatusUnknown)
				table.AddRow("log.level", cfg.Log.Level, consoleutil.StatusUnknown)
				table.AddRow("log.format", cfg.Log.Format, consoleutil.StatusUnknown)
				table.AddRow("log.file", cfg.Log.File, consoleutil.StatusUnknown)
				table.AddRow("output.color", cfg.Output.Color, consoleutil.StatusUnknown)
				table.AddRow("output.json", strconv.FormatBool(cfg.Output.JSON), consoleutil.StatusUnknown)
				table.AddRow("mock.addr", cfg.Mock.Addr, consoleutil.StatusUnknown)
				table.AddRow("mock.master_key", cfg.Mock.MasterKey, consoleutil.StatusUnknown)
				return table.Render()
			})
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print keys in clear")

	return cmd
}

func (a *app) newConfigInitCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := config.CreateDefaultConfig(path)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), consoleutil.FormatSuccess("Created default config at: "+created))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Where to write the file (default $HOME/.config/meilikit/config.yaml)")

	return cmd
}

func (a *app) newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.v.ConfigFileUsed()
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), consoleutil.FormatInfo("No config file found; using defaults and environment."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// maskSecret keeps the first four characters of s
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
