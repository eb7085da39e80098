// Package cli implements the meilictl command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"meilikit/src/pkg/config"
	"meilikit/src/pkg/consoleutil"
	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/loggingutil"
	"meilikit/src/pkg/meili"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	version    string
	v          *viper.Viper
	configPath string
	debug      bool
	noColor    bool
	cfg        *config.Config
	logFile    io.Closer
}

// NewRootCommand builds the meilictl command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{
		version: version,
		v:       config.New(),
	}

	rootCmd := &cobra.Command{
		Use:   "meilictl",
		Short: "meilictl - manage indexes on a Meilisearch server",
		Long: `meilictl manages indexes and inspects a Meilisearch server.

Connection settings come from flags, MEILIKIT_* environment variables
or a config file (see "meilictl config init").`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, _ []string) { a.teardown(cmd.Context()) },
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	flags.String("host", consts.DefaultHost, "Server URL")
	flags.String("api-key", "", "API key sent with every request")
	flags.Bool("json", false, "Print raw JSON")

	_ = a.v.BindPFlag("server.host", flags.Lookup("host"))
	_ = a.v.BindPFlag("server.api_key", flags.Lookup("api-key"))
	_ = a.v.BindPFlag("output.json", flags.Lookup("json"))

	rootCmd.AddCommand(
		a.newIndexesCommand(),
		a.newHealthCommand(),
		a.newVersionCommand(),
		a.newStatsCommand(),
		a.newSysInfoCommand(),
		a.newKeysCommand(),
		a.newConfigCommand(),
	)

	return rootCmd
}

// setup loads configuration and installs the logger in the command context
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	if a.noColor {
		consoleutil.SetColorMode(consoleutil.ColorNever)
	} else {
		consoleutil.SetColorMode(consoleutil.ColorMode(cfg.Output.Color))
	}

	level := cfg.Log.Level
	if a.debug {
		level = "debug"
	}

	var writer io.Writer = cmd.ErrOrStderr()
	if cfg.Log.File != "" {
		file, err := consts.EnsureLogFile(cfg.Log.File)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = file
		writer = file
	}

	logger := loggingutil.New(loggingutil.Options{
		Level:   level,
		Format:  loggingutil.Format(cfg.Log.Format),
		Writer:  writer,
		NoColor: !consoleutil.IsColorSupported() || cfg.Log.File != "",
	})
	cmd.SetContext(loggingutil.Set(cmd.Context(), logger))

	logger.Debug("Configuration loaded",
		"config_file", a.v.ConfigFileUsed(),
		"host", cfg.Server.Host,
		"auth_header", cfg.Server.AuthHeader)
	return nil
}

func (a *app) teardown(ctx context.Context) {
	httputil.LogCloseWithContext(ctx, a.logFile, "log file")
	a.logFile = nil
}

// client returns a client built from the loaded configuration
func (a *app) client() *meili.Client {
	return newClient(a.cfg)
}

func newClient(cfg *config.Config) *meili.Client {
	authHeader, ok := meili.ParseAuthHeader(cfg.Server.AuthHeader)
	if !ok {
		authHeader = meili.AuthHeaderMeili
	}
	return meili.NewClient(cfg.Server.Host, cfg.Server.APIKey,
		meili.WithTimeout(cfg.Timeout()),
		meili.WithAuthHeader(authHeader),
		meili.WithTraceContext(cfg.Server.Trace),
	)
}

// Execute runs the command tree and prints failures to stderr.
func Execute(version string) int {
	rootCmd := NewRootCommand(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, DescribeError(err))
		return 1
	}
	return 0
}
