package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"meilikit/src/pkg/cmd"
	"meilikit/src/pkg/config"
	"meilikit/src/pkg/consts"
	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/loggingutil"
)

var (
	configPath string
	addr       string
	masterKey  string
	logFile    string
	toFile     bool
	debug      bool
	version    = "0.1.0" // Will be set during build
)

func main() {
	rootCmd := createRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// createRootCommand sets up the root command and its flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meilimock",
		Short: "In-memory stand-in for a Meilisearch server",
		Long: `meilimock serves the index, health and administration routes of a
Meilisearch v0.10 server from memory, with the same key checks and error bodies.
Point meilictl or the integration suite at it when no real server is around.`,
		Version:      version,
		SilenceUsage: true,
		RunE:         runMock,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file")
	flags.StringVar(&addr, "addr", "", "Listen address (overrides mock.addr)")
	flags.StringVar(&masterKey, "master-key", "", "Master key (overrides mock.master_key)")
	flags.BoolVar(&toFile, "log-to-file", false, "Write logs to a file instead of stderr")
	flags.StringVar(&logFile, "log-file", "", "Log file path (implies --log-to-file)")
	flags.BoolVar(&debug, "debug", false, "Enable debug mode")

	return rootCmd
}

// setupLogging configures the logger from the config and runtime flags
func setupLogging(ctx context.Context, cfg *config.Config) (context.Context, io.Closer, error) {
	level := cfg.Log.Level
	if debug || os.Getenv("DEBUG") != "" {
		level = "debug"
	}

	opts := loggingutil.Options{
		Level:  level,
		Format: loggingutil.Format(cfg.Log.Format),
	}

	path := logFile
	if path == "" {
		path = cfg.Log.File
	}

	var closer io.Closer
	if toFile || path != "" {
		file, err := consts.EnsureLogFile(path)
		if err != nil {
			return ctx, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		opts.Writer = file
		opts.NoColor = true
		closer = file
	}

	return loggingutil.Set(ctx, loggingutil.New(opts)), closer, nil
}

func runMock(c *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if addr != "" {
		cfg.Mock.Addr = addr
	}
	if c.Flags().Changed("master-key") {
		cfg.Mock.MasterKey = masterKey
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	ctx, closer, err := setupLogging(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer httputil.LogCloseWithContext(ctx, closer, "log file")

	return cmd.RunMock(ctx, cfg, cmd.NewLifecycle())
}
