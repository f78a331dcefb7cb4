// Command vowelchain analyses vowel/consonant transitions in text.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	configPath   string
	logLevelFlag string
	dbPathFlag   string

	cfg    = DefaultConfig()
	logger = slog.New(slog.DiscardHandler)
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "vowelchain",
		Short:             "Vowel/consonant transition statistics for text",
		SilenceUsage:      true,
		PersistentPreRunE: loadRuntime,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.json", "config file (.json or .toml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "history database path (overrides config)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadRuntime loads the config file, applies flag overrides and builds the logger.
func loadRuntime(cmd *cobra.Command, _ []string) error {
	loaded, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Server.LogLevel = logLevelFlag
	}
	if cmd.Flags().Changed("db") {
		loaded.Server.DatabasePath = dbPathFlag
	}

	cfg = loaded
	logger = newLogger(cfg.Server.LogLevel, os.Stderr)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "vowelchain %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return err
		},
	}
}
