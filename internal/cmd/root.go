// Package cmd defines the rune-analyze command tree. Commands stay thin:
// they parse flags, build a session or scanner, and hand the outcome to
// the report layer.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/michkochris/rune-analyze/internal/config"
	"github.com/michkochris/rune-analyze/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "rune-analyze",
	Short: "Process supervision and event intelligence for untrusted executables",
	Long: `rune-analyze supervises the execution of a target program, records a
checkpoint timeline of everything it observes, and classifies the run's
risk. Executables are never run without explicit consent: plain
invocations are blocked by the safety gate, --dry-run simulates without
spawning, and --force authorizes real execution.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	flagVerbosity int
	flagQuiet     bool
	flagJSON      bool
	flagBoth      bool
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with a cancellation context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress all logs except errors")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit the report as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagBoth, "both", false, "emit both the human report and JSON")
}

// setupRuntime loads the config file and installs the default logger.
// Flags override file values.
func setupRuntime() (*config.Config, string, error) {
	cfg, err := config.Discover()
	if err != nil {
		return nil, "", err
	}

	// The verbosity counter runs -q=0, default=1, -v=2, -vv=3.
	verbosity := 1 + cfg.Verbosity
	if flagVerbosity > 0 {
		verbosity = 1 + flagVerbosity
	}
	if flagQuiet {
		verbosity = 0
	}
	logger := log.New(log.VerboseConfig(verbosity))
	log.SetDefaultLogger(logger)

	format := cfg.Format
	switch {
	case flagBoth:
		format = "both"
	case flagJSON:
		format = "json"
	}
	return cfg, format, nil
}
