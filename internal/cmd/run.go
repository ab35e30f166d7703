package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michkochris/rune-analyze/internal/analyze"
	"github.com/michkochris/rune-analyze/internal/config"
	"github.com/michkochris/rune-analyze/internal/exitcode"
	"github.com/michkochris/rune-analyze/internal/gate"
	"github.com/michkochris/rune-analyze/internal/log"
	"github.com/michkochris/rune-analyze/internal/report"
	"github.com/michkochris/rune-analyze/internal/scan"
	"github.com/michkochris/rune-analyze/internal/timeline"
)

var runCmd = &cobra.Command{
	Use:   "run <target> [args...]",
	Short: "Supervise and classify a program execution",
	Long: `Run a target executable under full supervision: validate it, spawn it
with captured output streams, sample its memory, and classify the run.

Plain invocations are refused by the safety gate. Authorize real
execution with --force, or use --dry-run to walk the full pipeline
without spawning anything. When both are given the dry run wins.

Examples:
  rune-analyze run ./suspect            # blocked, prints safe alternatives
  rune-analyze run --dry-run ./suspect  # simulated, nothing executes
  rune-analyze run --force ./suspect -- --input data.bin`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runForce   bool
	runDryRun  bool
	runSafe    bool
	runSymbols string
)

func init() {
	runCmd.Flags().BoolVarP(&runForce, "force", "f", false, "authorize real execution of the target")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "simulate the run without spawning the target")
	runCmd.Flags().BoolVar(&runSafe, "safe", false, "force simulation regardless of other flags")
	runCmd.Flags().StringVar(&runSymbols, "symbols", "", "file of symbol names (nm output) fed to the classifier")

	// Everything after the target belongs to the child, not to us.
	runCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, format, err := setupRuntime()
	if err != nil {
		return err
	}
	logger := log.DefaultLogger()

	req := gate.Request{
		Target:   args[0],
		Args:     args[1:],
		Class:    gate.ClassExecute,
		Force:    runForce,
		DryRun:   runDryRun,
		SafeMode: runSafe || cfg.SafeMode,
	}

	session := analyze.NewSession(req, logger)
	if err := installConfigTriggers(session, cfg, logger); err != nil {
		return err
	}

	if runSymbols != "" {
		data, err := os.ReadFile(runSymbols)
		if err != nil {
			return fmt.Errorf("read symbols file: %w", err)
		}
		session.StaticSignals = scan.ParseSymbols(string(data))
	}

	outcome, err := session.Run(cmd.Context())
	if err != nil {
		return err
	}

	if err := report.Render(os.Stdout, outcome, report.ParseFormat(format)); err != nil {
		return err
	}

	// Mirror the child's status so callers can script against us. The
	// error travels back through main so deferred cleanup still runs.
	if outcome.Result.ExitCode != 0 {
		return &exitcode.ChildExitError{Code: outcome.Result.ExitCode}
	}
	return nil
}

// installConfigTriggers registers the triggers declared in the config
// file after the built-ins, so they dispatch last.
func installConfigTriggers(session *analyze.Session, cfg *config.Config, logger *log.Logger) error {
	for _, tc := range cfg.Triggers {
		name := tc.Name
		err := session.Registry().Register(tc.Pattern, name, func(cp *timeline.Checkpoint) {
			logger.Warn("trigger fired", "trigger", name, "id", cp.ID, "context", cp.Context)
		})
		if err != nil {
			return err
		}
		if tc.Enabled != nil && !*tc.Enabled {
			session.Registry().Disable(name)
		}
	}
	return nil
}
