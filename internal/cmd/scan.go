package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/michkochris/rune-analyze/internal/report"
	"github.com/michkochris/rune-analyze/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Score a file's risk without executing it",
	Long: `Scan inspects a file statically: size, fingerprint, embedded strings,
and name patterns. It accumulates risk points and bands them into a
verdict. Nothing is ever executed.

Examples:
  rune-analyze scan ./downloaded-installer
  rune-analyze scan --json ./suspect.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	_, format, err := setupRuntime()
	if err != nil {
		return err
	}

	risk, err := scan.File(args[0])
	if err != nil {
		return err
	}
	return report.RenderScan(os.Stdout, risk, report.ParseFormat(format))
}
