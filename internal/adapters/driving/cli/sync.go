package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Poll every tracked source once",
	Long: `Poll every tracked source page, classify each linked document as new,
changed or unchanged, and update the corpus and version history.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if pipeline == nil {
		return fmt.Errorf("pipeline not available")
	}

	report, err := pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	cmd.Println(headingStyle.Render("Sync complete"))
	cmd.Printf("  %s %d\n", newStyle.Render("new:"), report.New)
	cmd.Printf("  %s %d\n", changedStyle.Render("changed:"), report.Changed)
	cmd.Printf("  %s %d\n", unchangedStyle.Render("unchanged:"), report.Unchanged)
	if report.Errors > 0 {
		cmd.Printf("  %s %d\n", errorStyle.Render("errors:"), report.Errors)
	}
	return nil
}
