package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

var (
	historyOrigin string
	diffOrigin    string
	diffSeq       int
)

var historyCmd = &cobra.Command{
	Use:   "history <name>",
	Short: "Show retained versions of a document",
	Long: `Show the retained superseded versions of a document, oldest first.
The current text is version N+1 and is not listed here.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var diffCmd = &cobra.Command{
	Use:   "diff <name>",
	Short: "Show what changed between two versions",
	Long: `Show a unified diff between a retained snapshot and the version that
replaced it. With --seq pointing at the newest snapshot the diff is
against the current text.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	historyCmd.Flags().StringVar(&historyOrigin, "origin", "", "source URL the document belongs to")
	historyCmd.MarkFlagRequired("origin") //nolint:errcheck

	diffCmd.Flags().StringVar(&diffOrigin, "origin", "", "source URL the document belongs to")
	diffCmd.Flags().IntVar(&diffSeq, "seq", 0, "snapshot sequence to diff from")
	diffCmd.MarkFlagRequired("origin") //nolint:errcheck
	diffCmd.MarkFlagRequired("seq")    //nolint:errcheck

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(diffCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return fmt.Errorf("query service not available")
	}

	id := domain.Identity{Origin: historyOrigin, Name: args[0]}
	snaps, err := queryService.History(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(snaps) == 0 {
		cmd.Printf("No superseded versions of %q yet\n", args[0])
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("History of %s (%d version(s))", args[0], len(snaps))))
	for _, snap := range snaps {
		line := fmt.Sprintf("  v%d  %d chars", snap.Seq, len(snap.Text))
		if !snap.CapturedAt.IsZero() {
			line += faintStyle.Render("  " + snap.CapturedAt.Format("2006-01-02 15:04"))
		}
		cmd.Println(line)
	}
	return nil
}

func runDiff(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return fmt.Errorf("query service not available")
	}

	id := domain.Identity{Origin: diffOrigin, Name: args[0]}
	diff, err := queryService.Diff(cmd.Context(), id, diffSeq)
	if err != nil {
		return fmt.Errorf("computing diff: %w", err)
	}

	cmd.Print(diff)
	return nil
}
