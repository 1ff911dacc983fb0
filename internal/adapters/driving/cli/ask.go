package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

var askOrigin string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the tracked documents",
	Long: `Ask a question answered from the current corpus. Oversized context is
split into budgeted batches; a failed batch leaves an explicit gap marker
in the answer instead of silently dropping documents.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askOrigin, "origin", "", "restrict to documents from one source URL")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return fmt.Errorf("query service not available")
	}

	question := strings.Join(args, " ")
	answer, err := queryService.Ask(cmd.Context(), question, domain.AskScope{Origin: askOrigin})
	if err != nil && answer.Text == "" {
		return fmt.Errorf("asking: %w", err)
	}

	cmd.Println(answer.Text)
	if answer.Failed > 0 {
		cmd.Println(errorStyle.Render(fmt.Sprintf(
			"\nBatch %d of %d failed; the answer above is partial.",
			answer.Failed, answer.Batches)))
	} else if answer.Batches > 1 {
		cmd.Println(faintStyle.Render(fmt.Sprintf("\nAnswered in %d batches.", answer.Batches)))
	}
	return nil
}
