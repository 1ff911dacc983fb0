package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the corpus for a phrase",
	Long: `Search every tracked document for paragraphs containing the query.
Matching is case-insensitive and substring based.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum matches to show")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return fmt.Errorf("query service not available")
	}

	query := strings.Join(args, " ")
	matches, err := queryService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if searchLimit > 0 && len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}

	if searchJSON {
		out, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	if len(matches) == 0 {
		cmd.Printf("No matches for %q\n", query)
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("%d match(es) for %q", len(matches), query)))
	for _, m := range matches {
		cmd.Printf("\n%s %s\n", headingStyle.Render(m.DocumentName), faintStyle.Render(m.Origin))
		cmd.Printf("  %s\n", m.Text)
	}
	return nil
}
