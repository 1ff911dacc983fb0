package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

var (
	docsOrigin string
	docsJSON   bool
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "List tracked documents",
	Args:  cobra.NoArgs,
	RunE:  runDocs,
}

func init() {
	docsCmd.Flags().StringVar(&docsOrigin, "origin", "", "restrict to documents from one source URL")
	docsCmd.Flags().BoolVar(&docsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(docsCmd)
}

func runDocs(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return fmt.Errorf("query service not available")
	}

	docs, err := queryService.ListDocuments(cmd.Context(), domain.AskScope{Origin: docsOrigin})
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if docsJSON {
		out, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding documents: %w", err)
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Tracked documents (%d)", len(docs))))
	for _, doc := range docs {
		cmd.Printf("  %s v%d %s\n", doc.Identity.Name, doc.Version, styledStatus(doc.Status.String()))
		cmd.Printf("    %s\n", faintStyle.Render(doc.Identity.Origin))
	}
	return nil
}
