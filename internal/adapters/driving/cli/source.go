package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage tracked source pages",
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Track a new source page",
	Long: `Track a web page that publishes PDF documents. The page is polled on
every sync round and its linked documents are versioned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Stop tracking a source page",
	Long: `Stop tracking a source page. All document records, version history and
corpus entries for that origin are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceRemove,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked source pages",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

func init() {
	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceListCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return fmt.Errorf("source service not available")
	}

	if err := sourceService.Add(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("adding source: %w", err)
	}
	cmd.Printf("Tracking %s\n", args[0])
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return fmt.Errorf("source service not available")
	}

	if err := sourceService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing source: %w", err)
	}
	cmd.Printf("Removed %s and its document history\n", args[0])
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return fmt.Errorf("source service not available")
	}

	urls, err := sourceService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(urls) == 0 {
		cmd.Println("No sources tracked. Add one with: lexwatch source add <url>")
		return nil
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("Tracked sources (%d)", len(urls))))
	for _, url := range urls {
		cmd.Printf("  %s\n", url)
	}
	return nil
}
