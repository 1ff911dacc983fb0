package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage application settings",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by dotted key, for example:

  lexwatch config set qa.context_budget 16000
  lexwatch config set llm.provider anthropic
  lexwatch config set scheduler.poll_interval_minutes 30

Integer-looking values are stored as integers, "true"/"false" as
booleans, everything else as strings.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store the LLM API key",
	Long:  `Prompt for the LLM API key without echoing it to the terminal.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return fmt.Errorf("config store not available")
	}

	cmd.Println(headingStyle.Render("Settings"))
	cmd.Printf("  %s\n\n", faintStyle.Render(configStore.Path()))

	cmd.Println("[QA]")
	printSetting(cmd, "context budget", configStore.GetInt(driven.ConfigKeyContextBudget), "chars")
	printSetting(cmd, "paragraph cap", configStore.GetInt(driven.ConfigKeyParagraphCap), "")
	cmd.Println()

	cmd.Println("[LLM]")
	provider := configStore.GetString("llm.provider")
	if provider == "" {
		provider = "(not configured)"
	}
	cmd.Printf("  provider: %s\n", provider)
	if model := configStore.GetString("llm.model"); model != "" {
		cmd.Printf("  model: %s\n", model)
	}
	if key := configStore.GetString("llm.api_key"); key != "" {
		cmd.Printf("  api key: %s\n", maskKey(key))
	}
	cmd.Println()

	cmd.Println("[Scheduler]")
	printSetting(cmd, "poll interval", configStore.GetInt(driven.ConfigKeyPollInterval), "minutes")
	cmd.Println()

	cmd.Println("[Corpus]")
	if category := configStore.GetString(driven.ConfigKeyDefaultCategory); category != "" {
		cmd.Printf("  default category: %s\n", category)
	}
	if keywords := configStore.GetStringSlice(driven.ConfigKeyDefaultKeywords); len(keywords) > 0 {
		cmd.Printf("  default keywords: %s\n", strings.Join(keywords, ", "))
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return fmt.Errorf("config store not available")
	}

	key, raw := args[0], args[1]

	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if b, err := strconv.ParseBool(raw); err == nil {
		value = b
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving setting: %w", err)
	}
	cmd.Printf("Set %s = %v\n", key, value)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return fmt.Errorf("config store not available")
	}

	cmd.Print("Enter API key: ")
	key := readSecret()
	cmd.Println()
	if key == "" {
		return fmt.Errorf("API key must not be empty")
	}

	if err := configStore.Set("llm.api_key", key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}
	cmd.Println("API key saved.")
	return nil
}

func printSetting(cmd *cobra.Command, label string, value int, unit string) {
	if value == 0 {
		cmd.Printf("  %s: (default)\n", label)
		return
	}
	if unit != "" {
		cmd.Printf("  %s: %d %s\n", label, value, unit)
		return
	}
	cmd.Printf("  %s: %d\n", label, value)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if secret, err := term.ReadPassword(int(os.Stdin.Fd())); err == nil {
			return string(secret)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
