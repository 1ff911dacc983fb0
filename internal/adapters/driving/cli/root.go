// Package cli implements the lexwatch command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/lexwatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexwatch/internal/adapters/driven/fetch/web"
	"github.com/custodia-labs/lexwatch/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/lexwatch/internal/adapters/driven/llm/ollama"
	smtpnotify "github.com/custodia-labs/lexwatch/internal/adapters/driven/notify/smtp"
	storagefile "github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driving"
	"github.com/custodia-labs/lexwatch/internal/core/services"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagDataDir string
	flagVerbose bool
)

// Wired services, populated by initServices before any command runs.
var (
	configStore   driven.ConfigStore
	metaStore     *sqlite.Store
	sourceStore   *storagefile.SourceStore
	corpus        *services.Corpus
	tracker       *services.VersionTracker
	sourceService driving.SourceService
	queryService  driving.QueryService
	pipeline      driving.PipelineRunner
	llmService    driven.LLMService
)

var rootCmd = &cobra.Command{
	Use:   "lexwatch",
	Short: "Track regulatory documents and query them",
	Long: `lexwatch polls tracked web pages for published PDF documents, keeps a
versioned history of every change, and answers questions about the
current corpus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		// Help and version need no wiring.
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return initServices()
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		if metaStore != nil {
			metaStore.Close() //nolint:errcheck
		}
		if llmService != nil {
			llmService.Close() //nolint:errcheck
		}
	}
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.lexwatch)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}

// initServices builds the full adapter and service graph. Already-wired
// services are left in place.
func initServices() error {
	if sourceService != nil {
		return nil
	}

	baseDir := flagDataDir
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".lexwatch")
	}

	var err error
	configStore, err = configfile.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	metaStore, err = sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	sourceStore, err = storagefile.NewSourceStore(filepath.Join(baseDir, "sources.txt"))
	if err != nil {
		return fmt.Errorf("open source registry: %w", err)
	}

	snapStore, err := storagefile.NewSnapshotStore(filepath.Join(baseDir, "history"))
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}

	docStore := metaStore.DocumentStore()
	tracker = services.NewVersionTracker(docStore, snapStore)

	// Warm-start the corpus from persisted records.
	corpus = services.NewCorpus()
	if docs, err := docStore.ListAll(rootCmd.Context()); err == nil {
		corpus.Load(docs)
	} else {
		logger.Warn("Corpus warm start failed: %v", err)
	}

	sourceService = services.NewSourceService(sourceStore, docStore, tracker, corpus)

	var budgetOpts []services.BudgeterOption
	if budget := configStore.GetInt(driven.ConfigKeyContextBudget); budget > 0 {
		budgetOpts = append(budgetOpts, services.WithBudget(budget))
	}
	if cap := configStore.GetInt(driven.ConfigKeyParagraphCap); cap > 0 {
		budgetOpts = append(budgetOpts, services.WithParagraphCap(cap))
	}

	llmService = buildLLM()
	queryService = services.NewQAService(corpus, services.NewBudgeter(budgetOpts...), tracker, llmService)

	fetcher := web.NewFetcher(web.WithUserAgent("lexwatch/" + version))

	var pipelineOpts []services.PipelineOption
	if category := configStore.GetString(driven.ConfigKeyDefaultCategory); category != "" {
		pipelineOpts = append(pipelineOpts, services.WithCategory(category))
	}
	if keywords := configStore.GetStringSlice(driven.ConfigKeyDefaultKeywords); len(keywords) > 0 {
		pipelineOpts = append(pipelineOpts, services.WithKeywords(keywords))
	}
	if notifier := buildNotifier(); notifier != nil {
		pipelineOpts = append(pipelineOpts, services.WithNotifier(notifier))
	}

	pipeline = services.NewPipelineOrchestrator(sourceStore, fetcher, tracker, corpus, pipelineOpts...)
	return nil
}

// buildLLM constructs the configured completion service, or nil when none
// is configured. A missing LLM only disables the ask surface.
func buildLLM() driven.LLMService {
	switch configStore.GetString("llm.provider") {
	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			apiKey = configStore.GetString("llm.api_key")
		}
		svc, err := anthropic.NewLLMService(anthropic.Config{
			APIKey: apiKey,
			Model:  configStore.GetString("llm.model"),
		})
		if err != nil {
			logger.Warn("Anthropic unavailable: %v", err)
			return nil
		}
		return svc
	case "ollama":
		return ollama.NewLLMService(ollama.Config{
			BaseURL: configStore.GetString("llm.base_url"),
			Model:   configStore.GetString("llm.model"),
		})
	default:
		return nil
	}
}

// buildNotifier constructs the change notifier when SMTP is configured.
func buildNotifier() driven.Notifier {
	host := configStore.GetString("notify.smtp_host")
	if host == "" {
		return nil
	}

	notifier, err := smtpnotify.NewNotifier(smtpnotify.Config{
		Host:     host,
		Port:     configStore.GetInt("notify.smtp_port"),
		Username: configStore.GetString("notify.smtp_username"),
		Password: configStore.GetString("notify.smtp_password"),
		From:     configStore.GetString("notify.from"),
		To:       configStore.GetStringSlice("notify.to"),
	})
	if err != nil {
		logger.Warn("Notifier disabled: %v", err)
		return nil
	}
	return notifier
}

// pollInterval resolves the configured poll interval.
func pollInterval() time.Duration {
	if minutes := configStore.GetInt(driven.ConfigKeyPollInterval); minutes > 0 {
		return time.Duration(minutes) * time.Minute
	}
	return time.Hour
}

// schedulerConfig builds the scheduler configuration from settings.
func schedulerConfig() domain.SchedulerConfig {
	return domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDDocumentPoll: {
				Enabled:  true,
				Interval: pollInterval(),
			},
		},
	}
}
