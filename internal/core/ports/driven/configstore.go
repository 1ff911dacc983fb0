package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Well-known configuration keys.
const (
	// ConfigKeyContextBudget is the packet size budget in characters.
	ConfigKeyContextBudget = "qa.context_budget"

	// ConfigKeyParagraphCap is the maximum paragraphs per packet (0 = unlimited).
	ConfigKeyParagraphCap = "qa.paragraph_cap"

	// ConfigKeyDefaultCategory is the category tag applied at discovery time.
	ConfigKeyDefaultCategory = "corpus.default_category"

	// ConfigKeyDefaultKeywords is the keyword tags applied at discovery time.
	ConfigKeyDefaultKeywords = "corpus.default_keywords"

	// ConfigKeyPollInterval is the scheduler poll interval in minutes.
	ConfigKeyPollInterval = "scheduler.poll_interval_minutes"
)
