package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full engine configuration.
type Config struct {
	Server       ServerConfig
	Logging      LoggingConfig
	Embedding    EmbeddingConfig
	VectorStore  VectorStoreConfig `mapstructure:"vector_store"`
	Generation   GenerationConfig
	Gate         GateConfig
	Retrieval    RetrievalConfig
	Conversation ConversationConfig
	Prompt       PromptConfig
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// EmbeddingConfig points at an OpenAI-compatible embeddings endpoint.
type EmbeddingConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

// VectorStoreConfig points at the external vector-search service.
type VectorStoreConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ConnectRetries int           `mapstructure:"connect_retries"`
}

// GenerationConfig points at the primary OpenAI-compatible generation backend.
type GenerationConfig struct {
	BaseURL           string   `mapstructure:"base_url"`
	APIKey            string   `mapstructure:"api_key"`
	Model             string   `mapstructure:"model"`
	MaxTokens         int      `mapstructure:"max_tokens"`
	Temperature       float32  `mapstructure:"temperature"`
	TopP              float32  `mapstructure:"top_p"`
	TopK              int      `mapstructure:"top_k"`
	RepetitionPenalty float32  `mapstructure:"repetition_penalty"`
	Stop              []string `mapstructure:"stop"`
}

// GateConfig holds the retrieval-gate phrase tables. Empty slices fall
// back to the built-in curated lists.
type GateConfig struct {
	Topics   []string `mapstructure:"topics"`
	Requests []string `mapstructure:"requests"`
}

// RetrievalConfig tunes the document retriever ladder.
type RetrievalConfig struct {
	TopK                int     `mapstructure:"top_k"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// ConversationConfig tunes the conversation store.
type ConversationConfig struct {
	StorageDir       string `mapstructure:"storage_dir"`
	ArchivePath      string `mapstructure:"archive_path"`
	MaxHistory       int    `mapstructure:"max_history"`
	MaxContextLength int    `mapstructure:"max_context_length"`
	MinQueryTokens   int    `mapstructure:"min_query_tokens"`
	MinWordOverlap   int    `mapstructure:"min_word_overlap"`
	RetentionDays    int    `mapstructure:"retention_days"`
}

// PromptConfig bounds prompt assembly.
type PromptConfig struct {
	MaxDocuments    int `mapstructure:"max_documents"`
	DocCharLimit    int `mapstructure:"doc_char_limit"`
	CharBudget      int `mapstructure:"char_budget"`
	RecentExchanges int `mapstructure:"recent_exchanges"`
}

// Load reads the configuration from config.yaml (or $CONFIG_PATH), with
// defaults applied and RAGENGINE_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RAGENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: defaults plus env may be a complete
		// configuration. Anything else (unreadable, bad yaml) is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every required external endpoint/credential is
// present. The engine must not be constructed from a config that fails
// validation.
func (c *Config) Validate() error {
	var missing []string
	if c.Embedding.BaseURL == "" {
		missing = append(missing, "embedding.base_url")
	}
	if c.VectorStore.BaseURL == "" {
		missing = append(missing, "vector_store.base_url")
	}
	if c.Generation.BaseURL == "" {
		missing = append(missing, "generation.base_url")
	}
	if c.Generation.Model == "" {
		missing = append(missing, "generation.model")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8001")
	v.SetDefault("logging.level", "info")

	v.SetDefault("embedding.model", "all-minilm")
	v.SetDefault("embedding.dimension", 384)

	v.SetDefault("vector_store.timeout", 5*time.Second)
	v.SetDefault("vector_store.connect_retries", 3)

	v.SetDefault("generation.max_tokens", 512)
	v.SetDefault("generation.temperature", 0.3)
	v.SetDefault("generation.top_p", 0.9)
	v.SetDefault("generation.top_k", 40)
	v.SetDefault("generation.repetition_penalty", 1.1)
	v.SetDefault("generation.stop", []string{"Human:", "User:", "Question:"})

	v.SetDefault("retrieval.top_k", 5)
	v.SetDefault("retrieval.similarity_threshold", 0.3)

	v.SetDefault("conversation.storage_dir", "./conversations")
	v.SetDefault("conversation.archive_path", "")
	v.SetDefault("conversation.max_history", 10)
	v.SetDefault("conversation.max_context_length", 2000)
	v.SetDefault("conversation.min_query_tokens", 4)
	v.SetDefault("conversation.min_word_overlap", 2)
	v.SetDefault("conversation.retention_days", 30)

	v.SetDefault("prompt.max_documents", 3)
	v.SetDefault("prompt.doc_char_limit", 800)
	v.SetDefault("prompt.char_budget", 6000)
	v.SetDefault("prompt.recent_exchanges", 3)
}
