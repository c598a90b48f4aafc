package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"KeepUpDaily/internal/domain"
)

const (
	configPathEnv     = "KEEPUP_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// aiTokenEnvs lists credential variables in preference order: a dedicated
// GitHub Models PAT first, then the ambient Actions token.
var aiTokenEnvs = []string{"GH_MODELS_TOKEN", "GITHUB_TOKEN"}

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Storage       StorageConfig      `yaml:"storage"`
	AI            AIConfig           `yaml:"ai"`
	Notifications NotificationConfig `yaml:"notifications"`
	Taxonomy      TaxonomyConfig     `yaml:"taxonomy"`
	Sources       []SourceConfig     `yaml:"sources"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes the optional Postgres archive connection.
// An empty DSN disables archiving.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines whether the pipeline runs once or on a daily tick.
type SchedulerConfig struct {
	Daemon bool `yaml:"daemon"`
}

// StorageConfig describes the daily JSON data directory and retention window.
type StorageConfig struct {
	DataDir       string `yaml:"dataDir"`
	RetentionDays int    `yaml:"retentionDays"`
}

// AIConfig defines how to contact the chat-completion API that authors the
// digest. The token is never read from YAML, only from the environment.
type AIConfig struct {
	Disabled            bool    `yaml:"disabled"`
	Endpoint            string  `yaml:"endpoint"`
	Model               string  `yaml:"model"`
	Temperature         float64 `yaml:"temperature"`
	MaxTokens           int     `yaml:"maxTokens"`
	MaxEntries          int     `yaml:"maxEntries"`
	FallbackPerCategory int     `yaml:"fallbackPerCategory"`
	RequestTimeoutSec   int     `yaml:"requestTimeoutSec"`
	SystemPrompt        string  `yaml:"systemPrompt"`
	APIKey              string  `yaml:"-"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// TaxonomyConfig is the authoritative set of category keys with their keyword
// evidence. Slice order is significant: it breaks scoring ties and fixes the
// canonical display order of the fallback digest.
type TaxonomyConfig struct {
	Default    string           `yaml:"default"`
	Categories []CategoryConfig `yaml:"categories"`
}

// CategoryConfig binds one category key to its keyword list.
type CategoryConfig struct {
	Key      string   `yaml:"key"`
	Keywords []string `yaml:"keywords"`
}

// Contains reports whether key is a member of the taxonomy.
func (t TaxonomyConfig) Contains(key string) bool {
	for _, cat := range t.Categories {
		if cat.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the category keys in taxonomy order.
func (t TaxonomyConfig) Keys() []string {
	keys := make([]string, 0, len(t.Categories))
	for _, cat := range t.Categories {
		keys = append(keys, cat.Key)
	}
	return keys
}

// SourceConfig describes a single feed with its scanner strategy.
type SourceConfig struct {
	Name     string            `yaml:"name"`
	Scanner  string            `yaml:"scanner"`
	MaxItems int               `yaml:"maxItems"`
	Options  map[string]string `yaml:"options"`
	Feeds    []FeedConfig      `yaml:"feeds"`
}

// FeedConfig holds a concrete endpoint for scanners that take a feed list
// (currently the generic RSS strategy).
type FeedConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Taxonomy.validate(); err != nil {
		log.Printf("config: invalid taxonomy: %v (reverting to defaults)", err)
		cfg.Taxonomy = defaultTaxonomy()
	}

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (t TaxonomyConfig) validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}
	if !t.Contains(t.Default) {
		return fmt.Errorf("default category %q is not a taxonomy member", t.Default)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	c.AI.APIKey = firstEnv(aiTokenEnvs)
}

func firstEnv(names []string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.Daemon {
		base.Scheduler.Daemon = true
	}

	if override.Storage.DataDir != "" {
		base.Storage.DataDir = override.Storage.DataDir
	}
	if override.Storage.RetentionDays > 0 {
		base.Storage.RetentionDays = override.Storage.RetentionDays
	}

	if override.AI.Disabled {
		base.AI.Disabled = true
	}
	if override.AI.Endpoint != "" {
		base.AI.Endpoint = override.AI.Endpoint
	}
	if override.AI.Model != "" {
		base.AI.Model = override.AI.Model
	}
	if override.AI.Temperature > 0 {
		base.AI.Temperature = override.AI.Temperature
	}
	if override.AI.MaxTokens > 0 {
		base.AI.MaxTokens = override.AI.MaxTokens
	}
	if override.AI.MaxEntries > 0 {
		base.AI.MaxEntries = override.AI.MaxEntries
	}
	if override.AI.FallbackPerCategory > 0 {
		base.AI.FallbackPerCategory = override.AI.FallbackPerCategory
	}
	if override.AI.RequestTimeoutSec > 0 {
		base.AI.RequestTimeoutSec = override.AI.RequestTimeoutSec
	}
	if override.AI.SystemPrompt != "" {
		base.AI.SystemPrompt = override.AI.SystemPrompt
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Taxonomy.Categories) > 0 {
		base.Taxonomy = override.Taxonomy
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{Daemon: false},
		Storage:   StorageConfig{DataDir: "data", RetentionDays: 30},
		AI: AIConfig{
			Endpoint:            "https://models.inference.ai.azure.com/chat/completions",
			Model:               "gpt-4o",
			Temperature:         0.7,
			MaxTokens:           16000,
			MaxEntries:          30,
			FallbackPerCategory: 5,
			RequestTimeoutSec:   180,
		},
		Taxonomy: defaultTaxonomy(),
		Sources: []SourceConfig{
			{Name: "hackernews", Scanner: "hackernews", MaxItems: 30},
			{Name: "devto", Scanner: "devto", MaxItems: 30},
			{Name: "lobsters", Scanner: "lobsters", MaxItems: 25},
			{
				Name:     "reddit",
				Scanner:  "reddit",
				MaxItems: 10,
				Options: map[string]string{
					"subreddits": "programming,golang,webdev,MachineLearning,devops",
				},
			},
			{
				Name:    "github_trending",
				Scanner: "github_trending",
				Options: map[string]string{
					"languages": ",go,python,rust,typescript",
				},
			},
			{Name: "hashnode", Scanner: "hashnode", MaxItems: 20},
		},
	}
}

func defaultTaxonomy() TaxonomyConfig {
	return TaxonomyConfig{
		Default: domain.CategoryGeneral,
		Categories: []CategoryConfig{
			{Key: "ai", Keywords: []string{
				"ai", "llm", "gpt", "machine learning", "deep learning", "neural",
				"openai", "anthropic", "claude", "gemini", "transformer", "diffusion",
				"rag", "agent", "copilot", "inference", "fine-tuning", "embedding",
			}},
			{Key: "web", Keywords: []string{
				"css", "html", "frontend", "browser", "javascript", "typescript",
				"react", "vue", "svelte", "next.js", "webassembly", "wasm",
				"accessibility", "dom", "http", "web app",
			}},
			{Key: "devops", Keywords: []string{
				"k8s", "aws", "gcp", "docker", "kubernetes", "terraform", "cloud",
				"ci/cd", "deployment", "infrastructure", "observability", "serverless",
				"sre", "monitoring", "nginx", "ansible",
			}},
			{Key: "languages", Keywords: []string{
				"go", "cpp", "golang", "rust", "python", "java", "kotlin",
				"swift", "zig", "haskell", "elixir", "compiler", "garbage collect",
				"type system", "syntax", "stdlib",
			}},
			{Key: "frameworks", Keywords: []string{
				"sdk", "cli", "framework", "library", "open source", "plugin",
				"toolkit", "orm", "api design", "package manager", "devtool",
				"release", "version",
			}},
			{Key: "security", Keywords: []string{
				"cve", "xss", "security", "vulnerability", "exploit", "breach",
				"encryption", "malware", "phishing", "zero-day", "authentication",
				"password", "leak",
			}},
			{Key: "career", Keywords: []string{
				"job", "career", "interview", "hiring", "salary", "remote work",
				"burnout", "productivity", "mentorship", "layoff", "freelance",
				"team culture",
			}},
			{Key: domain.CategoryGeneral, Keywords: []string{}},
		},
	}
}
