package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	SerpAPI   SerpAPIConfig   `yaml:"serpapi" mapstructure:"serpapi"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Planner   PlannerConfig   `yaml:"planner" mapstructure:"planner"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures session persistence.
type StoreConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver"` // memory, redis, sqlite, postgres
	DatabaseURL  string `yaml:"database_url" mapstructure:"database_url"`
	RedisURL     string `yaml:"redis_url" mapstructure:"redis_url"`
	TTLMinutes   int    `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	HistoryLimit int    `yaml:"history_limit" mapstructure:"history_limit"`
}

// LLMConfig selects and bounds the text-generation backend.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"` // anthropic, gemini
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RetryAttempts  int    `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs int    `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	Model           string `yaml:"model" mapstructure:"model"`
	ExtractionModel string `yaml:"extraction_model" mapstructure:"extraction_model"`
	MaxTokens       int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GeminiConfig holds Google Gemini settings.
type GeminiConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int32  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OpenAIConfig holds the assistants thread settings used when
// planner.dialog is "thread".
type OpenAIConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	AssistantID string `yaml:"assistant_id" mapstructure:"assistant_id"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	PollTimeout int    `yaml:"poll_timeout_secs" mapstructure:"poll_timeout_secs"`
}

// SerpAPIConfig holds SerpAPI settings for the travel providers.
type SerpAPIConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Currency   string  `yaml:"currency" mapstructure:"currency"`
}

// ProvidersConfig configures the flights, hotels and activities lookups.
type ProvidersConfig struct {
	Mode             string `yaml:"mode" mapstructure:"mode"` // serpapi, fixture
	FixturePath      string `yaml:"fixture_path" mapstructure:"fixture_path"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	FailureThreshold int    `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int    `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// PlannerConfig configures the conversation and itinerary flow.
type PlannerConfig struct {
	HorizonDays           int    `yaml:"horizon_days" mapstructure:"horizon_days"`
	Extractor             string `yaml:"extractor" mapstructure:"extractor"` // hybrid, llm, rules
	Dialog                string `yaml:"dialog" mapstructure:"dialog"`       // local, thread, template
	ExtractionTimeoutSecs int    `yaml:"extraction_timeout_secs" mapstructure:"extraction_timeout_secs"`
	SynthesisTimeoutSecs  int    `yaml:"synthesis_timeout_secs" mapstructure:"synthesis_timeout_secs"`
	FollowUpTimeoutSecs   int    `yaml:"followup_timeout_secs" mapstructure:"followup_timeout_secs"`
	PromptHistory         int    `yaml:"prompt_history" mapstructure:"prompt_history"`
}

// Load reads configuration from config.yaml (optional) and TRIP_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("store.ttl_minutes", 60)
	v.SetDefault("store.history_limit", 50)
	v.SetDefault("llm.provider", "anthropic")
	v.SetDefault("llm.timeout_secs", 30)
	v.SetDefault("llm.retry_attempts", 2)
	v.SetDefault("llm.retry_backoff_ms", 400)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.extraction_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("gemini.key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 2048)
	v.SetDefault("openai.key", "")
	v.SetDefault("openai.assistant_id", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.poll_timeout_secs", 30)
	v.SetDefault("serpapi.key", "")
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.rate_per_sec", 5.0)
	v.SetDefault("serpapi.currency", "USD")
	v.SetDefault("providers.mode", "serpapi")
	v.SetDefault("providers.fixture_path", "")
	v.SetDefault("providers.timeout_secs", 20)
	v.SetDefault("providers.failure_threshold", 5)
	v.SetDefault("providers.reset_timeout_secs", 60)
	v.SetDefault("planner.horizon_days", 180)
	v.SetDefault("planner.extractor", "hybrid")
	v.SetDefault("planner.dialog", "local")
	v.SetDefault("planner.extraction_timeout_secs", 15)
	v.SetDefault("planner.synthesis_timeout_secs", 90)
	v.SetDefault("planner.followup_timeout_secs", 60)
	v.SetDefault("planner.prompt_history", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is "serve" or "chat"
// for the full assistant, "store" for commands that only touch sessions.
func (c *Config) Validate(mode string) error {
	var errs []string
	add := func(msg string) { errs = append(errs, msg) }

	switch c.Store.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			add("store.database_url is required for postgres")
		}
	case "redis":
		if c.Store.RedisURL == "" {
			add("store.redis_url is required for redis")
		}
	default:
		add(fmt.Sprintf("unknown store.driver %q", c.Store.Driver))
	}
	if c.Store.TTLMinutes <= 0 {
		add("store.ttl_minutes must be > 0")
	}

	switch mode {
	case "store":
	case "serve", "chat":
		c.validateAssistant(add)
		if mode == "serve" && c.Server.Port <= 0 {
			add("server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateAssistant(add func(string)) {
	switch c.LLM.Provider {
	case "anthropic":
		if c.Anthropic.Key == "" {
			add("anthropic.key is required")
		}
	case "gemini":
		if c.Gemini.Key == "" {
			add("gemini.key is required")
		}
	default:
		add(fmt.Sprintf("unknown llm.provider %q", c.LLM.Provider))
	}

	switch c.Planner.Extractor {
	case "hybrid", "llm", "rules":
	default:
		add(fmt.Sprintf("unknown planner.extractor %q", c.Planner.Extractor))
	}

	switch c.Planner.Dialog {
	case "local", "template":
	case "thread":
		if c.OpenAI.Key == "" || c.OpenAI.AssistantID == "" {
			add("openai.key and openai.assistant_id are required for thread dialog")
		}
	default:
		add(fmt.Sprintf("unknown planner.dialog %q", c.Planner.Dialog))
	}

	switch c.Providers.Mode {
	case "serpapi":
		if c.SerpAPI.Key == "" {
			add("serpapi.key is required")
		}
	case "fixture":
		if c.Providers.FixturePath == "" {
			add("providers.fixture_path is required for fixture mode")
		}
	default:
		add(fmt.Sprintf("unknown providers.mode %q", c.Providers.Mode))
	}

	if c.Planner.HorizonDays <= 0 {
		add("planner.horizon_days must be > 0")
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
