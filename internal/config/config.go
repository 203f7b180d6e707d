// Package config loads winglish settings from defaults, an optional config
// file, WINGLISH_* environment variables and command-line flags, in rising
// order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/winglish-nk/Winglish-bot/internal/llm"
	"github.com/winglish-nk/Winglish-bot/internal/session"
)

// EnvPrefix is prepended to every environment variable, with dots in the
// key replaced by underscores: db.dsn is WINGLISH_DB_DSN.
const EnvPrefix = "WINGLISH"

type Config struct {
	User     string  `mapstructure:"user"`
	Timezone string  `mapstructure:"timezone"`
	DB       DB      `mapstructure:"db"`
	Session  Session `mapstructure:"session"`
	Log      Log     `mapstructure:"log"`
	LLM      LLM     `mapstructure:"llm"`
}

type DB struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver"`
	// DSN is a file path for sqlite or a connection URL for postgres.
	// Empty selects the default sqlite file.
	DSN string `mapstructure:"dsn"`
}

type Session struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	BatchSize   int           `mapstructure:"batch_size"`
}

type Log struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type LLM struct {
	Provider    string        `mapstructure:"provider"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RatePerMin  int           `mapstructure:"rate_per_minute"`
	RateBurst   int           `mapstructure:"rate_burst"`
	Anthropic   Endpoint      `mapstructure:"anthropic"`
	OpenAI      Endpoint      `mapstructure:"openai"`
	Gemini      Endpoint      `mapstructure:"gemini"`
	OpenRouter  Endpoint      `mapstructure:"openrouter"`
}

type Endpoint struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// SetDefaults registers every key with its default. Keys without a default
// are invisible to environment lookups during Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("user", "local")
	v.SetDefault("timezone", "Local")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("session.idle_timeout", session.DefaultIdleTimeout)
	v.SetDefault("session.batch_size", session.MaxItems)
	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.rate_per_minute", d.RateLimit.PerMinute)
	v.SetDefault("llm.rate_burst", d.RateLimit.Burst)
	for name, model := range map[string]string{
		"anthropic":  d.Anthropic.Model,
		"openai":     d.OpenAI.Model,
		"gemini":     d.Gemini.Model,
		"openrouter": d.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}
}

// Load reads the configuration into a Config. file may be empty. Flags
// must already be bound on v.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and names. LLM credentials are checked later, only
// when a reading drill needs a provider.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("db.driver must be sqlite or postgres, got %q", c.DB.Driver)
	}
	if c.DB.Driver == "postgres" && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required for postgres")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be positive")
	}
	if c.Session.BatchSize < 1 || c.Session.BatchSize > session.MaxItems {
		return fmt.Errorf("session.batch_size must be between 1 and %d", session.MaxItems)
	}
	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("user must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.LLM.RatePerMin < 0 || c.LLM.RateBurst < 0 || c.LLM.MaxAttempts < 0 {
		return fmt.Errorf("llm limits must not be negative")
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the machine's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LLMConfig maps the llm section onto the provider layer's Config.
func (c *Config) LLMConfig() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLM.Provider
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	cfg.RateLimit = llm.RateLimitConfig{PerMinute: c.LLM.RatePerMin, Burst: c.LLM.RateBurst}

	cfg.Anthropic = llm.AnthropicConfig{APIKey: c.LLM.Anthropic.APIKey, Model: c.LLM.Anthropic.Model, BaseURL: c.LLM.Anthropic.BaseURL}
	cfg.OpenAI = llm.OpenAIConfig{APIKey: c.LLM.OpenAI.APIKey, Model: c.LLM.OpenAI.Model, BaseURL: c.LLM.OpenAI.BaseURL}
	cfg.Gemini = llm.GeminiConfig{APIKey: c.LLM.Gemini.APIKey, Model: c.LLM.Gemini.Model}
	cfg.OpenRouter = llm.OpenAIConfig{APIKey: c.LLM.OpenRouter.APIKey, Model: c.LLM.OpenRouter.Model, BaseURL: c.LLM.OpenRouter.BaseURL}
	return cfg
}

// HasLLMKey reports whether any provider key was configured explicitly.
func (c *Config) HasLLMKey() bool {
	return c.LLM.Provider == "mock" ||
		c.LLM.Anthropic.APIKey != "" || c.LLM.OpenAI.APIKey != "" ||
		c.LLM.Gemini.APIKey != "" || c.LLM.OpenRouter.APIKey != ""
}
