package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ChatBackendRemote = "remote"
	ChatBackendOpenAI = "openai"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`

	EnableDB    bool   `mapstructure:"enable_db"`
	DatabaseURL string `mapstructure:"database_url"`

	PredictionAPIURL string        `mapstructure:"prediction_api_url"`
	UpstreamTimeout  time.Duration `mapstructure:"upstream_timeout"`

	ChatBackend   string `mapstructure:"chat_backend"`
	ChatAPIURL    string `mapstructure:"chat_api_url"`
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	SessionSecret string `mapstructure:"session_secret"`
	CookieSecure  bool   `mapstructure:"cookie_secure"`

	LogDir    string `mapstructure:"log_dir"`
	LogLevel  string `mapstructure:"log_level"`
	LogToFile bool   `mapstructure:"log_to_file"`

	CORSOrigins        []string `mapstructure:"cors_origins"`
	RateLimitPerMinute int      `mapstructure:"rate_limit_per_minute"`

	// SessionSecretGenerated is set when no SESSION_SECRET was configured and
	// a random one was generated for this process.
	SessionSecretGenerated bool `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("gin_mode", "release")

	v.SetDefault("enable_db", false)
	v.SetDefault("database_url", "")

	v.SetDefault("prediction_api_url", "http://127.0.0.1:8000")
	v.SetDefault("upstream_timeout", 30*time.Second)

	v.SetDefault("chat_backend", ChatBackendRemote)
	v.SetDefault("chat_api_url", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("openai_base_url", "")

	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)

	v.SetDefault("log_dir", "logs")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_to_file", false)

	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("rate_limit_per_minute", 20)
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.ChatBackend = strings.ToLower(strings.TrimSpace(cfg.ChatBackend))
	cfg.PredictionAPIURL = strings.TrimRight(cfg.PredictionAPIURL, "/")
	if cfg.ChatAPIURL == "" {
		cfg.ChatAPIURL = cfg.PredictionAPIURL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		cfg.SessionSecret = secret
		cfg.SessionSecretGenerated = true
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.EnableDB && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}
	if c.PredictionAPIURL == "" {
		return fmt.Errorf("PREDICTION_API_URL must not be empty")
	}
	switch c.ChatBackend {
	case ChatBackendRemote:
	case ChatBackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when CHAT_BACKEND=openai")
		}
	default:
		return fmt.Errorf("CHAT_BACKEND must be %q or %q, got %q", ChatBackendRemote, ChatBackendOpenAI, c.ChatBackend)
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
