package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	ServerPort  string   `mapstructure:"SERVER_PORT"`
	GinMode     string   `mapstructure:"GIN_MODE"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	LLMProvider     string        `mapstructure:"LLM_PROVIDER"`
	GeminiAPIKey    string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel     string        `mapstructure:"GEMINI_MODEL"`
	AnthropicAPIKey string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel  string        `mapstructure:"ANTHROPIC_MODEL"`
	LLMMaxTokens    int           `mapstructure:"LLM_MAX_TOKENS"`
	LLMTimeout      time.Duration `mapstructure:"LLM_TIMEOUT"`

	// Structured responses are re-chunked into events of this many runes,
	// paced by the delay.
	StreamChunkSize  int           `mapstructure:"STREAM_CHUNK_SIZE"`
	StreamChunkDelay time.Duration `mapstructure:"STREAM_CHUNK_DELAY"`

	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
	SessionBackend  string        `mapstructure:"SESSION_BACKEND"`
	SessionLifetime time.Duration `mapstructure:"SESSION_LIFETIME"`
	SessionCookie   string        `mapstructure:"SESSION_COOKIE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	RateLimitBurst     int `mapstructure:"RATE_LIMIT_BURST"`

	ServiceName  string `mapstructure:"OTEL_SERVICE_NAME"`
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	MetricsAddr  string `mapstructure:"METRICS_ADDR"`
	PprofAddr    string `mapstructure:"PPROF_ADDR"`
}

var defaults = map[string]any{
	"SERVER_PORT":           "8091",
	"GIN_MODE":              "release",
	"LOG_LEVEL":             "info",
	"CORS_ORIGINS":          []string{"*"},
	"LLM_PROVIDER":          "mock",
	"GEMINI_API_KEY":        "",
	"GEMINI_MODEL":          "",
	"ANTHROPIC_API_KEY":     "",
	"ANTHROPIC_MODEL":       "",
	"LLM_MAX_TOKENS":        2000,
	"LLM_TIMEOUT":           2 * time.Minute,
	"STREAM_CHUNK_SIZE":     10,
	"STREAM_CHUNK_DELAY":    20 * time.Millisecond,
	"CACHE_TTL":             30 * time.Minute,
	"SESSION_BACKEND":       "memory",
	"SESSION_LIFETIME":      24 * time.Hour,
	"SESSION_COOKIE":        "simon_session",
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"RATE_LIMIT_PER_MINUTE": 120,
	"RATE_LIMIT_BURST":      20,
	"OTEL_SERVICE_NAME":     "go-concierge",
	"OTLP_ENDPOINT":         "",
	"METRICS_ADDR":          ":9464",
	"PPROF_ADDR":            "",
}

// Load reads the first existing env file (".env" when none are given), then
// the process environment, over the defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		break
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{"mock", "gemini", "anthropic"}, c.LLMProvider) {
		errs = append(errs, fmt.Errorf("LLM_PROVIDER must be mock, gemini or anthropic, got %q", c.LLMProvider))
	}
	if c.LLMProvider == "gemini" && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
	}
	if c.LLMProvider == "anthropic" && c.AnthropicAPIKey == "" {
		errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the anthropic provider"))
	}
	if !slices.Contains([]string{"debug", "release", "test"}, c.GinMode) {
		errs = append(errs, fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode))
	}
	if c.SessionBackend != "memory" && c.SessionBackend != "redis" {
		errs = append(errs, fmt.Errorf("SESSION_BACKEND must be memory or redis, got %q", c.SessionBackend))
	}
	if c.StreamChunkSize <= 0 {
		errs = append(errs, errors.New("STREAM_CHUNK_SIZE must be positive"))
	}
	if c.StreamChunkDelay < 0 {
		errs = append(errs, errors.New("STREAM_CHUNK_DELAY must not be negative"))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL must be positive"))
	}
	return errors.Join(errs...)
}
