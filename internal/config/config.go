package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/resilience"
	"github.com/sells-group/airquality-cli/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g.
// AIRQUALITY_PROVIDER_API_KEY.
const EnvPrefix = "AIRQUALITY"

// Config holds the full application configuration.
type Config struct {
	Provider   ProviderConfig           `yaml:"provider" mapstructure:"provider"`
	Breaker    resilience.BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
	Store      StoreConfig              `yaml:"store" mapstructure:"store"`
	Validation aqi.Markers              `yaml:"validation" mapstructure:"validation"`
	Batch      BatchConfig              `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig             `yaml:"server" mapstructure:"server"`
	Log        LogConfig                `yaml:"log" mapstructure:"log"`
}

// ProviderConfig configures the air quality provider client.
type ProviderConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// Timeout returns the per-request timeout.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSecs) * time.Second
}

// StoreConfig configures the storage backend.
type StoreConfig struct {
	Driver      string           `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string           `yaml:"database_url" mapstructure:"database_url"`
	Pool        store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// BatchConfig configures batch lookups.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config.yaml and the environment, in
// increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv can see it on Unmarshal.
	markers := aqi.DefaultMarkers()
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.base_url", "https://api.api-ninjas.com")
	v.SetDefault("provider.timeout_secs", 30)
	v.SetDefault("provider.rate_limit", 5.0)
	v.SetDefault("provider.rate_burst", 1)
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.reset_timeout_secs", 30)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "airquality.db")
	v.SetDefault("store.pool.max_conns", 4)
	v.SetDefault("store.pool.min_conns", 1)
	v.SetDefault("validation.index_markers", markers.Index)
	v.SetDefault("validation.pollutant_markers", markers.Pollutants)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would fail later in a confusing way. The
// API key is checked by RequireAPIKey, since not every command needs it.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store.driver %q (want sqlite or postgres)", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.DatabaseURL) == "" {
		return eris.New("config: store.database_url is required")
	}
	if c.Batch.Concurrency < 1 {
		return eris.Errorf("config: batch.concurrency must be positive, got %d", c.Batch.Concurrency)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// RequireAPIKey returns an error when no provider credential is configured.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return eris.Errorf("config: provider.api_key is required (set %s_PROVIDER_API_KEY)", EnvPrefix)
	}
	return nil
}

// Redacted returns a copy safe to print, with secrets masked.
func (c *Config) Redacted() Config {
	out := *c
	out.Provider.APIKey = mask(c.Provider.APIKey)
	if c.Store.Driver == "postgres" {
		out.Store.DatabaseURL = mask(c.Store.DatabaseURL)
	}
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
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
