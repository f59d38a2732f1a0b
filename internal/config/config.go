// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Edinet   EdinetConfig   `yaml:"edinet" mapstructure:"edinet"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Resolver ResolverConfig `yaml:"resolver" mapstructure:"resolver"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// EdinetConfig holds EDINET API credentials and client tuning.
type EdinetConfig struct {
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TempDir     string  `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// SearchConfig configures the progressive multi-window search.
type SearchConfig struct {
	Windows     []int    `yaml:"windows" mapstructure:"windows"`
	Concurrency int      `yaml:"concurrency" mapstructure:"concurrency"`
	Holidays    []string `yaml:"holidays" mapstructure:"holidays"`
}

// ResolverConfig configures field resolution.
type ResolverConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RegistryConfig configures the mapping registry source. An empty path
// selects the built-in mapping tables.
type RegistryConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ExportConfig configures result export.
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EDINET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. The empty api_key default also registers the key so the
	// EDINET_EDINET_API_KEY environment variable is picked up.
	v.SetDefault("edinet.api_key", "")
	v.SetDefault("edinet.base_url", "https://api.edinet-fsa.go.jp/api/v2")
	v.SetDefault("edinet.user_agent", "edinet-cli/1.0")
	v.SetDefault("edinet.timeout_secs", 30)
	v.SetDefault("edinet.rate_per_sec", 2)
	v.SetDefault("edinet.temp_dir", "/tmp/edinet-cli")
	v.SetDefault("search.windows", []int{7, 30, 90})
	v.SetDefault("search.concurrency", 4)
	v.SetDefault("resolver.workers", 8)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "edinet-cli.db")
	v.SetDefault("export.dir", ".")
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

	return &cfg, nil
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
