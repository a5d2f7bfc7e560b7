// Package config loads CLI configuration: a YAML file layered under
// JQLKIT_*-prefixed environment variables, env vars winning.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is everything the CLI needs at startup.
type Config struct {
	// DBPath is the SQLite database holding saved searches.
	DBPath string `mapstructure:"db"`

	// CacheTTL bounds how long cached filters and query analyses live.
	CacheTTL time.Duration `mapstructure:"cache-ttl"`

	// LogLevel is a logrus level name ("debug", "info", ...).
	LogLevel string `mapstructure:"log-level"`
}

// Load reads configuration from the given file, or from ~/.jqlkit.yaml when
// path is blank. A missing file is fine; the defaults and environment carry.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.SetConfigFile(filepath.Join(home, ".jqlkit.yaml"))
		}
	}

	v.SetEnvPrefix("JQLKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", defaultDBPath())
	v.SetDefault("cache-ttl", 30*time.Minute)
	v.SetDefault("log-level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("log-level: %w", err)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("cache-ttl must be positive, got %s", cfg.CacheTTL)
	}
	return &cfg, nil
}

// Level returns the parsed logrus level. Load already validated it.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "jqlkit.db"
	}
	return filepath.Join(home, ".jqlkit", "filters.db")
}
