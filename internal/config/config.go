package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver      string  `mapstructure:"DB_DRIVER"`
	DBSource      string  `mapstructure:"DB_SOURCE"`
	ServerAddress string  `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string  `mapstructure:"LOG_LEVEL"`
	LogFormat     string  `mapstructure:"LOG_FORMAT"`
	FuzzyChar     string  `mapstructure:"FUZZY_CHAR"`
	Workers       int     `mapstructure:"WORKERS"`
	RateLimit     float64 `mapstructure:"RATE_LIMIT"`
}

// LoadConfig reads configuration from app.env under path, overridden by
// environment variables. A missing file is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("FUZZY_CHAR", "")
	v.SetDefault("WORKERS", 4)
	v.SetDefault("RATE_LIMIT", 5.0)

	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to decode config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks values that the rest of the program relies on.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "pgx", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: WORKERS must be positive, got %d", c.Workers)
	}
	if len([]rune(c.FuzzyChar)) > 1 {
		return fmt.Errorf("config: FUZZY_CHAR must be a single character, got %q", c.FuzzyChar)
	}
	return nil
}

// Fuzzy returns the wildcard rune and whether one is configured.
func (c Config) Fuzzy() (rune, bool) {
	for _, r := range c.FuzzyChar {
		return r, true
	}
	return 0, false
}
