// Package config provides Viper-based hierarchical configuration
// management for the converter.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var once sync.Once

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Output struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"output" yaml:"output"`

	History struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"history" yaml:"history"`

	Accounts struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"accounts" yaml:"accounts"`

	Statement struct {
		Currency string `mapstructure:"currency" yaml:"currency"`
		// TimezoneOffset is the source institutions' UTC offset in hours.
		TimezoneOffset int `mapstructure:"timezone_offset" yaml:"timezone_offset"`
	} `mapstructure:"statement" yaml:"statement"`
}

// LoadEnv loads environment variables from a .env file if one exists.
func LoadEnv(logger *logrus.Logger) {
	once.Do(func() {
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables")
			return
		}
		if err := godotenv.Load(".env"); err != nil {
			logger.Warnf("Error loading .env file: %v", err)
			return
		}
		logger.Debug("Loaded environment variables from .env")
	})
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then CSVOFX_* env vars.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.csvofx")
	v.AddConfigPath(".csvofx")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CSVOFX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("output.directory", ".")
	v.SetDefault("history.directory", "history")
	v.SetDefault("accounts.file", "accounts.yaml")

	v.SetDefault("statement.currency", "JPY")
	v.SetDefault("statement.timezone_offset", 9)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}
	if config.Statement.TimezoneOffset < -12 || config.Statement.TimezoneOffset > 14 {
		return fmt.Errorf("statement.timezone_offset must be between -12 and 14, got: %d", config.Statement.TimezoneOffset)
	}
	return nil
}

// Location returns the timezone the configured offset describes.
func (c *Config) Location() *time.Location {
	if c.Statement.TimezoneOffset == 9 {
		return time.FixedZone("JST", 9*60*60)
	}
	name := fmt.Sprintf("UTC%+d", c.Statement.TimezoneOffset)
	return time.FixedZone(name, c.Statement.TimezoneOffset*60*60)
}

// ConfigureLogging configures a logger from the Config struct.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return logger
}
