package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App    AppConfig
	Store  StoreConfig
	Logger LoggerConfig
}

// AppConfig holds configuration for the HTTP server
type AppConfig struct {
	HTTPPort               string `mapstructure:"HTTP_PORT"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
}

// StoreConfig holds configuration for the JSON file store
type StoreConfig struct {
	DataDir string `mapstructure:"DATA_DIR"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL"`
	Format         string `mapstructure:"LOG_FORMAT"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (*Config, error) {
	// Set defaults first
	setDefaults()

	viper.AddConfigPath(path)
	viper.SetConfigName("app") // Look for app.env
	viper.SetConfigType("env")

	viper.AutomaticEnv() // Read from environment variables

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.App.HTTPPort = viper.GetString("HTTP_PORT")
	config.App.ShutdownTimeoutSeconds = viper.GetInt("SHUTDOWN_TIMEOUT_SECONDS")

	config.Store.DataDir = viper.GetString("DATA_DIR")

	config.Logger.Level = viper.GetString("LOG_LEVEL")
	config.Logger.Format = viper.GetString("LOG_FORMAT")
	config.Logger.OutputPath = viper.GetString("LOG_OUTPUT_PATH")
	config.Logger.EnableSampling = viper.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = viper.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = viper.GetString("SERVICE_VERSION")

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("HTTP_PORT", "3000")
	viper.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	viper.SetDefault("DATA_DIR", "./database")

	// Logger defaults
	env := viper.GetString("APP_ENV")
	if env == "production" {
		viper.SetDefault("LOG_LEVEL", "info")
		viper.SetDefault("LOG_FORMAT", "json")
		viper.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		viper.SetDefault("LOG_LEVEL", "debug")
		viper.SetDefault("LOG_FORMAT", "console")
		viper.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	viper.SetDefault("LOG_OUTPUT_PATH", "stdout")
	viper.SetDefault("SERVICE_NAME", "library-service")
	viper.SetDefault("SERVICE_VERSION", "1.0.0")
}

// Validate checks that the configuration is usable before any dependency is
// initialized.
func (c *Config) Validate() error {
	if c.App.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.App.HTTPPort); err != nil {
		return fmt.Errorf("HTTP_PORT must be numeric: %w", err)
	}
	if c.App.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}
	if c.Store.DataDir == "" {
		return fmt.Errorf("DATA_DIR must not be empty")
	}
	return nil
}
