package config

import (
	"os"
	"strconv"

	"gohousehold/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Data        DataConfig      `validate:"required"`
	Server      ServerConfig    `validate:"required"`
	Output      OutputConfig    `validate:"required"`
	Dashboard   DashboardConfig `validate:"required"`
	Credentials CredentialsConfig
}

// DataConfig holds the input dataset settings
type DataConfig struct {
	File       string `validate:"required"`
	SchemaFile string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// OutputConfig holds batch report destinations
type OutputConfig struct {
	PlotsDir   string `validate:"required"`
	ReportPath string `validate:"required"`
}

// DashboardConfig holds interactive presenter settings
type DashboardConfig struct {
	SampleRows       int `validate:"min=1"`
	DefaultSelection int `validate:"min=0"`
}

// CredentialsConfig holds API credential placeholders. They are loaded so deployments
// can keep one .env file, but nothing reads them yet.
type CredentialsConfig struct {
	ClientID     string
	ClientSecret string
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := fromEnv()

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadBatch reads the same environment as Load but only validates the data and output
// settings, so server variables cannot block the batch commands.
func LoadBatch() (*Config, error) {
	config := fromEnv()

	if err := ValidateBatch(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func fromEnv() *Config {
	return &Config{
		Data:        *loadDataConfig(),
		Server:      *loadServerConfig(),
		Output:      *loadOutputConfig(),
		Dashboard:   *loadDashboardConfig(),
		Credentials: *loadCredentialsConfig(),
	}
}

// Validate checks struct constraints on a configuration
func Validate(config *Config) error {
	if config == nil {
		return errors.ConfigInvalid("configuration is nil")
	}
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// ValidateBatch checks only the sections the batch commands read
func ValidateBatch(config *Config) error {
	if config == nil {
		return errors.ConfigInvalid("configuration is nil")
	}
	for _, section := range []interface{}{config.Data, config.Output} {
		if err := validate.Struct(section); err != nil {
			return errors.WithCode(errors.CodeConfigInvalid, err)
		}
	}
	return nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:       getEnvOrDefault("DATA_FILE", "seoul_hosehold_.csv"),
		SchemaFile: getEnvOrDefault("SCHEMA_FILE", ""),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadOutputConfig() *OutputConfig {
	return &OutputConfig{
		PlotsDir:   getEnvOrDefault("PLOTS_DIR", "plots"),
		ReportPath: getEnvOrDefault("REPORT_PATH", "report_seoul_household.md"),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		SampleRows:       getEnvIntOrDefault("SAMPLE_ROWS", 50),
		DefaultSelection: getEnvIntOrDefault("DEFAULT_SELECTION", 5),
	}
}

func loadCredentialsConfig() *CredentialsConfig {
	return &CredentialsConfig{
		ClientID:     os.Getenv("CLIENT_ID"),
		ClientSecret: os.Getenv("CLIENT_SECRET"),
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
