package config

import (
	"os"
	"strconv"

	"marketscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AnalysisConfig holds estimation and scenario defaults
type AnalysisConfig struct {
	// PenetrationYears is the default time horizon for SOM penetration
	PenetrationYears int
	// DefaultPriceARPA is used when no pricing facts exist
	DefaultPriceARPA float64
	// FallbackCustomers seeds the bottom-up path when no explicit customer
	// estimate is supplied
	FallbackCustomersMin  float64
	FallbackCustomersBase float64
	FallbackCustomersMax  float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = ServerConfig{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
	}

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	return &DatabaseConfig{URL: url}, nil
}

func loadAnalysisConfig() (*AnalysisConfig, error) {
	years, err := getEnvInt("PENETRATION_YEARS", 5)
	if err != nil {
		return nil, err
	}
	arpa, err := getEnvFloat("DEFAULT_PRICE_ARPA", 1000.0)
	if err != nil {
		return nil, err
	}
	return &AnalysisConfig{
		PenetrationYears:      years,
		DefaultPriceARPA:      arpa,
		FallbackCustomersMin:  1000,
		FallbackCustomersBase: 5000,
		FallbackCustomersMax:  10000,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number")
	}
	return parsed, nil
}
