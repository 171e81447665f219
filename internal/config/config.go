package config

import (
	"os"
	"strconv"

	"raincloud/domain/table"
	"raincloud/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	Upload UploadConfig
	Plot   PlotConfig
	Export ExportConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// UploadConfig holds upload acceptance limits
type UploadConfig struct {
	MaxBytes   int64
	MaxColumns int
}

// PlotConfig holds pipeline settings
type PlotConfig struct {
	// JitterSeed pins the point-jitter stream; 0 keeps the unseeded,
	// non-reproducible behavior.
	JitterSeed int64
	// DensityGrid is the number of evaluation points per violin outline.
	DensityGrid int
}

// ExportConfig holds export capability settings
type ExportConfig struct {
	// Rasterizer is the external SVG rasterizer binary probed at startup.
	// When it is absent, raster exports are reported unavailable.
	Rasterizer string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Upload: UploadConfig{
			MaxBytes:   getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 50*1024*1024),
			MaxColumns: getEnvIntOrDefault("MAX_COLUMNS", table.MaxColumns),
		},
		Plot: PlotConfig{
			JitterSeed:  getEnvInt64OrDefault("JITTER_SEED", 0),
			DensityGrid: getEnvIntOrDefault("DENSITY_GRID", 128),
		},
		Export: ExportConfig{
			Rasterizer: getEnvOrDefault("RASTERIZER", "rsvg-convert"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
	}
	if config.Upload.MaxColumns <= 0 {
		return errors.ConfigInvalid("MAX_COLUMNS must be positive")
	}
	if config.Plot.DensityGrid < 16 {
		return errors.ConfigInvalid("DENSITY_GRID must be at least 16")
	}
	return nil
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
