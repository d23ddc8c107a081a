package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"tabscope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI       AIConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	Paths    PathConfig
}

// AIConfig holds LLM related settings. The key is optional: every analysis
// decision has a rule-based path that works without it.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	TimeoutMS   int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AnalysisConfig holds pipeline tuning knobs
type AnalysisConfig struct {
	EnableCharts        bool
	MinRowsForCharts    int
	SampleCeiling       int
	InsightFastPathRows int
	QueryRowCap         int
}

// PathConfig holds file system paths
type PathConfig struct {
	WorkDir string
}

// Load reads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AI: AIConfig{
			APIKey:      os.Getenv("OPENROUTER_API_KEY"),
			BaseURL:     getEnvOrDefault("LLM_BASE_URL", "https://openrouter.ai/api/v1"),
			Model:       getEnvOrDefault("LLM_MODEL", "openai/gpt-4-turbo-preview"),
			MaxTokens:   getEnvIntOrDefault("LLM_MAX_TOKENS", 500),
			Temperature: getEnvFloatOrDefault("LLM_TEMPERATURE", 0.0),
			TimeoutMS:   getEnvIntOrDefault("LLM_TIMEOUT_MS", 60000),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Analysis: AnalysisConfig{
			EnableCharts:        getEnvBoolOrDefault("ENABLE_CHARTS", true),
			MinRowsForCharts:    getEnvIntOrDefault("MIN_ROWS_FOR_CHARTS", 10),
			SampleCeiling:       getEnvIntOrDefault("SAMPLE_CEILING", 10000),
			InsightFastPathRows: getEnvIntOrDefault("INSIGHT_FAST_PATH_ROWS", 5000),
			QueryRowCap:         getEnvIntOrDefault("QUERY_ROW_CAP", 50),
		},
		Paths: PathConfig{
			WorkDir: getEnvOrDefault("WORK_DIR", "temp_uploads"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Analysis.SampleCeiling < 2 {
		return errors.ConfigInvalid("SAMPLE_CEILING must be at least 2")
	}
	if cfg.Analysis.QueryRowCap < 1 {
		return errors.ConfigInvalid("QUERY_ROW_CAP must be positive")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
