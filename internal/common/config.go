package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM      LLMConfig
	Pipeline PipelineConfig
	Database DatabaseConfig
}

// LLMConfig holds model gateway configuration
type LLMConfig struct {
	Model         string // primary model identifier
	BackupModel   string // fallback for oversize images / reprocessing
	APIKey        string
	HostedURL     string
	LocalURL      string
	RegistryPath  string // optional YAML model registry
	Timeout       time.Duration
}

// PipelineConfig holds extraction pipeline behavior
type PipelineConfig struct {
	MaxRetries int    // extra extraction attempts per page
	SortBy     string // "name" or "date" for folder processing
}

// DatabaseConfig holds the optional relational mirror target
type DatabaseConfig struct {
	DSN         string
	DialTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:        getEnv("COOKBOOK_MODEL", "claude-3-haiku-20240307"),
			BackupModel:  getEnv("COOKBOOK_BACKUP_MODEL", ""),
			APIKey:       getEnv("ANTHROPIC_API_KEY", ""),
			HostedURL:    getEnv("CLAUDE_API_URL", "https://api.anthropic.com/v1/messages"),
			LocalURL:     getEnv("OLLAMA_API_URL", "http://localhost:11434/api/generate"),
			RegistryPath: getEnv("COOKBOOK_MODEL_REGISTRY", ""),
			Timeout:      getEnvAsDuration("COOKBOOK_LLM_TIMEOUT", 180*time.Second),
		},
		Pipeline: PipelineConfig{
			MaxRetries: getEnvAsInt("COOKBOOK_MAX_RETRIES", 2),
			SortBy:     getEnv("COOKBOOK_SORT_BY", "name"),
		},
		Database: DatabaseConfig{
			DSN:         getEnv("DB_URL", ""),
			DialTimeout: getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
