// Package config resolves runtime settings for both harvester variants.
// Precedence, highest first: command-line flags (CLI) or event fields
// (Lambda), environment variables, the optional YAML config file, built-in
// defaults.
package config

import (
	"os"
	"strconv"
)

// Built-in defaults shared by both variants.
const (
	DefaultMaxArticles  = 100
	DefaultDelaySeconds = 1.0
	DefaultOutputFile   = "guardian_data.csv"
)

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt parses an int from an environment variable or returns default.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// GetEnvFloat parses a float from an environment variable or returns
// default.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// GetEnvBool parses a bool from an environment variable or returns default.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
