package util

import "os"

// GetEnv returns the value of the environment variable name or fallback
// when the variable is unset or empty.
func GetEnv(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}
