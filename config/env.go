package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present; a missing file is fine, the process
// environment is used instead.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		Logger.Warn("No .env file loaded, using process environment:", err)
	}
}

// Getenv returns the value of key or fallback when unset.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
