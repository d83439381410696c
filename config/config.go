// Package config provides application settings loaded from the environment.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"doorquote/engine"
)

// Config holds the settings that are not PocketBase flags.
type Config struct {
	Locale     engine.Locale
	DefaultVAT float64
	Company    CompanyConfig
	Seed       bool
}

// CompanyConfig is printed in the header of exported proposals.
type CompanyConfig struct {
	Name    string
	Address string
	Email   string
}

// Load reads an optional .env file from the working directory and then
// the DOORQUOTE_* environment variables. Missing or malformed values fall
// back to their defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: Load: reading .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Locale:     engine.ParseLocale(getEnv("DOORQUOTE_LOCALE", string(engine.DefaultLocale))),
		DefaultVAT: getEnvFloat("DOORQUOTE_DEFAULT_VAT", 22),
		Company: CompanyConfig{
			Name:    getEnv("DOORQUOTE_COMPANY_NAME", "DoorQuote"),
			Address: getEnv("DOORQUOTE_COMPANY_ADDRESS", ""),
			Email:   getEnv("DOORQUOTE_COMPANY_EMAIL", ""),
		},
		Seed: getEnvBool("DOORQUOTE_SEED", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || v < 0 || v > 100 {
		log.Printf("config: %s: invalid value %q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		log.Printf("config: %s: invalid value %q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
