// Package config loads run defaults from the environment, optionally
// seeded from a .env file. Command-line flags override everything here.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultTop is the number of items reported per category when neither the
// environment nor the flags say otherwise.
const DefaultTop = 20

// Config holds environment-provided defaults.
type Config struct {
	// OutputDir is where CSV exports are written.
	OutputDir string
	// Top is the default Top-N count.
	Top int
	// ExcludeMounts overrides the pseudo-filesystem deny list. Empty means
	// the built-in list applies.
	ExcludeMounts []string
}

// Load reads .env (if present) and the DISKTOP_* environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env file not found, using environment variables only")
	}

	return &Config{
		OutputDir:     getEnv("DISKTOP_OUTPUT_DIR", defaultOutputDir()),
		Top:           getEnvInt("DISKTOP_TOP", DefaultTop),
		ExcludeMounts: splitList(os.Getenv("DISKTOP_EXCLUDE_MOUNTS")),
	}
}

// defaultOutputDir is the user's download directory, or the working
// directory when the home directory cannot be resolved.
func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, "Downloads")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-numeric environment value")

		return defaultValue
	}

	return n
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}

	var out []string

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}
