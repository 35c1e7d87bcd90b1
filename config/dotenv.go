package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenv loads environment variables from .env files if present.
//
// It does NOT override already-exported environment variables.
// With no explicit files, ENV_FILE (comma separated) is honored, then ./.env.
func LoadDotenv(files ...string) {
	if len(files) == 0 {
		if v := strings.TrimSpace(os.Getenv("ENV_FILE")); v != "" {
			files = splitList(v)
		}
	}

	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			_ = godotenv.Load(".env")
		}
		return
	}

	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}
