package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are read in order; variables already set are never overwritten,
// so .env.local values take precedence over .env.
var envFiles = []string{".env.local", ".env"}

// loadEnvFiles loads the dotenv files present in the working directory.
func loadEnvFiles() error {
	for _, name := range envFiles {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		if err := godotenv.Load(name); err != nil {
			return err
		}
		slog.Debug("Loaded environment variables", slog.String("file", name))
	}
	return nil
}
