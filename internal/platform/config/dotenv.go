package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from dotenv files into the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load dotenv %s: %w", path, err)
		}
	}
	return nil
}
