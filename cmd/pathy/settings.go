package main

import (
	"github.com/rs/zerolog"

	"github.com/gokulp01/pathy/internal/config"
)

// loadSettings loads the settings file at path, or the user settings file if path is empty.
// The returned path is empty if no file was loaded.
func loadSettings(path string, logger zerolog.Logger) (config.Config, string, error) {
	loader := config.NewLoader(logger)

	if path == "" {
		return config.LoadUserConfig(loader)
	}

	raw, err := config.LoadFile(path)
	if err != nil {
		return config.Default(), path, err
	}
	return loader.Load(raw, config.Default()), path, nil
}
