package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

var (
	USER_SETTINGS_FILENAMES = []string{"settings.json", "settings.yaml", "settings.yml", "settings.toml"}

	ErrNoUserSettingsFile  = errors.New("no user settings file found")
	ErrUnsupportedFileType = errors.New("unsupported settings file type")
)

// FindUserSettingsFile searches for pathy/settings.{json,yaml,yml,toml} in the XDG configuration directories.
func FindUserSettingsFile() (string, error) {
	for _, name := range USER_SETTINGS_FILENAMES {
		path, err := xdg.SearchConfigFile(filepath.Join(APP_NAME, name))
		if err == nil {
			return path, nil
		}
	}
	return "", ErrNoUserSettingsFile
}

// LoadFile reads a settings file and returns its content as JSON.
func LoadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return toJSON(content, strings.ToLower(filepath.Ext(path)))
}

func toJSON(content []byte, ext string) ([]byte, error) {
	switch ext {
	case ".json":
		if !json.Valid(content) {
			return nil, errors.New("invalid JSON settings file")
		}
		return content, nil
	case ".yaml", ".yml":
		jsonContent, err := yaml.YAMLToJSON(content)
		if err != nil {
			return nil, fmt.Errorf("invalid YAML settings file: %w", err)
		}
		return jsonContent, nil
	case ".toml":
		var settings map[string]any
		if err := toml.Unmarshal(content, &settings); err != nil {
			return nil, fmt.Errorf("invalid TOML settings file: %w", err)
		}
		return json.Marshal(settings)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// LoadUserConfig returns the default configuration overlaid with the user settings file if there is one.
func LoadUserConfig(loader *Loader) (Config, string, error) {
	path, err := FindUserSettingsFile()
	if err != nil {
		return Default(), "", nil
	}

	raw, err := LoadFile(path)
	if err != nil {
		return Default(), path, err
	}
	return loader.Load(raw, Default()), path, nil
}
