package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/codeshai/assets"
	"github.com/doeshing/codeshai/internal/domain"
	"github.com/doeshing/codeshai/internal/pkg/filesystem"
	"github.com/doeshing/codeshai/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "CODESHAI_CONFIG"

// FileLoader loads YAML configuration from ~/.codeshai/config.yaml (overridable via CODESHAI_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded default.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := os.WriteFile(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return domain.Config{}, fmt.Errorf("write default config: %w", err)
			}
			return DefaultConfig()
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the config file location this loader reads.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// DefaultConfig decodes the embedded default configuration.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse embedded config: %w", err)
	}
	return hydrateDefaults(cfg), nil
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.DefaultProvider == "" {
		cfg.Preferences.DefaultProvider = string(domain.ProviderDeepSeek)
	}
	if len(cfg.Execution.Interpreters) == 0 {
		cfg.Execution.Interpreters = append([]string(nil), domain.DefaultInterpreters...)
	}
	if cfg.Storage.SettingsDB == "" {
		cfg.Storage.SettingsDB = filepath.Join(filesystem.AppDir(), "settings.db")
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
