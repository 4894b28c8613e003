package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/cref-go/assets"
	"github.com/doeshing/cref-go/internal/domain"
	"github.com/doeshing/cref-go/internal/pkg/filesystem"
	"github.com/doeshing/cref-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.cref/config.yaml
// (overridable via CREF_CONFIG). On first run the embedded default
// configuration is written out so users have a file to edit.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			data = assets.DefaultConfigYAML
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return domain.Config{}, err
			}
		} else {
			return domain.Config{}, err
		}
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("CREF_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".cref", "config.yaml")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.Color == "" {
		cfg.Preferences.Color = "auto"
	}
	if cfg.Preferences.ResultLimit == 0 {
		cfg.Preferences.ResultLimit = 10
	}
	if len(cfg.Catalog.UserDirs) == 0 {
		cfg.Catalog.UserDirs = []string{filepath.Join(filesystem.UserHomeDir(), ".cref", "commands")}
	}
	if cfg.Usage.Backend == "" {
		cfg.Usage.Backend = "sqlite"
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
