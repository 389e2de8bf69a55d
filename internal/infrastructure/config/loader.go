package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/foodscan/assets"
	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/pkg/filesystem"
	"github.com/doeshing/foodscan/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "FOODSCAN_CONFIG"

// FileLoader loads YAML configuration from ~/.foodscan/config.yaml (overridable via FOODSCAN_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeConfig(path, cfg); err != nil {
				return domain.Config{}, fmt.Errorf("write default config: %w", err)
			}
			return hydrateDefaults(cfg), nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

// Save writes the given config back to disk.
func (l *FileLoader) Save(cfg domain.Config) error {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

// Hydrate fills missing values the same way Load does.
func (l *FileLoader) Hydrate(cfg domain.Config) domain.Config {
	return hydrateDefaults(cfg)
}

// Reset overwrites the config file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg := DefaultConfig()
	if err := l.Save(cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Backup copies the current config file to a timestamped backup.
func (l *FileLoader) Backup() (string, error) {
	path := l.resolvePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102T150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeConfig(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

// DefaultConfig exposes the bootstrap configuration template.
func DefaultConfig() domain.Config {
	var cfg domain.Config
	if err := yaml.Unmarshal(assets.DefaultConfigYAML, &cfg); err != nil {
		// embedded asset is compiled in, fall back to the bare minimum
		return domain.Config{ConfigFormatVersion: "1"}
	}
	return cfg
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Lookup.BaseURL == "" {
		cfg.Lookup.BaseURL = domain.DefaultLookupBaseURL
	}
	if cfg.Lookup.Timeout == "" {
		cfg.Lookup.Timeout = domain.DefaultLookupTimeout.String()
	}
	if cfg.Lookup.CacheTTL == "" {
		cfg.Lookup.CacheTTL = domain.DefaultLookupCacheTTL.String()
	}
	if cfg.Lookup.CacheSize < 0 {
		cfg.Lookup.CacheSize = 0
	}
	if cfg.History.MaxItems <= 0 {
		cfg.History.MaxItems = domain.MaxHistoryItems
	}
	if cfg.History.RecentLimit <= 0 {
		cfg.History.RecentLimit = domain.DefaultRecentLimit
	}
	if cfg.Reviews.Driver == "" {
		cfg.Reviews.Driver = domain.ReviewDriverSQLite
	}
	if cfg.Reviews.Path == "" {
		cfg.Reviews.Path = filepath.Join(filesystem.AppDir(), "reviews.db")
	}
	cfg.Reviews.Path = filesystem.ExpandPath(cfg.Reviews.Path)
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = domain.DefaultServerAddr
	}
	return cfg
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
