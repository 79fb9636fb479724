package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Loader handles loading the configuration.
type Loader struct {
	Version      string // Build version, used to determine dev mode
	OverridePath string // Set at compile time if needed

	// WorkDir and HomeDir default to the process values when empty.
	WorkDir string
	HomeDir string
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load attempts to load the configuration.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or empty string if not found.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if p, err := homedir.Expand(l.OverridePath); err == nil && exists(p) {
			return p
		}
	}

	if l.Version == "dev" {
		wd := l.WorkDir
		if wd == "" {
			wd, _ = os.Getwd()
		}
		if p := filepath.Join(wd, ".stipplerc"); exists(p) {
			return p
		}
	}

	dir := l.configDir()
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.rc", "stipple.rc"} {
		if p := filepath.Join(dir, name); exists(p) {
			return p
		}
	}
	return ""
}

// SavePath returns where `config save` writes: the file already in use, or
// the XDG default.
func (l *Loader) SavePath() (string, error) {
	if p := l.GetConfigPath(); p != "" {
		return p, nil
	}
	dir := l.configDir()
	if dir == "" {
		return "", fmt.Errorf("cannot determine home directory")
	}
	return filepath.Join(dir, "config.rc"), nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(cfg.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

func (l *Loader) configDir() string {
	home := l.HomeDir
	if home == "" {
		var err error
		if home, err = homedir.Dir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, ".config", "stipple")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
