package config

import (
	"os"
	"path/filepath"
)

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // "dev" builds also look in the working directory
	OverridePath string // -config flag
}

// NewLoader creates a Loader.
func NewLoader(version, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the configuration, or returns defaults when no file exists.
func (l *Loader) Load() (*Config, error) {
	path := l.ConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// ConfigPath returns the configuration file to read, or "" when none exists.
// The -config override wins, then a .annotate-editrc in the working directory
// on dev builds, then the XDG location.
func (l *Loader) ConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}

	if l.Version == "dev" {
		wd, _ := os.Getwd()
		localPath := filepath.Join(wd, ".annotate-editrc")
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	for _, name := range []string{"config.rc", "annotate-edit.rc"} {
		path := filepath.Join(configDir(), name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// DefaultSavePath is where the config save subcommand writes.
func (l *Loader) DefaultSavePath() string {
	return filepath.Join(configDir(), "config.rc")
}

func configDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "annotate-edit")
}
