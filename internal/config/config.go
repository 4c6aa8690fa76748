// Package config handles the CLI configuration directory, the stored session
// and the proxy server settings.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "mytasks"

	// SessionFile holds the auth cookies of the CLI session.
	SessionFile = "session.json"

	// ServerFile is the optional YAML settings file for `mytasks serve`.
	ServerFile = "server.yaml"

	// DefaultServerURL is where the CLI expects the proxy when nothing else is set.
	DefaultServerURL = "http://localhost:3000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// ServerURL is the base URL of the MyTasks proxy the CLI talks to.
	ServerURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/mytasks or $HOME/.config/mytasks.
// If serverURL is empty, uses MYTASKS_SERVER or DefaultServerURL.
func New(configDir, serverURL string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	if serverURL == "" {
		serverURL = os.Getenv("MYTASKS_SERVER")
	}
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	return &Config{Dir: dir, ServerURL: strings.TrimRight(serverURL, "/")}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session cookies.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// ServerFilePath returns the path to the default server settings file.
func (c *Config) ServerFilePath() string {
	return filepath.Join(c.Dir, ServerFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the session file. A missing file is not an error.
func (c *Config) RemoveSession() error {
	err := os.Remove(c.SessionPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
