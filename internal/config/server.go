package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Server environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Server defaults.
const (
	DefaultAppName        = "MyTasks"
	DefaultListenAddr     = ":3000"
	DefaultBackendTimeout = 10 * time.Second
)

// ServerConfig holds the settings of the proxy server.
type ServerConfig struct {
	AppName    string `yaml:"app_name"`
	Env        string `yaml:"env"`
	ListenAddr string `yaml:"listen_addr"`

	// BackendURL is the base URL of the remote task API.
	BackendURL string `yaml:"backend_url"`

	// BackendTimeout bounds every call to the remote API. Go duration syntax.
	BackendTimeout string `yaml:"backend_timeout"`

	// UIDir optionally points at built page assets. Empty serves a placeholder.
	UIDir string `yaml:"ui_dir"`

	// LogFormat is "text" (default) or "json".
	LogFormat string `yaml:"log_format"`
}

// LoadServer reads server settings from path (optional, may be empty), then
// applies environment overrides and defaults. The result is validated.
func LoadServer(path string) (ServerConfig, error) {
	var cfg ServerConfig

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return cfg, fmt.Errorf("failed to read server config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse server config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *ServerConfig) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.BackendURL, "MY_TASKS_API_URL")
	set(&c.Env, "APP_ENV")
	set(&c.AppName, "APP_NAME")
	set(&c.ListenAddr, "LISTEN_ADDR")
	set(&c.BackendTimeout, "BACKEND_TIMEOUT")
	set(&c.UIDir, "UI_DIR")
	set(&c.LogFormat, "LOG_FORMAT")
}

func (c *ServerConfig) applyDefaults() {
	if c.AppName == "" {
		c.AppName = DefaultAppName
	}
	if c.Env == "" {
		c.Env = EnvDevelopment
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.BackendTimeout == "" {
		c.BackendTimeout = DefaultBackendTimeout.String()
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate reports every invalid setting.
func (c ServerConfig) Validate() error {
	var errs []error

	if c.BackendURL == "" {
		errs = append(errs, errors.New("backend_url (MY_TASKS_API_URL) is required"))
	} else if u, err := url.Parse(c.BackendURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("backend_url must be an absolute http(s) URL: %q", c.BackendURL))
	}

	switch c.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		errs = append(errs, fmt.Errorf("env must be one of development, production, test: %q", c.Env))
	}

	if d, err := time.ParseDuration(c.BackendTimeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("backend_timeout must be a positive duration: %q", c.BackendTimeout))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json: %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// Production reports whether cookies must be marked Secure.
func (c ServerConfig) Production() bool {
	return c.Env == EnvProduction
}

// Timeout returns the parsed backend timeout, or the default if unset or invalid.
func (c ServerConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(c.BackendTimeout)
	if err != nil || d <= 0 {
		return DefaultBackendTimeout
	}
	return d
}
