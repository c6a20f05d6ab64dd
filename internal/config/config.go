// Package config resolves jsync configuration.
//
// Resolution happens once at process start and produces an immutable
// Config that is passed to every downstream component; nothing else in
// the program reads the environment. Per field, the priority order is:
// explicit command-line flag, then environment variable, then the global
// config file, then the built-in default (only base_url has one).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultBaseURL is used when no base URL is configured anywhere.
const DefaultBaseURL = "https://notes.home.arpa"

// Environment variable names, matching the flags they back.
const (
	EnvBaseURL  = "JOPLIN_BASE_URL"
	EnvEmail    = "JOPLIN_EMAIL"
	EnvPassword = "JOPLIN_PASSWORD"
	EnvCACert   = "JOPLIN_CA_CERT"
)

// Config is the resolved, immutable configuration.
type Config struct {
	// BaseURL is the note server root, without a trailing slash.
	BaseURL string

	// Email and Password authenticate every API call.
	Email    string
	Password string

	// CACert is an optional path to a PEM trust root for the server's
	// TLS identity. Empty means system trust.
	CACert string

	// UI holds optional CLI theming preferences (config file only).
	UI UIConfig
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering: ANSI color codes ("0" to "255") or hex ("#RRGGBB").
	Accent string `toml:"accent"`
}

// FileConfig is the on-disk shape of the global config file.
type FileConfig struct {
	BaseURL  string   `toml:"base_url"`
	Email    string   `toml:"email"`
	Password string   `toml:"password"`
	CACert   string   `toml:"ca_cert"`
	UI       UIConfig `toml:"ui"`
}

// Options carries the raw inputs to Resolve. Flag values are passed as
// given on the command line; empty means the flag was not used.
type Options struct {
	BaseURL  string
	Email    string
	Password string
	CACert   string

	// ConfigPath overrides the default config file location. When set,
	// the file must exist and parse.
	ConfigPath string

	// EnvFile overrides the ".env" file loaded into the environment
	// before resolution. Empty loads ./.env when present.
	EnvFile string
}

// MissingError reports a required field absent from every source.
type MissingError struct {
	Field  string
	Flag   string
	EnvVar string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s is required: pass --%s or set %s", e.Field, e.Flag, e.EnvVar)
}

// Resolve merges flags, environment, config file, and defaults into a
// single Config. Credentials are required; everything else is optional.
func Resolve(opts Options) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	fileCfg, err := loadFileConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BaseURL:  pick(opts.BaseURL, os.Getenv(EnvBaseURL), fileCfg.BaseURL, DefaultBaseURL),
		Email:    pick(opts.Email, os.Getenv(EnvEmail), fileCfg.Email, ""),
		Password: pick(opts.Password, os.Getenv(EnvPassword), fileCfg.Password, ""),
		CACert:   pick(opts.CACert, os.Getenv(EnvCACert), fileCfg.CACert, ""),
		UI:       fileCfg.UI,
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.Email == "" {
		return nil, &MissingError{Field: "email", Flag: "email", EnvVar: EnvEmail}
	}
	if cfg.Password == "" {
		return nil, &MissingError{Field: "password", Flag: "password", EnvVar: EnvPassword}
	}

	return cfg, nil
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func loadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
		return nil
	}
	// A missing ./.env is the normal case, not an error.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}

func loadFileConfig(path string) (*FileConfig, error) {
	if path != "" {
		return LoadFrom(path)
	}

	defaultPath := DefaultPath()
	if _, err := os.Stat(defaultPath); os.IsNotExist(err) {
		return &FileConfig{}, nil
	}
	return LoadFrom(defaultPath)
}

// LoadFrom loads the config file at a specific path.
func LoadFrom(path string) (*FileConfig, error) {
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/jsync/config.toml first (XDG style),
// then falls back to the OS-specific config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "jsync", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "jsync", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
