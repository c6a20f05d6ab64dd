package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/RichWolff/joplin-sync/internal/localfs"
)

type persistedConfig struct {
	BaseURL  *string              `toml:"base_url,omitempty"`
	Email    *string              `toml:"email,omitempty"`
	Password *string              `toml:"password,omitempty"`
	CACert   *string              `toml:"ca_cert,omitempty"`
	UI       *persistedUISettings `toml:"ui,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the config file to a specific path atomically, omitting
// empty fields so the file stays minimal.
func SaveTo(path string, cfg *FileConfig) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &FileConfig{}
	}

	out := persistedConfig{
		BaseURL:  nonEmptyPtr(cfg.BaseURL),
		Email:    nonEmptyPtr(cfg.Email),
		Password: nonEmptyPtr(cfg.Password),
		CACert:   nonEmptyPtr(cfg.CACert),
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := localfs.WriteDocument(path, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}

const defaultConfigTemplate = `# jsync configuration
# Flags and JOPLIN_* environment variables take priority over this file.

# Note server root URL.
# base_url = "https://notes.home.arpa"

# Server credentials. Prefer JOPLIN_EMAIL/JOPLIN_PASSWORD or a .env file
# if you do not want credentials on disk here.
# email = "you@example.com"
# password = "secret"

# Path to a PEM trust root for the server's TLS certificate.
# Leave unset to use system trust.
# ca_cert = "/path/to/root-ca.pem"

# Optional UI accent color for terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

// CreateDefaultAt creates a commented default config file at path if one
// does not already exist. It returns the path either way.
func CreateDefaultAt(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := localfs.WriteDocument(path, []byte(defaultConfigTemplate)); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}
