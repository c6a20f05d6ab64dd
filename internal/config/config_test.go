package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearEnv removes all jsync environment variables for the duration of
// the test (t.Setenv registers restoration of the original values).
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvBaseURL, EnvEmail, EnvPassword, EnvCACert} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestResolvePrecedence(t *testing.T) {
	filePath := writeConfigFile(t, `
base_url = "https://file.example"
email = "file@example.com"
password = "file-pass"
`)

	tests := []struct {
		name        string
		opts        Options
		env         map[string]string
		wantBaseURL string
		wantEmail   string
	}{
		{
			name: "flag beats env and file",
			opts: Options{BaseURL: "https://flag.example", Email: "flag@example.com", Password: "p", ConfigPath: filePath},
			env: map[string]string{
				EnvBaseURL: "https://env.example",
				EnvEmail:   "env@example.com",
			},
			wantBaseURL: "https://flag.example",
			wantEmail:   "flag@example.com",
		},
		{
			name: "env beats file",
			opts: Options{ConfigPath: filePath},
			env: map[string]string{
				EnvBaseURL: "https://env.example",
				EnvEmail:   "env@example.com",
			},
			wantBaseURL: "https://env.example",
			wantEmail:   "env@example.com",
		},
		{
			name:        "file beats default",
			opts:        Options{ConfigPath: filePath},
			wantBaseURL: "https://file.example",
			wantEmail:   "file@example.com",
		},
		{
			name:        "default base url",
			opts:        Options{Email: "e@example.com", Password: "p"},
			wantBaseURL: DefaultBaseURL,
			wantEmail:   "e@example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Resolve(tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.BaseURL != tt.wantBaseURL {
				t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, tt.wantBaseURL)
			}
			if cfg.Email != tt.wantEmail {
				t.Errorf("Email = %q, want %q", cfg.Email, tt.wantEmail)
			}
		})
	}
}

func TestResolveTrimsTrailingSlash(t *testing.T) {
	clearEnv(t)
	cfg, err := Resolve(Options{BaseURL: "https://notes.example/", Email: "e@x.com", Password: "p"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://notes.example" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
}

func TestResolveMissingCredentials(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantField string
	}{
		{name: "missing email", opts: Options{Password: "p"}, wantField: "email"},
		{name: "missing password", opts: Options{Email: "e@x.com"}, wantField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Resolve(tt.opts)
			var missing *MissingError
			if !errors.As(err, &missing) {
				t.Fatalf("expected *MissingError, got %T: %v", err, err)
			}
			if missing.Field != tt.wantField {
				t.Errorf("missing field = %q, want %q", missing.Field, tt.wantField)
			}
		})
	}
}

func TestResolveEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "JOPLIN_EMAIL=dotenv@example.com\nJOPLIN_PASSWORD=dotenv-pass\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}

	cfg, err := Resolve(Options{EnvFile: envFile})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Email != "dotenv@example.com" {
		t.Errorf("Email = %q, want value from env file", cfg.Email)
	}
	if cfg.Password != "dotenv-pass" {
		t.Errorf("Password = %q, want value from env file", cfg.Password)
	}
}

func TestResolveEnvFileMissing(t *testing.T) {
	clearEnv(t)
	_, err := Resolve(Options{EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	if err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}

func TestResolveBadConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "base_url = [not toml")
	_, err := Resolve(Options{ConfigPath: path, Email: "e@x.com", Password: "p"})
	if err == nil {
		t.Fatal("expected error for unparsable config file")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.toml")

	in := &FileConfig{
		BaseURL: "https://notes.example",
		Email:   "e@x.com",
		CACert:  "/etc/ssl/root.pem",
		UI:      UIConfig{Accent: "39"},
	}
	if err := SaveTo(path, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.BaseURL != in.BaseURL || out.Email != in.Email || out.CACert != in.CACert {
		t.Errorf("round-trip mismatch: got %+v, want %+v", out, in)
	}
	if out.UI.Accent != "39" {
		t.Errorf("UI.Accent = %q, want %q", out.UI.Accent, "39")
	}
	if out.Password != "" {
		t.Errorf("Password = %q, want empty field omitted", out.Password)
	}
}

func TestCreateDefaultAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jsync", "config.toml")

	created, err := CreateDefaultAt(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != path {
		t.Errorf("path = %q, want %q", created, path)
	}

	// The template must parse and resolve to an empty FileConfig.
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("default template does not parse: %v", err)
	}
	if cfg.BaseURL != "" || cfg.Email != "" {
		t.Errorf("default template should be all comments, got %+v", cfg)
	}

	// Second call is a no-op.
	if _, err := CreateDefaultAt(path); err != nil {
		t.Fatalf("unexpected error on existing file: %v", err)
	}
}
