package testutil

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	// binaryPath caches the path to the built jsync binary.
	binaryPath string
	buildMu    sync.Mutex
	buildErr   error
)

// CLIResult represents the result of running a CLI command.
type CLIResult struct {
	OK       bool
	Data     map[string]interface{}
	Error    *CLIError
	RawJSON  string
	ExitCode int
}

// CLIError represents a structured error from the CLI.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// BuildCLI builds the jsync binary once per test run and returns its path.
func BuildCLI(t *testing.T) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err == nil {
			return binaryPath
		}
		// Binary disappeared (can happen on some Windows runners with temp cleanup).
		binaryPath = ""
		buildErr = nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		buildErr = err
	} else {
		tmpDir, err := os.MkdirTemp("", "jsync-cli-bin-*")
		if err != nil {
			buildErr = err
		} else {
			binName := "jsync"
			if runtime.GOOS == "windows" {
				binName = "jsync.exe"
			}

			binaryPath = filepath.Join(tmpDir, binName)
			cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/jsync")
			cmd.Dir = projectRoot
			output, err := cmd.CombinedOutput()
			if err != nil {
				buildErr = &BuildError{Output: string(output), Err: err}
				binaryPath = ""
			}
		}
	}

	if buildErr != nil {
		t.Fatalf("failed to build CLI: %v", buildErr)
	}

	return binaryPath
}

// BuildError represents an error building the CLI binary.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Err.Error() + "\n" + e.Output
}

// findProjectRoot walks up the directory tree to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// Harness runs the CLI against a fake server with isolated config: a
// scratch working directory, a private config file, and no JOPLIN_*
// environment leaking in from the developer's shell.
type Harness struct {
	t          *testing.T
	baseURL    string
	workDir    string
	configPath string
}

// NewHarness builds the binary and wires it to the given fake server.
func NewHarness(t *testing.T, srv *FakeServer) *Harness {
	t.Helper()

	workDir := t.TempDir()
	configPath := filepath.Join(workDir, "config.toml")
	if err := os.WriteFile(configPath, []byte(""), 0o644); err != nil {
		t.Fatalf("failed to write harness config: %v", err)
	}

	return &Harness{
		t:          t,
		baseURL:    srv.URL(),
		workDir:    workDir,
		configPath: configPath,
	}
}

// WorkDir is the scratch directory commands run in; relative output
// paths land here.
func (h *Harness) WorkDir() string { return h.workDir }

// WriteFile writes a file under the scratch directory and returns its path.
func (h *Harness) WriteFile(relPath, content string) string {
	h.t.Helper()
	path := filepath.Join(h.workDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.t.Fatalf("failed to write file: %v", err)
	}
	return path
}

// ReadFile reads a file under the scratch directory.
func (h *Harness) ReadFile(relPath string) string {
	h.t.Helper()
	data, err := os.ReadFile(filepath.Join(h.workDir, relPath))
	if err != nil {
		h.t.Fatalf("failed to read file: %v", err)
	}
	return string(data)
}

// FileExists reports whether a file exists under the scratch directory.
func (h *Harness) FileExists(relPath string) bool {
	_, err := os.Stat(filepath.Join(h.workDir, relPath))
	return err == nil
}

// Run executes a CLI command with --json and returns the parsed result.
// Connection settings are injected as flags so the fake server's
// credentials always apply.
func (h *Harness) Run(args ...string) *CLIResult {
	h.t.Helper()

	binary := BuildCLI(h.t)

	cmdArgs := []string{
		"--json",
		"--base-url", h.baseURL,
		"--email", TestEmail,
		"--password", TestPassword,
		"--config", h.configPath,
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(binary, cmdArgs...)
	cmd.Dir = h.workDir
	cmd.Env = scrubbedEnv()
	output, err := cmd.Output()

	result := &CLIResult{RawJSON: string(output)}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}

	var resp struct {
		OK    bool                   `json:"ok"`
		Data  map[string]interface{} `json:"data,omitempty"`
		Error *CLIError              `json:"error,omitempty"`
	}
	if err := json.Unmarshal(output, &resp); err != nil {
		result.OK = false
		result.Error = &CLIError{
			Code:    "PARSE_ERROR",
			Message: "Failed to parse JSON output: " + err.Error(),
			Details: map[string]interface{}{"raw": string(output)},
		}
		return result
	}

	result.OK = resp.OK
	result.Data = resp.Data
	result.Error = resp.Error
	return result
}

func scrubbedEnv() []string {
	env := os.Environ()
	out := env[:0:0]
	for _, kv := range env {
		if strings.HasPrefix(kv, "JOPLIN_") {
			continue
		}
		out = append(out, kv)
	}
	return out
}

// MustSucceed fails the test if the CLI command did not succeed.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		errMsg := "unknown error"
		if r.Error != nil {
			errMsg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected command to succeed, got error: %s\nRaw output: %s", errMsg, r.RawJSON)
	}
	if r.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d\nRaw output: %s", r.ExitCode, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the command failed with the expected code
// and a non-zero exit.
func (r *CLIResult) MustFail(t *testing.T, expectedCode string) *CLIResult {
	t.Helper()
	if r.OK {
		t.Fatalf("expected command to fail with code %s, but it succeeded\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.ExitCode == 0 {
		t.Fatalf("expected non-zero exit code for failure %s\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error == nil {
		t.Fatalf("expected error with code %s, but error is nil\nRaw output: %s", expectedCode, r.RawJSON)
	}
	if r.Error.Code != expectedCode {
		t.Fatalf("expected error code %s, got %s: %s\nRaw output: %s", expectedCode, r.Error.Code, r.Error.Message, r.RawJSON)
	}
	return r
}

// DataString extracts a string from the Data field.
func (r *CLIResult) DataString(key string) string {
	if r.Data == nil {
		return ""
	}
	if s, ok := r.Data[key].(string); ok {
		return s
	}
	return ""
}
