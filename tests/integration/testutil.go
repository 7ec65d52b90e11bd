// Package integration provides CLI integration tests for adjvalet.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// adjvaletBin is the path to the built adjvalet binary.
	adjvaletBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
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

// SetAdjvaletBin sets the path to the adjvalet binary (called from TestMain).
func SetAdjvaletBin(path string) {
	adjvaletBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv is an isolated config directory plus an ADJ directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	ADJDir  string
}

// NewTestEnv creates a new isolated test environment. The ADJ directory is
// not created; use WriteFile or WriteSampleTree to populate it.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build adjvalet: %v", buildErr)
	}
	if adjvaletBin == "" {
		t.Fatal("adjvalet binary not built (adjvaletBin is empty)")
	}

	tempDir := t.TempDir()
	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  filepath.Join(tempDir, "config"),
		ADJDir:  filepath.Join(tempDir, "adj"),
	}
}

// WriteFile writes content to rel under the ADJ directory.
func (e *TestEnv) WriteFile(rel, content string) {
	e.t.Helper()
	path := filepath.Join(e.ADJDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", path, err)
	}
}

// ReadFile reads rel under the ADJ directory.
func (e *TestEnv) ReadFile(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.ADJDir, filepath.FromSlash(rel)))
	if err != nil {
		e.t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// Exists reports whether rel exists under the ADJ directory.
func (e *TestEnv) Exists(rel string) bool {
	_, err := os.Stat(filepath.Join(e.ADJDir, filepath.FromSlash(rel)))
	return err == nil
}

// WriteSampleTree writes a two-board tree in a hand-edited, non-canonical
// layout: LCU keeps all packets in one file and HVSCU has no manifest.
func (e *TestEnv) WriteSampleTree() {
	e.t.Helper()
	e.WriteFile("general_info.json", `{
  "ports": {"UDP": 8000, "TCP_SERVER": 50500},
  "addresses": {"backend": "127.0.0.9"},
  "units": {"A": "A"},
  "message_ids": {"info": 1}
}`)
	e.WriteFile("boards.json", `{"LCU": "boards/LCU/LCU.json", "HVSCU": "boards/HVSCU/HVSCU.json"}`)
	e.WriteFile("boards/LCU/LCU.json", `{
  "board_id": 4,
  "board_ip": "192.168.1.4",
  "measurements": ["LCU_measurements.json"],
  "packets": ["all_packets.json"]
}`)
	e.WriteFile("boards/LCU/LCU_measurements.json", `[{"id": "airgap", "name": "Airgap", "type": "float32"}]`)
	e.WriteFile("boards/LCU/all_packets.json", `[
  {"type": "data", "name": "lcu_state", "variables": ["airgap"]},
  {"type": "order", "name": "levitate", "variables": []}
]`)
	e.WriteFile("boards/HVSCU/HVSCU_measurements.json", `[]`)
}

// CmdResult holds the result of an adjvalet command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Command returns an unstarted adjvalet command bound to this environment.
func (e *TestEnv) Command(args ...string) *exec.Cmd {
	allArgs := append([]string{"--config-dir", e.Config, "--adj-path", e.ADJDir}, args...)
	cmd := exec.Command(adjvaletBin, allArgs...)
	cmd.Dir = e.TempDir
	cmd.Env = append(os.Environ(), "ADJVALET_ADJ_PATH=", "ADJVALET_CONFIG_DIR=", "ADJVALET_NATS_URL=")
	return cmd
}

// Run executes the adjvalet CLI with the given arguments.
func (e *TestEnv) Run(args ...string) CmdResult {
	e.t.Helper()

	cmd := e.Command(args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run adjvalet: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRun executes the adjvalet CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	result := e.Run(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("adjvalet %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// BoardRow mirrors one entry of `adjvalet boards --json`.
type BoardRow struct {
	Name         string `json:"name"`
	BoardID      uint32 `json:"board_id"`
	BoardIP      string `json:"board_ip"`
	Measurements int    `json:"measurements"`
	DataPackets  int    `json:"data_packets"`
	Orders       int    `json:"orders"`
}
