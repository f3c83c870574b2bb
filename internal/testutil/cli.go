// Package testutil provides shared test utilities for CLI testing across packages.
// This enables co-located CLI tests while maintaining consistent test infrastructure.
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
	"todo/backend"
	"todo/cmd/todo/cmd"
)

// defaultTestConfig is the minimal config used by the test constructors to ensure isolation.
const defaultTestConfig = "# test config\ncolor: never\n"

// CLITest provides a test helper for running CLI commands in isolation.
type CLITest struct {
	t          *testing.T
	cfg        *cmd.Config
	tmpDir     string
	configPath string
	dataPath   string
}

// NewCLITest creates a new CLI test helper with an isolated JSON data file.
func NewCLITest(t *testing.T) *CLITest {
	t.Helper()
	return newCLITest(t, "settings.json", defaultTestConfig)
}

// NewCLITestWithSQLite creates a new CLI test helper backed by an isolated SQLite database.
func NewCLITestWithSQLite(t *testing.T) *CLITest {
	t.Helper()
	return newCLITest(t, "todo.db", defaultTestConfig+"store: sqlite\n")
}

func newCLITest(t *testing.T, dataFile, configContent string) *CLITest {
	t.Helper()

	tmpDir := t.TempDir()
	dataPath := filepath.Join(tmpDir, dataFile)
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	return &CLITest{
		t: t,
		cfg: &cmd.Config{
			ConfigPath: configPath,
			DataPath:   dataPath,
		},
		tmpDir:     tmpDir,
		configPath: configPath,
		dataPath:   dataPath,
	}
}

// Config returns the test configuration.
func (c *CLITest) Config() *cmd.Config {
	return c.cfg
}

// TmpDir returns the temporary directory for the test.
func (c *CLITest) TmpDir() string {
	return c.tmpDir
}

// ConfigPath returns the path to the config file.
func (c *CLITest) ConfigPath() string {
	return c.configPath
}

// DataPath returns the path to the data file.
func (c *CLITest) DataPath() string {
	return c.dataPath
}

// SetConfigValue appends a key-value pair to the test config file.
func (c *CLITest) SetConfigValue(key, value string) {
	c.t.Helper()

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.t.Fatalf("failed to read config file: %v", err)
	}

	newConfig := string(data) + key + ": " + value + "\n"
	if err := os.WriteFile(c.configPath, []byte(newConfig), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// SetFullConfig replaces the entire config file with the given YAML content.
func (c *CLITest) SetFullConfig(yamlContent string) {
	c.t.Helper()

	if err := os.WriteFile(c.configPath, []byte(yamlContent), 0644); err != nil {
		c.t.Fatalf("failed to write config file: %v", err)
	}
}

// WriteData replaces the data file with raw content.
func (c *CLITest) WriteData(content string) {
	c.t.Helper()

	if err := os.WriteFile(c.dataPath, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write data file: %v", err)
	}
}

// ReadDocument decodes the JSON data file. A missing file yields nil.
func (c *CLITest) ReadDocument() *backend.Document {
	c.t.Helper()

	data, err := os.ReadFile(c.dataPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		c.t.Fatalf("failed to read data file: %v", err)
	}

	doc := &backend.Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		c.t.Fatalf("data file is not valid JSON: %v\n%s", err, data)
	}
	return doc
}

// ReadDatabase returns the todos stored in the SQLite data file in position order.
func (c *CLITest) ReadDatabase() []backend.Todo {
	c.t.Helper()

	db, err := openTestDB(c.dataPath)
	if err != nil {
		c.t.Fatalf("failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT id, title, completed FROM todos ORDER BY position")
	if err != nil {
		c.t.Fatalf("failed to query todos: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var items []backend.Todo
	for rows.Next() {
		var item backend.Todo
		var completed int
		if err := rows.Scan(&item.ID, &item.Title, &completed); err != nil {
			c.t.Fatalf("failed to scan todo: %v", err)
		}
		item.Completed = completed != 0
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		c.t.Fatalf("failed to read todos: %v", err)
	}
	return items
}

// Execute runs a CLI command with the given arguments and returns stdout, stderr, and exit code.
func (c *CLITest) Execute(args ...string) (stdout, stderr string, exitCode int) {
	c.t.Helper()

	var stdoutBuf, stderrBuf bytes.Buffer
	exitCode = cmd.Execute(args, &stdoutBuf, &stderrBuf, c.cfg)
	return stdoutBuf.String(), stderrBuf.String(), exitCode
}

// MustExecute runs a CLI command and fails the test if exit code is non-zero.
func (c *CLITest) MustExecute(args ...string) string {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode != 0 {
		c.t.Fatalf("expected exit code 0, got %d: stdout=%s stderr=%s", exitCode, stdout, stderr)
	}
	return stdout
}

// ExecuteAndFail runs a CLI command and fails the test if exit code is zero.
func (c *CLITest) ExecuteAndFail(args ...string) (stdout, stderr string) {
	c.t.Helper()

	stdout, stderr, exitCode := c.Execute(args...)
	if exitCode == 0 {
		c.t.Fatalf("expected non-zero exit code, got 0: stdout=%s", stdout)
	}
	return stdout, stderr
}

// AssertContains fails the test if output doesn't contain expected string.
func AssertContains(t *testing.T, output, expected string) {
	t.Helper()
	if !strings.Contains(output, expected) {
		t.Errorf("expected output to contain %q, got:\n%s", expected, output)
	}
}

// AssertNotContains fails the test if output contains unexpected string.
func AssertNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	if strings.Contains(output, unexpected) {
		t.Errorf("expected output NOT to contain %q, got:\n%s", unexpected, output)
	}
}

// AssertExitCode fails the test if exit code doesn't match expected.
func AssertExitCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// openTestDB opens the SQLite database at dbPath for inspection.
func openTestDB(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite", dbPath)
}
