package todo_test

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/testutil"
	"todo/internal/tui"
)

// =============================================================================
// Todo Command CLI Tests
// These tests run the todo commands end to end against the JSON file store.
// =============================================================================

// TestAddCheckClearScenario walks through the basic lifecycle of a todo
func TestAddCheckClearScenario(t *testing.T) {
	cli := testutil.NewCLITest(t)

	stdout := cli.MustExecute("add", "Buy milk")
	if stdout != "\n  New todo added\n\n" {
		t.Errorf("unexpected add output: %q", stdout)
	}

	stdout = cli.MustExecute("check", "1")
	if stdout != "\n  Todo with id: 1 marked completed\n\n" {
		t.Errorf("unexpected check output: %q", stdout)
	}

	stdout = cli.MustExecute("list")
	if stdout != "\n  Todos:\n\n    ✓ 1. Buy milk\n\n" {
		t.Errorf("unexpected list output: %q", stdout)
	}

	stdout = cli.MustExecute("clear")
	if stdout != "\n  All completed todos cleared\n\n" {
		t.Errorf("unexpected clear output: %q", stdout)
	}

	stdout = cli.MustExecute("list")
	if stdout != "\n  Your todo list is empty\n\n" {
		t.Errorf("unexpected list output: %q", stdout)
	}
}

// TestListEmptyWithoutDataFile verifies that list works before anything was saved
func TestListEmptyWithoutDataFile(t *testing.T) {
	cli := testutil.NewCLITest(t)

	stdout := cli.MustExecute("list")

	testutil.AssertContains(t, stdout, "Your todo list is empty")
	if _, err := os.Stat(cli.DataPath()); !os.IsNotExist(err) {
		t.Errorf("list should not create the data file, stat err: %v", err)
	}
}

// TestAddPersistsDocument verifies the on-disk shape after add
func TestAddPersistsDocument(t *testing.T) {
	cli := testutil.NewCLITest(t)

	cli.MustExecute("add", "Buy", "milk")
	cli.MustExecute("add", "  Walk the dog  ")

	doc := cli.ReadDocument()
	if doc == nil {
		t.Fatal("data file was not written")
	}
	if len(doc.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(doc.Items))
	}
	if doc.Items[0].ID != 1 || doc.Items[0].Title != "Buy milk" || doc.Items[0].Completed {
		t.Errorf("unexpected first item: %+v", doc.Items[0])
	}
	if doc.Items[1].ID != 2 || doc.Items[1].Title != "Walk the dog" {
		t.Errorf("unexpected second item: %+v", doc.Items[1])
	}
}

// TestListFilters verifies --active and --completed
func TestListFilters(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	cli.MustExecute("add", "second")
	cli.MustExecute("add", "third")
	cli.MustExecute("check", "2")

	t.Run("active", func(t *testing.T) {
		stdout := cli.MustExecute("list", "--active")
		testutil.AssertContains(t, stdout, "1. first")
		testutil.AssertContains(t, stdout, "3. third")
		testutil.AssertNotContains(t, stdout, "second")
	})

	t.Run("completed", func(t *testing.T) {
		stdout := cli.MustExecute("list", "-c")
		testutil.AssertContains(t, stdout, "✓ 2. second")
		testutil.AssertNotContains(t, stdout, "first")
		testutil.AssertNotContains(t, stdout, "third")
	})

	t.Run("active wins over completed", func(t *testing.T) {
		stdout := cli.MustExecute("list", "--active", "--completed")
		testutil.AssertNotContains(t, stdout, "second")
	})

	t.Run("no completed todos", func(t *testing.T) {
		cli.MustExecute("uncheck", "2")
		stdout := cli.MustExecute("list", "--completed")
		testutil.AssertContains(t, stdout, "Your todo list is empty")
	})
}

// TestListJSON verifies machine readable list output
func TestListJSON(t *testing.T) {
	cli := testutil.NewCLITest(t)

	stdout := cli.MustExecute("list", "--json")
	if stdout != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", stdout)
	}

	cli.MustExecute("add", "Buy milk")
	stdout = cli.MustExecute("list", "--json")
	if stdout != "[{\"id\":1,\"title\":\"Buy milk\",\"completed\":false}]\n" {
		t.Errorf("unexpected JSON output: %q", stdout)
	}
}

// TestUncheck verifies that uncheck marks a todo active again
func TestUncheck(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "Buy milk")
	cli.MustExecute("check", "1")

	stdout := cli.MustExecute("uncheck", "1")

	testutil.AssertContains(t, stdout, "Todo with id: 1 marked active")
	if doc := cli.ReadDocument(); doc.Items[0].Completed {
		t.Error("todo should be active after uncheck")
	}
}

// TestClearByID verifies that clear <id> removes only that todo
func TestClearByID(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	cli.MustExecute("add", "second")

	stdout := cli.MustExecute("clear", "1")

	testutil.AssertContains(t, stdout, "Todo with id: 1 cleared")
	doc := cli.ReadDocument()
	if len(doc.Items) != 1 || doc.Items[0].ID != 2 {
		t.Errorf("expected only todo 2 to remain, got %+v", doc.Items)
	}
}

// TestClearAllRestartsIDs verifies that ids restart at 1 after clear --all
func TestClearAllRestartsIDs(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	cli.MustExecute("add", "second")

	stdout := cli.MustExecute("clear", "--all")
	testutil.AssertContains(t, stdout, "All todos cleared")

	cli.MustExecute("add", "again")
	doc := cli.ReadDocument()
	if len(doc.Items) != 1 || doc.Items[0].ID != 1 {
		t.Errorf("expected a single todo with id 1, got %+v", doc.Items)
	}
}

// TestIDsNotReusedAfterClearByID verifies that a new todo is numbered past the highest id
func TestIDsNotReusedAfterClearByID(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	cli.MustExecute("add", "second")
	cli.MustExecute("clear", "1")

	cli.MustExecute("add", "third")

	doc := cli.ReadDocument()
	if got := doc.Items[len(doc.Items)-1].ID; got != 3 {
		t.Errorf("expected new id 3, got %d", got)
	}
}

// TestNotFound verifies that misses print a message, exit 0 and leave the file untouched
func TestNotFound(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"check missing id", []string{"check", "42"}, "Todo with id: 42 not found"},
		{"uncheck missing id", []string{"uncheck", "42"}, "Todo with id: 42 not found"},
		{"clear missing id", []string{"clear", "42"}, "Todo with id: 42 not found"},
		{"non-numeric id", []string{"check", "abc"}, "Todo with id: abc not found"},
		{"zero id", []string{"check", "0"}, "Todo with id: 0 not found"},
		{"negative id", []string{"clear", "--", "-1"}, "Todo with id: -1 not found"},
		{"padded id", []string{"check", " 7 "}, "Todo with id: 7 not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := testutil.NewCLITest(t)
			cli.MustExecute("add", "keep me")
			before, err := os.ReadFile(cli.DataPath())
			if err != nil {
				t.Fatalf("failed to read data file: %v", err)
			}

			stdout, stderr, exitCode := cli.Execute(tt.args...)

			testutil.AssertExitCode(t, exitCode, 0)
			testutil.AssertContains(t, stdout, tt.want)
			if stderr != "" {
				t.Errorf("expected empty stderr, got: %s", stderr)
			}
			after, err := os.ReadFile(cli.DataPath())
			if err != nil {
				t.Fatalf("failed to read data file: %v", err)
			}
			if string(before) != string(after) {
				t.Errorf("data file changed on a miss:\nbefore=%s\nafter=%s", before, after)
			}
		})
	}
}

// TestStrictNotFound verifies that strict mode turns misses into exit code 1
func TestStrictNotFound(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		cli := testutil.NewCLITest(t)

		stdout, stderr, exitCode := cli.Execute("check", "5", "--strict")

		testutil.AssertExitCode(t, exitCode, 1)
		testutil.AssertContains(t, stdout, "Todo with id: 5 not found")
		if stderr != "" {
			t.Errorf("expected empty stderr, got: %s", stderr)
		}
	})

	t.Run("config", func(t *testing.T) {
		cli := testutil.NewCLITest(t)
		cli.SetConfigValue("strict", "true")

		_, _, exitCode := cli.Execute("clear", "5")

		testutil.AssertExitCode(t, exitCode, 1)
	})
}

// TestCorruptDataFileLoadsEmpty verifies that unreadable content is treated as an empty list
func TestCorruptDataFileLoadsEmpty(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.WriteData("{not json")

	stdout, stderr, exitCode := cli.Execute("list")
	testutil.AssertExitCode(t, exitCode, 0)
	testutil.AssertContains(t, stdout, "Your todo list is empty")
	testutil.AssertContains(t, stderr, "ignoring unreadable data file")

	cli.MustExecute("add", "fresh start")
	doc := cli.ReadDocument()
	if len(doc.Items) != 1 || doc.Items[0].ID != 1 {
		t.Errorf("expected a single todo with id 1, got %+v", doc.Items)
	}
}

// TestDataFlagOverridesConfig verifies that --data selects the data file
func TestDataFlagOverridesConfig(t *testing.T) {
	cli := testutil.NewCLITest(t)
	other := filepath.Join(cli.TmpDir(), "nested", "other.json")

	cli.MustExecute("add", "elsewhere", "--data", other)

	if _, err := os.Stat(other); err != nil {
		t.Fatalf("expected data file at %s: %v", other, err)
	}
	if doc := cli.ReadDocument(); doc != nil {
		t.Errorf("default data file should not be written, got %+v", doc)
	}
}

// TestConfigFlagInvalidYAML verifies that a broken config file fails the command
func TestConfigFlagInvalidYAML(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.SetFullConfig("store: [json\n")

	_, stderr := cli.ExecuteAndFail("list")

	testutil.AssertContains(t, stderr, "invalid YAML in config file")
}

// TestColorAlways verifies that --color always emits escape sequences
func TestColorAlways(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "Buy milk")

	stdout := cli.MustExecute("list", "--color", "always")
	testutil.AssertContains(t, stdout, "\x1b[")

	stdout = cli.MustExecute("list")
	testutil.AssertNotContains(t, stdout, "\x1b[")
}

// TestVerboseLogsToStderr verifies that -V writes debug logs to stderr only
func TestVerboseLogsToStderr(t *testing.T) {
	cli := testutil.NewCLITest(t)

	stdout, stderr, exitCode := cli.Execute("list", "-V")

	testutil.AssertExitCode(t, exitCode, 0)
	testutil.AssertContains(t, stderr, "using json store")
	testutil.AssertContains(t, stderr, "listing all todos")
	testutil.AssertNotContains(t, stdout, "using json store")

	_, stderr, _ = cli.Execute("list", "--completed", "-V")
	testutil.AssertContains(t, stderr, "listing completed todos")
}

// TestWholeNumberIDArguments verifies that ids written as 3.0 or 3e0 match todo 3
func TestWholeNumberIDArguments(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	cli.MustExecute("add", "second")
	cli.MustExecute("add", "third")

	stdout := cli.MustExecute("check", "3.0")
	testutil.AssertContains(t, stdout, "Todo with id: 3.0 marked completed")

	stdout = cli.MustExecute("clear", "2e0")
	testutil.AssertContains(t, stdout, "Todo with id: 2e0 cleared")

	doc := cli.ReadDocument()
	if len(doc.Items) != 2 || doc.Items[0].ID != 1 || !doc.Items[1].Completed {
		t.Errorf("expected todos 1 and completed 3, got %+v", doc.Items)
	}
}

// TestClearBlankIDClearsCompleted verifies that a blank id argument behaves like no id
func TestClearBlankIDClearsCompleted(t *testing.T) {
	for _, arg := range []string{"", "   "} {
		t.Run("arg "+strconv.Quote(arg), func(t *testing.T) {
			cli := testutil.NewCLITest(t)
			cli.MustExecute("add", "first")
			cli.MustExecute("add", "second")
			cli.MustExecute("check", "1")

			stdout := cli.MustExecute("clear", arg)

			testutil.AssertContains(t, stdout, "All completed todos cleared")
			testutil.AssertNotContains(t, stdout, "not found")
			doc := cli.ReadDocument()
			if len(doc.Items) != 1 || doc.Items[0].ID != 2 {
				t.Errorf("expected only todo 2 to remain, got %+v", doc.Items)
			}
		})
	}
}

// TestFloatIDsInDataFileKept verifies that a data file with ids like 1.0 is read, not replaced
func TestFloatIDsInDataFileKept(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.WriteData(`{"items":[{"id":1.0,"title":"Buy milk","completed":false}]}`)

	cli.MustExecute("add", "Walk dog")

	doc := cli.ReadDocument()
	if len(doc.Items) != 2 || doc.Items[0].Title != "Buy milk" || doc.Items[1].ID != 2 {
		t.Errorf("expected existing todo kept and new id 2, got %+v", doc.Items)
	}
}

// TestBrowseRequiresTerminal verifies that browse refuses to run without a terminal
func TestBrowseRequiresTerminal(t *testing.T) {
	cli := testutil.NewCLITest(t)

	_, stderr := cli.ExecuteAndFail("browse")

	testutil.AssertContains(t, stderr, "requires an interactive terminal")
}

// TestBrowseSavesChanges verifies that browse persists edits made in the browser
func TestBrowseSavesChanges(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	cli.MustExecute("add", "second")

	cfg := cli.Config()
	cfg.Interactive = true
	cfg.RunBrowser = func(m *tui.Model) error {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
		return nil
	}

	cli.MustExecute("browse")

	doc := cli.ReadDocument()
	if !doc.Items[0].Completed || doc.Items[1].Completed {
		t.Errorf("expected only the first todo completed, got %+v", doc.Items)
	}
}

// TestBrowseDiscardsOnCancel verifies that leaving without saving keeps the file unchanged
func TestBrowseDiscardsOnCancel(t *testing.T) {
	cli := testutil.NewCLITest(t)
	cli.MustExecute("add", "first")
	before, err := os.ReadFile(cli.DataPath())
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}

	cfg := cli.Config()
	cfg.Interactive = true
	cfg.RunBrowser = func(m *tui.Model) error {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		return nil
	}

	cli.MustExecute("browse")

	after, err := os.ReadFile(cli.DataPath())
	if err != nil {
		t.Fatalf("failed to read data file: %v", err)
	}
	if string(before) != string(after) {
		t.Errorf("data file changed after cancel:\nbefore=%s\nafter=%s", before, after)
	}
}

// TestBrowseErrorPropagates verifies that a browser failure fails the command
func TestBrowseErrorPropagates(t *testing.T) {
	cli := testutil.NewCLITest(t)

	cfg := cli.Config()
	cfg.Interactive = true
	cfg.RunBrowser = func(m *tui.Model) error {
		return errors.New("terminal went away")
	}

	_, stderr := cli.ExecuteAndFail("browse")

	if !strings.Contains(stderr, "terminal went away") {
		t.Errorf("expected browser error on stderr, got: %s", stderr)
	}
}
