package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todo/backend"
	"todo/backend/file"
	"todo/backend/sqlite"
	"todo/internal/config"
	"todo/internal/todo"
	"todo/internal/tui"
	"todo/internal/utils"
	"todo/internal/views"
)

// Version is set at build time
var Version = "dev"

var (
	_ backend.Store = (*file.Store)(nil)
	_ backend.Store = (*sqlite.Store)(nil)
)

// Config holds invocation settings that override the config file
type Config struct {
	ConfigPath  string                 // Path to config file (for testing)
	DataPath    string                 // Path to data file (for testing)
	Store       backend.Store          // Pre-opened store, left open after the command (for testing)
	Interactive bool                   // Skip the terminal check for browse (for testing)
	RunBrowser  func(*tui.Model) error // Replaces the bubbletea program (for testing)
}

// usageError marks errors caused by invalid command-line usage.
// They are reported with the usage of the failing command.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// usageArgs wraps a positional argument validator so its errors print usage
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// Execute runs the CLI with the given arguments and IO writers
func Execute(args []string, stdout, stderr io.Writer, cfg *Config) int {
	rootCmd := NewTodo(stdout, stderr, cfg)

	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	executed, err := rootCmd.ExecuteC()
	if err == nil {
		return 0
	}

	// Strict mode: the not-found message has already been printed
	if errors.Is(err, todo.ErrNotFound) {
		return 1
	}

	_, _ = fmt.Fprintln(stderr, "Error:", err)
	var ue *usageError
	if errors.As(err, &ue) && executed != nil {
		_, _ = fmt.Fprintln(stderr)
		_, _ = fmt.Fprint(stderr, executed.UsageString())
	}
	return 1
}

// NewTodo creates the root command with injectable IO
func NewTodo(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	if cfg == nil {
		cfg = &Config{}
	}

	cmd := &cobra.Command{
		Use:     "todo",
		Short:   "A tiny todo list manager",
		Long:    "todo keeps a list of short tasks in a JSON file next to the program.",
		Version: Version,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &usageError{err}
	})

	// Add global flags
	cmd.PersistentFlags().String("config", "", "Path to the config file")
	cmd.PersistentFlags().String("store", "", "Storage backend (json, sqlite)")
	cmd.PersistentFlags().String("data", "", "Path to the data file")
	cmd.PersistentFlags().String("color", "", "Color output (auto, always, never)")
	cmd.PersistentFlags().BoolP("verbose", "V", false, "Enable verbose/debug output")
	cmd.PersistentFlags().Bool("strict", false, "Exit with status 1 when a todo is not found")

	cmd.AddCommand(newListCmd(stdout, stderr, cfg))
	cmd.AddCommand(newAddCmd(stdout, stderr, cfg))
	cmd.AddCommand(newCheckCmd(stdout, stderr, cfg, true))
	cmd.AddCommand(newCheckCmd(stdout, stderr, cfg, false))
	cmd.AddCommand(newClearCmd(stdout, stderr, cfg))
	cmd.AddCommand(newBrowseCmd(stdout, stderr, cfg))

	return cmd
}

// app bundles what a command needs after flags and config are resolved
type app struct {
	conf     *config.Config
	store    backend.Store
	service  *todo.Service
	renderer *views.Renderer
	owned    bool
}

func (a *app) Close() error {
	if !a.owned {
		return nil
	}
	return a.store.Close()
}

// newApp loads configuration, applies overrides and opens the store
func newApp(cmd *cobra.Command, stdout, stderr io.Writer, cfg *Config) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = cfg.ConfigPath
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Invocation overrides first, then flags
	conf.ApplyFlags("", cfg.DataPath, "", false, false)
	storeName, _ := cmd.Flags().GetString("store")
	dataPath, _ := cmd.Flags().GetString("data")
	color, _ := cmd.Flags().GetString("color")
	verbose, _ := cmd.Flags().GetBool("verbose")
	strict, _ := cmd.Flags().GetBool("strict")
	conf.ApplyFlags(storeName, dataPath, color, verbose, strict)

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	utils.SetOutput(stderr)
	utils.SetVerboseMode(conf.Logging.Verbose)

	a := &app{conf: conf, renderer: views.NewRenderer(stdout, conf.Color)}
	if cfg.Store != nil {
		a.store = cfg.Store
	} else {
		store, err := openStore(conf)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.owned = true
	}
	a.service = todo.NewService(a.store)

	utils.Debugf("using %s store at %s", conf.Store, a.store.Path())
	return a, nil
}

// openStore creates the store selected by the configuration
func openStore(conf *config.Config) (backend.Store, error) {
	switch conf.Store {
	case utils.StoreSQLite:
		return sqlite.New(conf.GetDataPath(sqlite.DefaultFileName))
	default:
		return file.New(file.Config{FilePath: conf.GetDataPath(file.DefaultFileName)})
	}
}

// withApp runs fn with a fully configured app and closes it afterwards
func withApp(cmd *cobra.Command, stdout, stderr io.Writer, cfg *Config, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(cmd, stdout, stderr, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return fn(context.Background(), a)
}

// notFound prints the miss message and, in strict mode, fails the command
func (a *app) notFound(idArg string) error {
	a.renderer.Message(views.MsgNotFound(idArg))
	if a.conf.Strict {
		return todo.ErrNotFound
	}
	return nil
}

// newListCmd creates the 'list' subcommand
func newListCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all todos",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, _ := cmd.Flags().GetBool("active")
			completed, _ := cmd.Flags().GetBool("completed")
			jsonOutput, _ := cmd.Flags().GetBool("json")

			filter := todo.ShowAll
			switch {
			case active:
				filter = todo.ShowActive
			case completed:
				filter = todo.ShowCompleted
			}

			return withApp(cmd, stdout, stderr, cfg, func(ctx context.Context, a *app) error {
				utils.Debugf("listing %s todos", filter)
				items, err := a.service.List(ctx, filter)
				if err != nil {
					return err
				}
				if jsonOutput {
					return a.renderer.JSON(items)
				}
				a.renderer.List(items)
				return nil
			})
		},
	}

	cmd.Flags().BoolP("active", "a", false, "List only active todos")
	cmd.Flags().BoolP("completed", "c", false, "List only completed todos")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	return cmd
}

// newAddCmd creates the 'add' subcommand
func newAddCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new todo",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := utils.JoinTitle(args)
			if err != nil {
				return &usageError{err}
			}

			return withApp(cmd, stdout, stderr, cfg, func(ctx context.Context, a *app) error {
				if _, err := a.service.Add(ctx, title); err != nil {
					return err
				}
				a.renderer.Message(views.MsgAdded)
				return nil
			})
		},
	}
}

// newCheckCmd creates the 'check' subcommand, or 'uncheck' when completed is false
func newCheckCmd(stdout, stderr io.Writer, cfg *Config, completed bool) *cobra.Command {
	use, short := "check <id>", "Mark a todo completed"
	if !completed {
		use, short = "uncheck <id>", "Mark a todo active"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			idArg := strings.TrimSpace(args[0])

			return withApp(cmd, stdout, stderr, cfg, func(ctx context.Context, a *app) error {
				id, ok := utils.ParseID(idArg)
				if !ok {
					return a.notFound(idArg)
				}

				op, msg := a.service.Check, views.MsgCompleted(idArg)
				if !completed {
					op, msg = a.service.Uncheck, views.MsgActive(idArg)
				}

				if err := op(ctx, id); err != nil {
					if errors.Is(err, todo.ErrNotFound) {
						return a.notFound(idArg)
					}
					return err
				}
				a.renderer.Message(msg)
				return nil
			})
		},
	}
}

// newClearCmd creates the 'clear' subcommand
func newClearCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear [id]",
		Short: "Clear all completed todos or one todo by id",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return withApp(cmd, stdout, stderr, cfg, func(ctx context.Context, a *app) error {
				// A blank id is treated as no id
				if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
					return doClearID(ctx, a, strings.TrimSpace(args[0]))
				}

				mode, msg := todo.ClearCompleted, views.MsgClearedDone
				if all {
					mode, msg = todo.ClearAll, views.MsgClearedAll
				}
				removed, err := a.service.Clear(ctx, mode)
				if err != nil {
					return err
				}
				utils.Debugf("cleared %d todos", removed)
				a.renderer.Message(msg)
				return nil
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Clear all todos")
	return cmd
}

// doClearID removes a single todo by its id argument
func doClearID(ctx context.Context, a *app, idArg string) error {
	id, ok := utils.ParseID(idArg)
	if !ok {
		return a.notFound(idArg)
	}

	if err := a.service.Remove(ctx, id); err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			return a.notFound(idArg)
		}
		return err
	}
	a.renderer.Message(views.MsgCleared(idArg))
	return nil
}

// newBrowseCmd creates the 'browse' subcommand
func newBrowseCmd(stdout, stderr io.Writer, cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and edit todos interactively",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cfg.Interactive && !views.IsTerminal(stdout) {
				return utils.ErrNotInteractive("browse")
			}

			return withApp(cmd, stdout, stderr, cfg, func(ctx context.Context, a *app) error {
				doc, err := a.service.Load(ctx)
				if err != nil {
					return err
				}

				model := tui.New(doc.Items)
				run := cfg.RunBrowser
				if run == nil {
					run = runBrowser
				}
				if err := run(model); err != nil {
					return err
				}

				if !model.ShouldSave() {
					return nil
				}
				return a.service.Replace(ctx, model.Items())
			})
		},
	}
}

// runBrowser runs the bubbletea program on the controlling terminal
func runBrowser(model *tui.Model) error {
	_, err := tea.NewProgram(model, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout)).Run()
	return err
}
