package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ErrEmptyTitle returns an error for a todo title with no visible characters.
func ErrEmptyTitle() error {
	return &ErrorWithSuggestion{
		Err:        errors.New("todo title cannot be empty"),
		Suggestion: "Pass the title as an argument, e.g. todo add \"Buy milk\"",
	}
}

// ErrSaveFailed returns an error for when the todo document could not be written.
func ErrSaveFailed(path string, err error) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("failed to save todos to %s: %w", path, err),
		Suggestion: "Check that the directory exists, is writable and the disk is not full",
	}
}

// ErrLoadFailed returns an error for a data file that exists but cannot be read.
func ErrLoadFailed(path string, err error) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("failed to read todos from %s: %w", path, err),
		Suggestion: "Check the file permissions or point --data at another file",
	}
}

// ErrUnknownStore returns an error for an unsupported store name.
func ErrUnknownStore(name string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown store: %q", name),
		Suggestion: fmt.Sprintf("Valid options: %s", strings.Join(valid, ", ")),
	}
}

// ErrInvalidColorMode returns an error for an unsupported color mode.
func ErrInvalidColorMode(mode string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid color mode: %q", mode),
		Suggestion: fmt.Sprintf("Valid options: %s", strings.Join(valid, ", ")),
	}
}

// ErrNotInteractive returns an error for interactive commands run without a terminal.
func ErrNotInteractive(command string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("%s requires an interactive terminal", command),
		Suggestion: "Use 'todo list', 'todo check <id>' or 'todo clear' instead",
	}
}
