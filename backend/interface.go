package backend

import (
	"context"
)

// Todo represents a single todo item
type Todo struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Document is the full persisted collection of todos.
// Items are kept in insertion order, which is also the display order.
type Document struct {
	Items []Todo `json:"items"`
}

// NewDocument returns an empty document
func NewDocument() *Document {
	return &Document{Items: []Todo{}}
}

// Store defines the interface for todo persistence backends.
// A store is loaded once and saved at most once per invocation.
type Store interface {
	// Load reads the document. A store that has never been written returns an empty document.
	Load(ctx context.Context) (*Document, error)
	// Save replaces the persisted document in full.
	Save(ctx context.Context, doc *Document) error
	// Path returns the location of the persisted data
	Path() string

	// Connection management
	Close() error
}

// CloneItems returns a copy of items that never aliases the input.
// A nil input yields an empty, non-nil slice so documents always serialize as [].
func CloneItems(items []Todo) []Todo {
	out := make([]Todo, len(items))
	copy(out, items)
	return out
}
