package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
	"todo/backend"
	"todo/internal/utils"
)

// DefaultFileName is the database file name used when no path is configured.
const DefaultFileName = "todo.db"

// Store implements backend.Store using SQLite
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at path and initializes the schema
func New(path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("could not create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases stable across calls
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// initSchema creates the todos table if it doesn't exist
func (s *Store) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS todos (
			position INTEGER PRIMARY KEY,
			id INTEGER NOT NULL UNIQUE CHECK (id > 0),
			title TEXT NOT NULL CHECK (title <> ''),
			completed INTEGER NOT NULL DEFAULT 0
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Path returns the database location
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns all todos in insertion order
func (s *Store) Load(ctx context.Context) (*backend.Document, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, completed FROM todos ORDER BY position")
	if err != nil {
		return nil, utils.ErrLoadFailed(s.path, err)
	}
	defer func() { _ = rows.Close() }()

	doc := backend.NewDocument()
	for rows.Next() {
		var t backend.Todo
		var completed int
		if err := rows.Scan(&t.ID, &t.Title, &completed); err != nil {
			return nil, utils.ErrLoadFailed(s.path, err)
		}
		t.Completed = completed != 0
		doc.Items = append(doc.Items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, utils.ErrLoadFailed(s.path, err)
	}

	utils.Debugf("loaded %d todos from %s", len(doc.Items), s.path)
	return doc, nil
}

// Save replaces every stored row with the document inside one transaction
func (s *Store) Save(ctx context.Context, doc *backend.Document) error {
	if doc == nil {
		doc = backend.NewDocument()
	}

	if err := s.replaceAll(ctx, doc.Items); err != nil {
		return utils.ErrSaveFailed(s.path, err)
	}

	utils.Debugf("saved %d todos to %s", len(doc.Items), s.path)
	return nil
}

func (s *Store) replaceAll(ctx context.Context, items []backend.Todo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM todos"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO todos (position, id, title, completed) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, t := range items {
		if _, err := stmt.ExecContext(ctx, i+1, t.ID, t.Title, boolToInt(t.Completed)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
