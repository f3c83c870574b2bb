// Package file implements a Store that keeps the todo document in a JSON file.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"todo/backend"
	"todo/internal/utils"
)

// DefaultFileName is the data file name used when no path is configured.
const DefaultFileName = "settings.json"

// Config holds file store configuration
type Config struct {
	FilePath string // Path to the JSON document
}

// Store implements backend.Store for a JSON file
type Store struct {
	filePath string // Resolved absolute path
}

// New creates a new file store
func New(cfg Config) (*Store, error) {
	filePath := cfg.FilePath
	if filePath == "" {
		filePath = DefaultFileName
	}

	// Resolve relative paths
	if !filepath.IsAbs(filePath) {
		abs, err := filepath.Abs(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data file path: %w", err)
		}
		filePath = abs
	}

	return &Store{filePath: filePath}, nil
}

// Path returns the resolved data file path
func (s *Store) Path() string {
	return s.filePath
}

// Close closes the store
func (s *Store) Close() error {
	return nil
}

// Load reads the document from disk.
// A missing file, malformed JSON or a document that fails the schema all yield
// an empty document; other read errors are returned.
func (s *Store) Load(ctx context.Context) (*backend.Document, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			utils.Debugf("no data file at %s, starting with an empty list", s.filePath)
			return backend.NewDocument(), nil
		}
		return nil, utils.ErrLoadFailed(s.filePath, err)
	}

	doc, err := decode(data)
	if err != nil {
		utils.Warnf("ignoring unreadable data file %s, it will be replaced on the next change: %v", s.filePath, err)
		return backend.NewDocument(), nil
	}

	utils.Debugf("loaded %d todos from %s", len(doc.Items), s.filePath)
	return doc, nil
}

// storedTodo mirrors backend.Todo as it appears on disk. Ids are kept as
// json.Number so integral values written as floats (1.0, 1e0) still load.
type storedTodo struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	Completed bool        `json:"completed"`
}

type storedDocument struct {
	Items []storedTodo `json:"items"`
}

// decode parses and validates a raw document.
func decode(data []byte) (*backend.Document, error) {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var stored storedDocument
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	doc := backend.NewDocument()
	for _, st := range stored.Items {
		id, err := wholeNumber(st.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", st.ID, err)
		}
		doc.Items = append(doc.Items, backend.Todo{ID: id, Title: st.Title, Completed: st.Completed})
	}
	return doc, nil
}

// wholeNumber converts a JSON number without a fractional part to an int
func wholeNumber(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		if i > math.MaxInt || i < math.MinInt {
			return 0, errors.New("out of range")
		}
		return int(i), nil
	}

	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f >= math.MaxInt || f < math.MinInt {
		return 0, errors.New("not a whole number")
	}
	return int(f), nil
}

// Save writes the full document, replacing the previous file atomically.
func (s *Store) Save(ctx context.Context, doc *backend.Document) error {
	if doc == nil {
		doc = backend.NewDocument()
	}
	out := backend.Document{Items: backend.CloneItems(doc.Items)}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return utils.ErrSaveFailed(s.filePath, err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.filePath, data); err != nil {
		return utils.ErrSaveFailed(s.filePath, err)
	}

	utils.Debugf("saved %d todos to %s", len(out.Items), s.filePath)
	return nil
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
