package todo

import (
	"context"
	"errors"

	"todo/backend"
)

// ErrNotFound is returned when a command targets an id no todo has
var ErrNotFound = errors.New("todo not found")

// ClearMode selects what a clear command removes
type ClearMode int

const (
	ClearCompleted ClearMode = iota
	ClearAll
)

// Service runs todo commands against a store.
// Every command loads the document once, transforms it and, when it changed,
// saves it once.
type Service struct {
	store backend.Store
}

// NewService creates a service backed by store
func NewService(store backend.Store) *Service {
	return &Service{store: store}
}

// List returns the todos selected by f
func (s *Service) List(ctx context.Context, f Filter) ([]backend.Todo, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterItems(doc.Items, f), nil
}

// Add appends a new active todo and returns it
func (s *Service) Add(ctx context.Context, title string) (backend.Todo, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return backend.Todo{}, err
	}

	items, created := Append(doc.Items, title)
	if err := s.store.Save(ctx, &backend.Document{Items: items}); err != nil {
		return backend.Todo{}, err
	}
	return created, nil
}

// Check marks the todo with id completed. Returns ErrNotFound on a miss.
func (s *Service) Check(ctx context.Context, id int) error {
	return s.setCompleted(ctx, id, true)
}

// Uncheck marks the todo with id active. Returns ErrNotFound on a miss.
func (s *Service) Uncheck(ctx context.Context, id int) error {
	return s.setCompleted(ctx, id, false)
}

func (s *Service) setCompleted(ctx context.Context, id int, completed bool) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	items := backend.CloneItems(doc.Items)
	if !SetCompleted(items, id, completed) {
		return ErrNotFound
	}
	return s.store.Save(ctx, &backend.Document{Items: items})
}

// Remove deletes the todo with id. Returns ErrNotFound on a miss.
func (s *Service) Remove(ctx context.Context, id int) error {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	items, removed := RemoveByID(doc.Items, id)
	if !removed {
		return ErrNotFound
	}
	return s.store.Save(ctx, &backend.Document{Items: items})
}

// Clear removes every todo (ClearAll) or only the completed ones (ClearCompleted).
// It returns how many todos were removed.
func (s *Service) Clear(ctx context.Context, mode ClearMode) (int, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}

	var items []backend.Todo
	if mode == ClearAll {
		items = []backend.Todo{}
	} else {
		items = RemoveCompleted(doc.Items)
	}

	if err := s.store.Save(ctx, &backend.Document{Items: items}); err != nil {
		return 0, err
	}
	return len(doc.Items) - len(items), nil
}

// Replace persists items as the whole document
func (s *Service) Replace(ctx context.Context, items []backend.Todo) error {
	return s.store.Save(ctx, &backend.Document{Items: backend.CloneItems(items)})
}

// Load returns the current document
func (s *Service) Load(ctx context.Context) (*backend.Document, error) {
	return s.store.Load(ctx)
}
