// Package todo holds the operations over a todo collection and the commands
// that load, transform and persist it.
package todo

import (
	"todo/backend"
)

// Filter selects which todos a listing shows
type Filter int

const (
	ShowAll Filter = iota
	ShowActive
	ShowCompleted
)

// String returns the filter name
func (f Filter) String() string {
	switch f {
	case ShowActive:
		return "active"
	case ShowCompleted:
		return "completed"
	default:
		return "all"
	}
}

// NextID returns the id for a new todo: one past the highest id, or 1 when empty.
func NextID(items []backend.Todo) int {
	maxID := 0
	for _, t := range items {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// FilterActive returns the todos that are not completed, preserving order
func FilterActive(items []backend.Todo) []backend.Todo {
	return selectItems(items, func(t backend.Todo) bool { return !t.Completed })
}

// FilterCompleted returns the completed todos, preserving order
func FilterCompleted(items []backend.Todo) []backend.Todo {
	return selectItems(items, func(t backend.Todo) bool { return t.Completed })
}

// FilterItems applies f to items
func FilterItems(items []backend.Todo, f Filter) []backend.Todo {
	switch f {
	case ShowActive:
		return FilterActive(items)
	case ShowCompleted:
		return FilterCompleted(items)
	default:
		return backend.CloneItems(items)
	}
}

func selectItems(items []backend.Todo, keep func(backend.Todo) bool) []backend.Todo {
	out := make([]backend.Todo, 0, len(items))
	for _, t := range items {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// FindByID returns the index of the first todo with id
func FindByID(items []backend.Todo, id int) (int, bool) {
	for i, t := range items {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// RemoveByID returns a new sequence without the todo with id.
// The boolean reports whether a todo was removed; on a miss the copy equals the input.
func RemoveByID(items []backend.Todo, id int) ([]backend.Todo, bool) {
	idx, found := FindByID(items, id)
	if !found {
		return backend.CloneItems(items), false
	}
	out := make([]backend.Todo, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}

// RemoveCompleted returns the sequence with every completed todo dropped
func RemoveCompleted(items []backend.Todo) []backend.Todo {
	return FilterActive(items)
}

// Append returns a new sequence with an active todo titled title at the end
func Append(items []backend.Todo, title string) ([]backend.Todo, backend.Todo) {
	t := backend.Todo{ID: NextID(items), Title: title}
	out := make([]backend.Todo, 0, len(items)+1)
	out = append(out, items...)
	return append(out, t), t
}

// SetCompleted updates the completed flag of the todo with id in place
func SetCompleted(items []backend.Todo, id int, completed bool) bool {
	idx, found := FindByID(items, id)
	if !found {
		return false
	}
	items[idx].Completed = completed
	return true
}
