// Package tui provides an interactive terminal view of the todo list.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"todo/backend"
	"todo/internal/todo"
)

// Mode indicates the current input mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAdd
)

// Model represents the browser state. It works on an in-memory copy of the
// items; the caller persists Items() when ShouldSave() reports true.
type Model struct {
	items  []backend.Todo
	cursor int
	dirty  bool
	saved  bool
	mode   Mode

	textInput textinput.Model
	keys      keyMap
	help      help.Model

	width int

	// Styles
	titleStyle     lipgloss.Style
	selectedStyle  lipgloss.Style
	completedStyle lipgloss.Style
	markStyle      lipgloss.Style
	statusStyle    lipgloss.Style
}

// New creates a new browser model over a copy of items
func New(items []backend.Todo) *Model {
	ti := textinput.New()
	ti.Placeholder = "New todo title..."
	ti.CharLimit = 256

	return &Model{
		items:     backend.CloneItems(items),
		textInput: ti,
		keys:      defaultKeyMap(),
		help:      help.New(),
		mode:      ModeNormal,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("3")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212")),
		completedStyle: lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("240")),
		markStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")),
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// Items returns the current items
func (m *Model) Items() []backend.Todo {
	return backend.CloneItems(m.items)
}

// ShouldSave reports whether the user quit with changes to keep
func (m *Model) ShouldSave() bool {
	return m.saved && m.dirty
}

// Init initializes the browser
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeAdd {
			return m.handleAddMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Quit):
		m.saved = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			todo.SetCompleted(m.items, t.ID, !t.Completed)
			m.dirty = true
		}

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			m.items, _ = todo.RemoveByID(m.items, t.ID)
			m.dirty = true
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.ClearDone):
		remaining := todo.RemoveCompleted(m.items)
		if len(remaining) != len(m.items) {
			m.items = remaining
			m.dirty = true
			m.clampCursor()
		}

	case key.Matches(msg, m.keys.Add):
		m.mode = ModeAdd
		m.textInput.Reset()
		m.textInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyEnter:
		if title := strings.TrimSpace(m.textInput.Value()); title != "" {
			m.items, _ = todo.Append(m.items, title)
			m.cursor = len(m.items) - 1
			m.dirty = true
		}
		m.mode = ModeNormal
		m.textInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.mode = ModeNormal
		m.textInput.Blur()
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *Model) selected() (backend.Todo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return backend.Todo{}, false
	}
	return m.items[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Todos"))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString("  Your todo list is empty\n")
	}
	for i, t := range m.items {
		b.WriteString(m.renderItem(i, t))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.mode == ModeAdd {
		b.WriteString("Add: " + m.textInput.View() + "\n")
		b.WriteString(m.statusStyle.Render("enter: confirm  esc: cancel"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.statusStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderItem(i int, t backend.Todo) string {
	cursor := " "
	if i == m.cursor {
		cursor = ">"
	}

	mark := " "
	title := t.Title
	if t.Completed {
		mark = m.markStyle.Render("✓")
		title = m.completedStyle.Render(title)
	} else if i == m.cursor {
		title = m.selectedStyle.Render(title)
	}

	return fmt.Sprintf("%s %s %d. %s", cursor, mark, t.ID, title)
}

func (m *Model) status() string {
	active := len(todo.FilterActive(m.items))
	s := fmt.Sprintf("%d todos, %d active", len(m.items), active)
	if m.dirty {
		s += " (unsaved)"
	}
	return s
}
