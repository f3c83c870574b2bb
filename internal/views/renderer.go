// Package views renders todos and status messages for a terminal.
package views

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"todo/backend"
	"todo/internal/utils"
)

// Indentation used by every output block
const (
	indent     = "  "
	checkMark  = "✓"
	itemIndent = "    "
)

// Renderer writes command output blocks to a writer.
// Each block is preceded and followed by exactly one blank line.
type Renderer struct {
	writer       io.Writer
	headingStyle lipgloss.Style
	markStyle    lipgloss.Style
}

// NewRenderer creates a renderer for writer.
// colorMode is one of auto, always or never; auto colors only terminals.
func NewRenderer(writer io.Writer, colorMode string) *Renderer {
	r := lipgloss.NewRenderer(writer)
	r.SetColorProfile(colorProfile(writer, colorMode))

	return &Renderer{
		writer:       writer,
		headingStyle: r.NewStyle().Foreground(lipgloss.Color("3")),
		markStyle:    r.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// colorProfile picks the termenv profile for a writer and color mode
func colorProfile(writer io.Writer, colorMode string) termenv.Profile {
	switch strings.ToLower(colorMode) {
	case utils.ColorAlways:
		return termenv.ANSI
	case utils.ColorNever:
		return termenv.Ascii
	}
	if IsTerminal(writer) {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Message renders a one-line status block
func (r *Renderer) Message(msg string) {
	_, _ = fmt.Fprintf(r.writer, "\n%s%s\n\n", indent, msg)
}

// List renders todos in order, or the empty-list message when there are none
func (r *Renderer) List(items []backend.Todo) {
	if len(items) == 0 {
		r.Message(MsgEmpty)
		return
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(indent + r.headingStyle.Render("Todos:") + "\n")
	b.WriteString("\n")
	for _, t := range items {
		b.WriteString(r.formatItem(t))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	_, _ = io.WriteString(r.writer, b.String())
}

// formatItem renders one todo line. Completed and active todos share the same
// prefix width so titles line up.
func (r *Renderer) formatItem(t backend.Todo) string {
	prefix := itemIndent + "  "
	if t.Completed {
		prefix = itemIndent + r.markStyle.Render(checkMark) + " "
	}
	return fmt.Sprintf("%s%s. %s", prefix, r.headingStyle.Render(fmt.Sprint(t.ID)), t.Title)
}

// JSON writes todos as a JSON array, one document per call
func (r *Renderer) JSON(items []backend.Todo) error {
	if items == nil {
		items = []backend.Todo{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
	return nil
}
