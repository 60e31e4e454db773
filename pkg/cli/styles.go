package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors used by the terminal output.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
	OK      lipgloss.Color
	Warn    lipgloss.Color
	Fail    lipgloss.Color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	OK:      lipgloss.Color("#3fb950"),
	Warn:    lipgloss.Color("#d29922"),
	Fail:    lipgloss.Color("#f85149"),
}

// Styles holds the styles derived from a theme.
type Styles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	Help  lipgloss.Style
	OK    lipgloss.Style
	Warn  lipgloss.Style
	Fail  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Label: lipgloss.NewStyle().Bold(true),
		Help:  lipgloss.NewStyle().Foreground(t.Dim),
		OK:    lipgloss.NewStyle().Foreground(t.OK),
		Warn:  lipgloss.NewStyle().Foreground(t.Warn),
		Fail:  lipgloss.NewStyle().Foreground(t.Fail),
	}
}

var DefaultStyles = NewStyles(DefaultTheme)

// Row is one line of a status table.
type Row struct {
	Name   string
	State  RowState
	Detail string
}

// RowState picks the marker and color of a Row.
type RowState int

const (
	RowPending RowState = iota
	RowOK
	RowSelected
	RowFailed
)

func (s RowState) String() string {
	switch s {
	case RowOK:
		return "ok"
	case RowSelected:
		return "selected"
	case RowFailed:
		return "failed"
	}
	return "-"
}

// RenderTable renders a title and aligned status rows.
func (st Styles) RenderTable(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Name))
	}

	var b strings.Builder
	b.WriteString(st.Title.Render(title))
	b.WriteByte('\n')
	for _, r := range rows {
		var marker lipgloss.Style
		switch r.State {
		case RowSelected:
			marker = st.OK.Bold(true)
		case RowOK:
			marker = st.OK
		case RowFailed:
			marker = st.Fail
		default:
			marker = st.Help
		}
		name := r.Name + strings.Repeat(" ", width-lipgloss.Width(r.Name))
		fmt.Fprintf(&b, "  %s  %s", st.Label.Render(name), marker.Render(fmt.Sprintf("%-8s", r.State)))
		if r.Detail != "" {
			b.WriteString("  " + st.Help.Render(r.Detail))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
