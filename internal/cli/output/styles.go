package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used by text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	categories map[string]lipgloss.Style
}

// NewStyles builds styles bound to w. Colors are disabled when color is
// false or NO_COLOR is set.
func NewStyles(w io.Writer, color bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !color || termenv.EnvNoColor() {
		lr.SetColorProfile(termenv.Ascii)
	}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: lr.NewStyle().Bold(true),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("8")),
		Success: lr.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("9")),
		categories: map[string]lipgloss.Style{
			"type1":    lr.NewStyle().Foreground(lipgloss.Color("11")),
			"type2":    lr.NewStyle().Foreground(lipgloss.Color("13")),
			"readonly": lr.NewStyle().Foreground(lipgloss.Color("10")),
			"history":  lr.NewStyle().Foreground(lipgloss.Color("8")),
		},
	}
}

// Category returns the style for a table category label.
func (s *Styles) Category(name string) lipgloss.Style {
	if st, ok := s.categories[name]; ok {
		return st
	}
	return s.Muted
}
