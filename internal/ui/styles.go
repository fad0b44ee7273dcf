package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6B7280") // Gray
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorDanger    = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#9CA3AF") // Light gray
)

// Text styles
var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Primary = lipgloss.NewStyle().Foreground(ColorPrimary)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Danger  = lipgloss.NewStyle().Foreground(ColorDanger)
)

// ID style for message and author ids
var ID = lipgloss.NewStyle().Foreground(ColorSecondary)

// AuthorName style for tree roots
var AuthorName = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Bold(true)

// TreeLine style for tree connectors
var TreeLine = lipgloss.NewStyle().Foreground(ColorMuted)

// RenderError formats a GraphQL error for the terminal: the message, then
// the field path and error code when present.
func RenderError(message, path, code string) string {
	var sb strings.Builder
	sb.WriteString(Danger.Render("error:"))
	sb.WriteString(" ")
	sb.WriteString(message)
	if path != "" {
		sb.WriteString(" ")
		sb.WriteString(Muted.Render("at " + path))
	}
	if code != "" {
		sb.WriteString(" ")
		sb.WriteString(Warning.Render("[" + code + "]"))
	}
	return sb.String()
}
