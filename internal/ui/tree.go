package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/msgboard/internal/board"
)

// AuthorNode is an author with their messages, oldest first.
type AuthorNode struct {
	Author   *board.Author
	Messages []*board.Message
}

// Tree characters
const (
	treeBranch     = "├─ "
	treeLastBranch = "└─ "
)

// maxContentWidth caps message content per line; longer content is truncated.
const maxContentWidth = 60

// RenderBoard renders authors as tree roots with their messages as leaves.
func RenderBoard(nodes []AuthorNode) string {
	if len(nodes) == 0 {
		return Muted.Render("No messages yet.") + "\n"
	}

	var sb strings.Builder
	for i, node := range nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		renderAuthor(&sb, node)
	}
	return sb.String()
}

func renderAuthor(sb *strings.Builder, node AuthorNode) {
	a := node.Author

	sb.WriteString(AuthorName.Render(a.Name))
	if details := authorDetails(a); details != "" {
		sb.WriteString(" ")
		sb.WriteString(Muted.Render("(" + details + ")"))
	}
	sb.WriteString("  ")
	sb.WriteString(ID.Render(a.ID))
	sb.WriteString("\n")

	idWidth := 0
	for _, m := range node.Messages {
		idWidth = max(idWidth, lipgloss.Width(m.ID))
	}
	idStyle := lipgloss.NewStyle().Width(idWidth + 2)

	for i, m := range node.Messages {
		connector := treeBranch
		if i == len(node.Messages)-1 {
			connector = treeLastBranch
		}
		sb.WriteString(TreeLine.Render(connector))
		sb.WriteString(idStyle.Render(ID.Render(m.ID)))
		sb.WriteString(renderContent(m.Content))
		sb.WriteString("\n")
	}
}

func authorDetails(a *board.Author) string {
	var parts []string
	if a.Age != nil {
		parts = append(parts, fmt.Sprintf("%d", *a.Age))
	}
	if a.Nationality != nil && *a.Nationality != "" {
		parts = append(parts, *a.Nationality)
	}
	return strings.Join(parts, ", ")
}

func renderContent(content *string) string {
	if content == nil {
		return Muted.Render("(no content)")
	}
	text := strings.Join(strings.Fields(*content), " ")
	if r := []rune(text); len(r) > maxContentWidth {
		text = string(r[:maxContentWidth-1]) + "…"
	}
	return text
}
