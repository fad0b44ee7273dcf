package ui

import (
	"strings"
	"testing"

	"github.com/hmans/msgboard/internal/board"
)

func TestRenderBoard(t *testing.T) {
	age := int32(36)
	nat := "British"
	hello := "hello   there"
	ada := &board.Author{ID: "a1", Name: "Ada", Age: &age, Nationality: &nat}

	out := RenderBoard([]AuthorNode{
		{
			Author: ada,
			Messages: []*board.Message{
				{ID: "m1", Content: &hello, Author: ada},
				{ID: "m2", Author: ada},
			},
		},
	})

	for _, want := range []string{"Ada", "(36, British)", "a1", "├─ ", "└─ ", "m1", "hello there", "(no content)"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderBoard() missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "m1") > strings.Index(out, "m2") {
		t.Error("messages rendered out of order")
	}
}

func TestRenderBoardEmpty(t *testing.T) {
	if out := RenderBoard(nil); !strings.Contains(out, "No messages yet.") {
		t.Errorf("RenderBoard(nil) = %q", out)
	}
}

func TestRenderContentTruncates(t *testing.T) {
	long := strings.Repeat("x", maxContentWidth+10)
	got := renderContent(&long)
	if n := len([]rune(got)); n != maxContentWidth {
		t.Errorf("len = %d, want %d", n, maxContentWidth)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("renderContent() = %q, want ellipsis", got)
	}
}

func TestRenderError(t *testing.T) {
	got := RenderError("no message exists with id x", "getMessage", "NOT_FOUND")
	for _, want := range []string{"error:", "no message exists with id x", "at getMessage", "[NOT_FOUND]"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderError() missing %q in %q", want, got)
		}
	}
}
