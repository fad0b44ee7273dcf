package search

import (
	"testing"

	"github.com/hmans/msgboard/internal/board"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func message(id, content, author string) *board.Message {
	return &board.Message{
		ID:      id,
		Content: &content,
		Author:  &board.Author{ID: "a-" + author, Name: author},
	}
}

func TestSearch(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.IndexMessages([]*board.Message{
		message("m1", "hello world", "Ada"),
		message("m2", "goodbye world", "Grace"),
		message("m3", "analytical engine notes", "Ada"),
	}); err != nil {
		t.Fatalf("IndexMessages() error = %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"single term", "hello", []string{"m1"}},
		{"shared term", "world", []string{"m1", "m2"}},
		{"author field", "author:grace", []string{"m2"}},
		{"wildcard", "analyt*", []string{"m3"}},
		{"no match", "zebra", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.Search(tt.query, 0)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
			wantSet := make(map[string]bool)
			for _, id := range tt.want {
				wantSet[id] = true
			}
			for _, id := range got {
				if !wantSet[id] {
					t.Errorf("Search(%q) returned unexpected id %q", tt.query, id)
				}
			}
		})
	}
}

func TestIndexMessageReplacesContent(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.IndexMessage(message("m1", "first draft", "Ada")); err != nil {
		t.Fatalf("IndexMessage() error = %v", err)
	}
	if err := idx.IndexMessage(message("m1", "final version", "Ada")); err != nil {
		t.Fatalf("IndexMessage() error = %v", err)
	}

	if got, _ := idx.Search("draft", 0); len(got) != 0 {
		t.Errorf("Search(draft) = %v, want no results", got)
	}
	if got, _ := idx.Search("final", 0); len(got) != 1 {
		t.Errorf("Search(final) = %v, want [m1]", got)
	}
	if n, err := idx.Count(); err != nil || n != 1 {
		t.Errorf("Count() = %d, %v; want 1", n, err)
	}
}

func TestSearchLimit(t *testing.T) {
	idx := newTestIndex(t)

	for _, id := range []string{"m1", "m2", "m3"} {
		if err := idx.IndexMessage(message(id, "same words", "Ada")); err != nil {
			t.Fatalf("IndexMessage() error = %v", err)
		}
	}

	got, err := idx.Search("same", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Search() count = %d, want 2", len(got))
	}
}

func TestIndexNilContent(t *testing.T) {
	idx := newTestIndex(t)

	m := &board.Message{ID: "m1", Author: &board.Author{ID: "a1", Name: "Ada"}}
	if err := idx.IndexMessage(m); err != nil {
		t.Fatalf("IndexMessage() error = %v", err)
	}
	if got, _ := idx.Search("ada", 0); len(got) != 1 {
		t.Errorf("Search(ada) = %v, want [m1]", got)
	}
}
