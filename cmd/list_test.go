package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/hmans/msgboard/internal/ui"
)

func TestFetchBoard(t *testing.T) {
	setupTestConfig(t)
	res, err := newResolver(writeSeed(t))
	if err != nil {
		t.Fatalf("newResolver() error = %v", err)
	}

	nodes, err := fetchBoard(context.Background(), newLocalRunner(res))
	if err != nil {
		t.Fatalf("fetchBoard() error = %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("fetchBoard() authors = %d, want 2", len(nodes))
	}
	if nodes[0].Author.Name != "Ada" || len(nodes[0].Messages) != 2 {
		t.Errorf("nodes[0] = %s with %d messages, want Ada with 2", nodes[0].Author.Name, len(nodes[0].Messages))
	}
	if age := nodes[0].Author.Age; age == nil || *age != 36 {
		t.Errorf("Ada's age = %v, want 36", age)
	}
	if nodes[1].Author.Name != "Grace" || len(nodes[1].Messages) != 1 {
		t.Errorf("nodes[1] = %s with %d messages, want Grace with 1", nodes[1].Author.Name, len(nodes[1].Messages))
	}

	out := ui.RenderBoard(nodes)
	for _, want := range []string{"Ada", "hello world", "second", "Grace", "compilers"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered board missing %q", want)
		}
	}
}

func TestFetchBoardEmpty(t *testing.T) {
	setupTestConfig(t)
	res, err := newResolver("")
	if err != nil {
		t.Fatalf("newResolver() error = %v", err)
	}

	nodes, err := fetchBoard(context.Background(), newLocalRunner(res))
	if err != nil {
		t.Fatalf("fetchBoard() error = %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("fetchBoard() = %d authors, want 0", len(nodes))
	}
}

func TestGetGraphQLSchema(t *testing.T) {
	sdl := GetGraphQLSchema()
	for _, want := range []string{"type Author", "type Message", "input MessageInput", "listMessages(author_name: String!): [Message]"} {
		if !strings.Contains(sdl, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
