package graph

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/99designs/gqlgen/client"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/transport"

	"github.com/hmans/msgboard/internal/board"
)

type gqlErrors []struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path"`
	Extensions map[string]any `json:"extensions"`
}

func newTestClient(t *testing.T, root ResolverRoot, introspection bool) *client.Client {
	t.Helper()
	srv := handler.New(NewExecutableSchema(Config{Resolvers: root}))
	srv.AddTransport(transport.POST{})
	srv.SetErrorPresenter(ErrorPresenter)
	if introspection {
		srv.Use(extension.Introspection{})
	}
	return client.New(srv)
}

func decodeErrors(t *testing.T, raw json.RawMessage) gqlErrors {
	t.Helper()
	var errs gqlErrors
	if len(raw) == 0 {
		return errs
	}
	if err := json.Unmarshal(raw, &errs); err != nil {
		t.Fatalf("failed to decode errors %s: %v", raw, err)
	}
	return errs
}

type messageResp struct {
	IDMessage string  `json:"id_message"`
	Content   *string `json:"content"`
	Author    struct {
		IDAuthor    string  `json:"id_author"`
		Name        string  `json:"name"`
		Age         *int    `json:"age"`
		Nationality *string `json:"nationality"`
	} `json:"author"`
}

const messageFields = `id_message content author { id_author name age nationality }`

func TestMessageBoardFlow(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	c := newTestClient(t, resolver, true)

	createMutation := `mutation($input: MessageInput) { createMessage(input: $input) { ` + messageFields + ` } }`

	var first struct{ CreateMessage messageResp }
	c.MustPost(createMutation, &first, client.Var("input", map[string]any{
		"content": "hi",
		"author":  map[string]any{"name": "Ada", "age": 36},
	}))
	if first.CreateMessage.IDMessage == "" {
		t.Fatal("createMessage returned empty id_message")
	}
	if first.CreateMessage.Author.Name != "Ada" {
		t.Errorf("author.name = %q, want Ada", first.CreateMessage.Author.Name)
	}
	if a := first.CreateMessage.Author.Age; a == nil || *a != 36 {
		t.Errorf("author.age = %v, want 36", a)
	}

	var second struct{ CreateMessage messageResp }
	c.MustPost(createMutation, &second, client.Var("input", map[string]any{
		"content": "again",
		"author":  map[string]any{"name": "Ada", "age": 99},
	}))
	if second.CreateMessage.Author.IDAuthor != first.CreateMessage.Author.IDAuthor {
		t.Errorf("second message got a new author %q, want %q",
			second.CreateMessage.Author.IDAuthor, first.CreateMessage.Author.IDAuthor)
	}
	if a := second.CreateMessage.Author.Age; a == nil || *a != 36 {
		t.Errorf("author.age = %v, want 36 (first write wins)", a)
	}

	var list struct {
		ListMessages  []messageResp
		CountAuthors  int
		CountMessages int
	}
	c.MustPost(`{ listMessages(author_name: "Ada") { `+messageFields+` } countAuthors countMessages }`, &list)
	if len(list.ListMessages) != 2 {
		t.Fatalf("listMessages count = %d, want 2", len(list.ListMessages))
	}
	if list.ListMessages[0].IDMessage != first.CreateMessage.IDMessage {
		t.Errorf("listMessages[0] = %q, want %q", list.ListMessages[0].IDMessage, first.CreateMessage.IDMessage)
	}
	if list.CountAuthors != 1 || list.CountMessages != 2 {
		t.Errorf("counts = %d authors, %d messages, want 1, 2", list.CountAuthors, list.CountMessages)
	}

	var updated struct{ UpdateMessage messageResp }
	c.MustPost(`mutation($id: ID!) { updateMessage(id_message: $id, content: "bye") { `+messageFields+` } }`,
		&updated, client.Var("id", first.CreateMessage.IDMessage))
	if updated.UpdateMessage.Content == nil || *updated.UpdateMessage.Content != "bye" {
		t.Errorf("updateMessage content = %v, want bye", updated.UpdateMessage.Content)
	}

	var got struct{ GetMessage messageResp }
	c.MustPost(`query($id: ID!) { getMessage(id_message: $id) { `+messageFields+` } }`,
		&got, client.Var("id", first.CreateMessage.IDMessage))
	if got.GetMessage.Content == nil || *got.GetMessage.Content != "bye" {
		t.Errorf("getMessage content = %v, want bye", got.GetMessage.Content)
	}
	if got.GetMessage.Author.IDAuthor != first.CreateMessage.Author.IDAuthor {
		t.Errorf("getMessage author = %q, want %q", got.GetMessage.Author.IDAuthor, first.CreateMessage.Author.IDAuthor)
	}
}

func TestNotFoundErrors(t *testing.T) {
	resolver, store := setupTestResolver(t)
	createTestMessage(t, store, "Ada", "hello")
	c := newTestClient(t, resolver, true)

	tests := []struct {
		name    string
		query   string
		field   string
		message string
	}{
		{
			name:    "getMessage",
			query:   `{ getMessage(id_message: "nope") { id_message } }`,
			field:   "getMessage",
			message: "no message exists with id nope",
		},
		{
			name:    "updateMessage",
			query:   `mutation { updateMessage(id_message: "nope", content: "x") { id_message } }`,
			field:   "updateMessage",
			message: "no message exists with id nope",
		},
		{
			name:    "listMessages",
			query:   `{ listMessages(author_name: "Nobody") { id_message } }`,
			field:   "listMessages",
			message: "no author exists with name Nobody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.RawPost(tt.query)
			if err != nil {
				t.Fatalf("RawPost() error = %v", err)
			}

			data, ok := resp.Data.(map[string]any)
			if !ok {
				t.Fatalf("data = %#v, want object", resp.Data)
			}
			if v, present := data[tt.field]; !present || v != nil {
				t.Errorf("data.%s = %#v, want null", tt.field, v)
			}

			errs := decodeErrors(t, resp.Errors)
			if len(errs) != 1 {
				t.Fatalf("errors = %+v, want exactly one", errs)
			}
			if errs[0].Message != tt.message {
				t.Errorf("message = %q, want %q", errs[0].Message, tt.message)
			}
			if len(errs[0].Path) != 1 || errs[0].Path[0] != tt.field {
				t.Errorf("path = %v, want [%s]", errs[0].Path, tt.field)
			}
			if errs[0].Extensions["code"] != CodeNotFound {
				t.Errorf("extensions.code = %v, want %s", errs[0].Extensions["code"], CodeNotFound)
			}
		})
	}
}

func TestErrorDoesNotAffectSiblings(t *testing.T) {
	resolver, store := setupTestResolver(t)
	createTestMessage(t, store, "Ada", "hello")
	c := newTestClient(t, resolver, true)

	resp, err := c.RawPost(`{ getMessage(id_message: "nope") { id_message } countMessages }`)
	if err != nil {
		t.Fatalf("RawPost() error = %v", err)
	}
	data := resp.Data.(map[string]any)
	if data["countMessages"] != float64(1) {
		t.Errorf("countMessages = %v, want 1", data["countMessages"])
	}
	if errs := decodeErrors(t, resp.Errors); len(errs) != 1 {
		t.Errorf("errors = %+v, want one", errs)
	}
}

func TestAliasesFragmentsAndTypename(t *testing.T) {
	resolver, store := setupTestResolver(t)
	m := createTestMessage(t, store, "Ada", "hello")
	c := newTestClient(t, resolver, true)

	var resp struct {
		Mine struct {
			Typename string `json:"__typename"`
			ID       string `json:"id"`
			Author   struct {
				Typename string `json:"__typename"`
				Name     string `json:"name"`
			} `json:"author"`
		} `json:"mine"`
		Total int `json:"total"`
	}
	c.MustPost(`
		query($id: ID!, $withAuthor: Boolean!) {
			mine: getMessage(id_message: $id) {
				__typename
				...MessageParts
				author @include(if: $withAuthor) { __typename name }
			}
			total: countMessages
		}
		fragment MessageParts on Message { id: id_message }
	`, &resp, client.Var("id", m.ID), client.Var("withAuthor", true))

	if resp.Mine.Typename != "Message" {
		t.Errorf("__typename = %q, want Message", resp.Mine.Typename)
	}
	if resp.Mine.ID != m.ID {
		t.Errorf("id = %q, want %q", resp.Mine.ID, m.ID)
	}
	if resp.Mine.Author.Typename != "Author" || resp.Mine.Author.Name != "Ada" {
		t.Errorf("author = %+v, want Author Ada", resp.Mine.Author)
	}
	if resp.Total != 1 {
		t.Errorf("total = %d, want 1", resp.Total)
	}
}

func TestResponseKeepsSelectionOrder(t *testing.T) {
	resolver, store := setupTestResolver(t)
	createTestMessage(t, store, "Ada", "hello")
	es := NewExecutableSchema(Config{Resolvers: resolver})

	resp := Execute(context.Background(), es, `{ countMessages countAuthors listAuthors { name id: id_author } }`, nil, "")
	if len(resp.Errors) > 0 {
		t.Fatalf("Execute() errors = %v", resp.Errors)
	}

	got := string(resp.Data)
	if !strings.HasPrefix(got, `{"countMessages":1,"countAuthors":1,"listAuthors":[{"name":"Ada","id":"`) {
		t.Errorf("data = %s", got)
	}
}

// brokenRoot returns messages without an author to exercise non-null handling.
type brokenRoot struct {
	*Resolver
	panicking bool
}

func (r *brokenRoot) Query() QueryResolver { return &brokenQuery{queryResolver{r.Resolver}, r.panicking} }

type brokenQuery struct {
	queryResolver
	panicking bool
}

func (q *brokenQuery) GetMessage(ctx context.Context, id string) (*board.Message, error) {
	if q.panicking {
		panic("boom")
	}
	return &board.Message{ID: id}, nil
}

func (q *brokenQuery) ListMessages(ctx context.Context, authorName string) ([]*board.Message, error) {
	return []*board.Message{
		{ID: "a", Author: &board.Author{ID: "x", Name: authorName}},
		{ID: "b"},
	}, nil
}

func TestNonNullPropagation(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	c := newTestClient(t, &brokenRoot{Resolver: resolver}, true)

	t.Run("object field", func(t *testing.T) {
		resp, err := c.RawPost(`{ getMessage(id_message: "m") { id_message author { name } } countMessages }`)
		if err != nil {
			t.Fatalf("RawPost() error = %v", err)
		}
		data := resp.Data.(map[string]any)
		if data["getMessage"] != nil {
			t.Errorf("getMessage = %#v, want null", data["getMessage"])
		}
		if data["countMessages"] != float64(0) {
			t.Errorf("countMessages = %v, want 0", data["countMessages"])
		}

		errs := decodeErrors(t, resp.Errors)
		if len(errs) != 1 {
			t.Fatalf("errors = %+v, want one", errs)
		}
		if errs[0].Message != "the requested element is null which the schema does not allow" {
			t.Errorf("message = %q", errs[0].Message)
		}
		if len(errs[0].Path) != 2 || errs[0].Path[0] != "getMessage" || errs[0].Path[1] != "author" {
			t.Errorf("path = %v, want [getMessage author]", errs[0].Path)
		}
	})

	t.Run("list item", func(t *testing.T) {
		resp, err := c.RawPost(`{ listMessages(author_name: "Ada") { id_message author { name } } }`)
		if err != nil {
			t.Fatalf("RawPost() error = %v", err)
		}
		list, ok := resp.Data.(map[string]any)["listMessages"].([]any)
		if !ok || len(list) != 2 {
			t.Fatalf("listMessages = %#v, want two items", resp.Data)
		}
		if list[0] == nil {
			t.Error("listMessages[0] = null, want object")
		}
		if list[1] != nil {
			t.Errorf("listMessages[1] = %#v, want null", list[1])
		}

		errs := decodeErrors(t, resp.Errors)
		if len(errs) != 1 || len(errs[0].Path) != 3 || errs[0].Path[1] != float64(1) {
			t.Errorf("errors = %+v, want one at [listMessages 1 author]", errs)
		}
	})
}

func TestResolverPanicIsRecovered(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	c := newTestClient(t, &brokenRoot{Resolver: resolver, panicking: true}, true)

	resp, err := c.RawPost(`{ getMessage(id_message: "m") { id_message } countAuthors }`)
	if err != nil {
		t.Fatalf("RawPost() error = %v", err)
	}
	data := resp.Data.(map[string]any)
	if data["getMessage"] != nil {
		t.Errorf("getMessage = %#v, want null", data["getMessage"])
	}
	if data["countAuthors"] != float64(0) {
		t.Errorf("countAuthors = %v, want 0", data["countAuthors"])
	}
	if errs := decodeErrors(t, resp.Errors); len(errs) != 1 {
		t.Errorf("errors = %+v, want one", errs)
	}
}

func TestSearchThroughSchema(t *testing.T) {
	resolver, store := setupTestResolverWithIndex(t)
	m := createTestMessage(t, store, "Ada", "the analytical engine")
	createTestMessage(t, store, "Grace", "compilers")
	c := newTestClient(t, resolver, true)

	var resp struct {
		SearchMessages []struct {
			IDMessage string `json:"id_message"`
		}
	}
	c.MustPost(`{ searchMessages(query: "author:ada", limit: 10) { id_message } }`, &resp)
	if len(resp.SearchMessages) != 1 || resp.SearchMessages[0].IDMessage != m.ID {
		t.Errorf("searchMessages = %+v, want [%s]", resp.SearchMessages, m.ID)
	}
}

func TestIntrospection(t *testing.T) {
	resolver, _ := setupTestResolver(t)

	t.Run("enabled", func(t *testing.T) {
		c := newTestClient(t, resolver, true)

		var resp struct {
			Schema struct {
				QueryType    struct{ Name string }
				MutationType struct{ Name string }
			} `json:"__schema"`
			Type struct {
				Kind   string
				Fields []struct {
					Name string
					Type struct {
						Kind   string
						Name   *string
						OfType *struct{ Name string }
					}
				}
			} `json:"__type"`
		}
		c.MustPost(`{
			__schema { queryType { name } mutationType { name } }
			__type(name: "Message") { kind fields { name type { kind name ofType { name } } } }
		}`, &resp)

		if resp.Schema.QueryType.Name != "Query" || resp.Schema.MutationType.Name != "Mutation" {
			t.Errorf("root types = %+v", resp.Schema)
		}
		if resp.Type.Kind != "OBJECT" {
			t.Errorf("Message kind = %q, want OBJECT", resp.Type.Kind)
		}
		if len(resp.Type.Fields) != 3 {
			t.Fatalf("Message fields = %+v, want 3", resp.Type.Fields)
		}
		author := resp.Type.Fields[2]
		if author.Name != "author" || author.Type.Kind != "NON_NULL" || author.Type.OfType == nil || author.Type.OfType.Name != "Author" {
			t.Errorf("author field = %+v, want NON_NULL of Author", author)
		}
		content := resp.Type.Fields[1]
		if content.Type.Kind != "SCALAR" || content.Type.Name == nil || *content.Type.Name != "String" {
			t.Errorf("content field = %+v, want String scalar", content)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		c := newTestClient(t, resolver, true)
		resp, err := c.RawPost(`{ __type(name: "Nope") { name } }`)
		if err != nil {
			t.Fatalf("RawPost() error = %v", err)
		}
		if v := resp.Data.(map[string]any)["__type"]; v != nil {
			t.Errorf("__type = %#v, want null", v)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		c := newTestClient(t, resolver, false)
		resp, err := c.RawPost(`{ __schema { queryType { name } } }`)
		if err != nil {
			t.Fatalf("RawPost() error = %v", err)
		}
		errs := decodeErrors(t, resp.Errors)
		if len(errs) != 1 || errs[0].Message != "introspection disabled" {
			t.Errorf("errors = %+v, want introspection disabled", errs)
		}
	})
}

func TestExecute(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	es := NewExecutableSchema(Config{Resolvers: resolver})
	ctx := context.Background()

	t.Run("mutation with variables", func(t *testing.T) {
		resp := Execute(ctx, es,
			`mutation Create($name: String!) { createMessage(input: { content: "hi", author: { name: $name } }) { author { name } } }`,
			map[string]any{"name": "Ada"}, "Create")
		if len(resp.Errors) > 0 {
			t.Fatalf("Execute() errors = %v", resp.Errors)
		}
		if string(resp.Data) != `{"createMessage":{"author":{"name":"Ada"}}}` {
			t.Errorf("data = %s", resp.Data)
		}
	})

	t.Run("validation error", func(t *testing.T) {
		resp := Execute(ctx, es, `{ nope }`, nil, "")
		if len(resp.Errors) == 0 {
			t.Fatal("Execute() expected validation error")
		}
		if !strings.Contains(resp.Errors[0].Message, "nope") {
			t.Errorf("error = %q, want mention of the unknown field", resp.Errors[0].Message)
		}
	})

	t.Run("not found code", func(t *testing.T) {
		resp := Execute(ctx, es, `{ getMessage(id_message: "x") { id_message } }`, nil, "")
		if len(resp.Errors) != 1 {
			t.Fatalf("errors = %v, want one", resp.Errors)
		}
		if resp.Errors[0].Extensions["code"] != CodeNotFound {
			t.Errorf("extensions = %v, want code %s", resp.Errors[0].Extensions, CodeNotFound)
		}
	})
}

func TestAgeOutsideInt32Range(t *testing.T) {
	resolver, store := setupTestResolver(t)
	es := NewExecutableSchema(Config{Resolvers: resolver})
	ctx := context.Background()

	tests := []struct {
		name      string
		query     string
		variables map[string]any
	}{
		{
			name:  "literal",
			query: `mutation { createMessage(input: { author: { name: "Ada", age: 9999999999 } }) { author { age } } }`,
		},
		{
			name:  "variable",
			query: `mutation($input: MessageInput) { createMessage(input: $input) { author { age } } }`,
			variables: map[string]any{
				"input": map[string]any{"author": map[string]any{"name": "Ada", "age": json.Number("9999999999")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Execute(ctx, es, tt.query, tt.variables, "")
			if len(resp.Errors) != 1 {
				t.Fatalf("errors = %v, want one", resp.Errors)
			}
			if !strings.Contains(resp.Errors[0].Message, "overflows signed 32-bit integer") {
				t.Errorf("error = %q, want 32-bit overflow", resp.Errors[0].Message)
			}
			if string(resp.Data) != `{"createMessage":null}` {
				t.Errorf("data = %s, want null createMessage", resp.Data)
			}
		})
	}

	if n := store.CountMessages(); n != 0 {
		t.Errorf("CountMessages() = %d, want 0", n)
	}

	t.Run("largest int32 is accepted", func(t *testing.T) {
		resp := Execute(ctx, es,
			`mutation { createMessage(input: { author: { name: "Grace", age: 2147483647 } }) { author { age } } }`, nil, "")
		if len(resp.Errors) > 0 {
			t.Fatalf("Execute() errors = %v", resp.Errors)
		}
		if string(resp.Data) != `{"createMessage":{"author":{"age":2147483647}}}` {
			t.Errorf("data = %s", resp.Data)
		}
	})
}

func TestFormatSchema(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	sdl := FormatSchema(NewExecutableSchema(Config{Resolvers: resolver}))

	for _, want := range []string{"type Message", "createMessage(input: MessageInput): Message", "searchMessages"} {
		if !strings.Contains(sdl, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
