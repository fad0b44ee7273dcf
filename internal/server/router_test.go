package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hmans/msgboard/internal/board"
	"github.com/hmans/msgboard/internal/config"
	"github.com/hmans/msgboard/internal/graph"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.GinMode = "test"
	return cfg
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *board.Store) {
	t.Helper()
	store := board.New()
	return NewRouter(cfg, &graph.Resolver{Store: store}), store
}

func postGraphQL(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, GraphQLPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type graphQLResponse struct {
	Data       map[string]any   `json:"data"`
	Errors     []map[string]any `json:"errors"`
	Extensions map[string]any   `json:"extensions"`
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) graphQLResponse {
	t.Helper()
	var resp graphQLResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /health -> %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGraphQLEndpoint(t *testing.T) {
	h, store := newTestRouter(t, testConfig())

	w := postGraphQL(t, h, `{"query":"mutation { createMessage(input: {content: \"hi\", author: {name: \"Ada\"}}) { id_message author { name } } }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /graphql -> %d: %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if len(resp.Errors) > 0 {
		t.Fatalf("errors = %v", resp.Errors)
	}
	created, ok := resp.Data["createMessage"].(map[string]any)
	if !ok || created["id_message"] == "" {
		t.Fatalf("createMessage = %#v", resp.Data["createMessage"])
	}
	if _, ok := resp.Extensions["runTime"]; !ok {
		t.Errorf("extensions = %v, want runTime", resp.Extensions)
	}
	if store.CountMessages() != 1 {
		t.Errorf("CountMessages() = %d, want 1", store.CountMessages())
	}

	// Request ids are echoed back.
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGraphQLNotFoundError(t *testing.T) {
	h, _ := newTestRouter(t, testConfig())

	w := postGraphQL(t, h, `{"query":"{ getMessage(id_message: \"nope\") { id_message } }"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /graphql -> %d", w.Code)
	}
	resp := decodeResponse(t, w)
	if len(resp.Errors) != 1 {
		t.Fatalf("errors = %v, want one", resp.Errors)
	}
	if resp.Errors[0]["message"] != "no message exists with id nope" {
		t.Errorf("message = %v", resp.Errors[0]["message"])
	}
	ext, _ := resp.Errors[0]["extensions"].(map[string]any)
	if ext["code"] != graph.CodeNotFound {
		t.Errorf("extensions = %v, want code %s", ext, graph.CodeNotFound)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	h, _ := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestPlayground(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		h, _ := newTestRouter(t, testConfig())

		req := httptest.NewRequest(http.MethodGet, GraphQLPath, nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GET /graphql -> %d", w.Code)
		}
		if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
			t.Errorf("Content-Type = %q, want text/html", w.Header().Get("Content-Type"))
		}
	})

	t.Run("disabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.GraphQL.Playground = false
		h, _ := newTestRouter(t, cfg)

		req := httptest.NewRequest(http.MethodGet, GraphQLPath+"?query={countMessages}", nil)
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if strings.Contains(w.Header().Get("Content-Type"), "text/html") {
			t.Error("playground served while disabled")
		}
		resp := decodeResponse(t, w)
		if resp.Data["countMessages"] != float64(0) {
			t.Errorf("countMessages = %v, want 0", resp.Data["countMessages"])
		}
	})
}

func TestIntrospectionToggle(t *testing.T) {
	cfg := testConfig()
	cfg.GraphQL.Introspection = false
	h, _ := newTestRouter(t, cfg)

	w := postGraphQL(t, h, `{"query":"{ __schema { queryType { name } } }"}`)
	resp := decodeResponse(t, w)
	if len(resp.Errors) == 0 {
		t.Fatal("expected introspection to be rejected")
	}
}

func TestComplexityLimit(t *testing.T) {
	cfg := testConfig()
	cfg.GraphQL.ComplexityLimit = 2
	h, _ := newTestRouter(t, cfg)

	w := postGraphQL(t, h, `{"query":"{ listAuthors { id_author name age nationality } }"}`)
	resp := decodeResponse(t, w)
	if len(resp.Errors) == 0 {
		t.Fatalf("expected complexity error, got %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h, store := newTestRouter(t, testConfig())
	store.CreateMessage(board.MessageInput{Author: board.AuthorInput{Name: "Ada"}})

	before := testutil.ToFloat64(graphqlOperations.WithLabelValues("query", "countMessages", "ok"))
	postGraphQL(t, h, `{"query":"{ countMessages }"}`)
	if got := testutil.ToFloat64(graphqlOperations.WithLabelValues("query", "countMessages", "ok")); got != before+1 {
		t.Errorf("graphql_operations_total = %v, want %v", got, before+1)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics -> %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"msgboard_messages 1", "msgboard_authors 1", "http_requests_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RPS = 0.001
	cfg.RateLimit.Burst = 2
	h, _ := newTestRouter(t, cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}

func TestUnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("GET /nope -> %d, want 404", w.Code)
	}
}
