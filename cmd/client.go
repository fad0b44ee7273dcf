package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql"

	"github.com/hmans/msgboard/internal/graph"
)

// DefaultEndpoint is where query looks for a running server.
const DefaultEndpoint = "http://localhost:4000/graphql"

// runner executes GraphQL documents, either in-process or against a server.
type runner interface {
	Run(ctx context.Context, query string, variables map[string]any, operationName string) (*graphql.Response, error)
}

type localRunner struct {
	es graphql.ExecutableSchema
}

func newLocalRunner(res *graph.Resolver) *localRunner {
	return &localRunner{es: graph.NewExecutableSchema(graph.Config{Resolvers: res})}
}

func (r *localRunner) Run(ctx context.Context, query string, variables map[string]any, operationName string) (*graphql.Response, error) {
	return graph.Execute(ctx, r.es, query, variables, operationName), nil
}

type remoteRunner struct {
	endpoint string
	client   *http.Client
}

func newRemoteRunner(endpoint string) *remoteRunner {
	return &remoteRunner{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *remoteRunner) Run(ctx context.Context, query string, variables map[string]any, operationName string) (*graphql.Response, error) {
	body, err := json.Marshal(graphql.RawParams{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting %s: %w", r.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// Validation failures come back as 4xx with a regular GraphQL body.
	var out graphql.Response
	err = json.Unmarshal(data, &out)
	if err != nil || (out.Data == nil && len(out.Errors) == 0 && resp.StatusCode != http.StatusOK) {
		return nil, fmt.Errorf("unexpected response from %s (HTTP %d): %s", r.endpoint, resp.StatusCode, bytes.TrimSpace(data))
	}
	return &out, nil
}
