package graph

import (
	"bytes"
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/vektah/gqlparser/v2/formatter"
)

// Execute runs a GraphQL document in-process, without an HTTP round trip.
// Parse and validation failures are reported in the response like any other error.
func Execute(ctx context.Context, es graphql.ExecutableSchema, query string, variables map[string]any, operationName string) *graphql.Response {
	exec := executor.New(es)
	exec.SetErrorPresenter(ErrorPresenter)
	exec.Use(extension.Introspection{})

	ctx = graphql.StartOperationTrace(ctx)
	params := &graphql.RawParams{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	}

	opCtx, errs := exec.CreateOperationContext(ctx, params)
	if errs != nil {
		return exec.DispatchError(graphql.WithOperationContext(ctx, opCtx), errs)
	}

	ctx = graphql.WithOperationContext(ctx, opCtx)
	handler, ctx := exec.DispatchOperation(ctx, opCtx)
	return handler(ctx)
}

// FormatSchema renders the schema of es as SDL.
func FormatSchema(es graphql.ExecutableSchema) string {
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(es.Schema())
	return buf.String()
}
