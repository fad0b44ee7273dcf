package server

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/hmans/msgboard/internal/config"
	"github.com/hmans/msgboard/internal/graph"
)

// NewGraphQLHandler builds the gqlgen server for the resolver.
func NewGraphQLHandler(cfg config.GraphQLConfig, res *graph.Resolver) *handler.Server {
	srv := handler.New(graph.NewExecutableSchema(graph.Config{Resolvers: res}))

	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.SetErrorPresenter(graph.ErrorPresenter)
	srv.SetRecoverFunc(recoverFunc)

	if cfg.Introspection {
		srv.Use(extension.Introspection{})
	}
	srv.Use(extension.AutomaticPersistedQuery{Cache: lru.New[string](100)})
	if cfg.ComplexityLimit > 0 {
		srv.Use(extension.FixedComplexityLimit(cfg.ComplexityLimit))
	}
	srv.Use(OperationLogger{})

	return srv
}

func recoverFunc(ctx context.Context, err any) error {
	zerolog.Ctx(ctx).Error().
		Interface("panic", err).
		Bytes("stack", debug.Stack()).
		Msg("resolver panic")
	return gqlerror.Errorf("internal system error")
}

// OperationLogger logs every GraphQL operation with its document and result,
// records it in the operation metrics and reports its run time in
// milliseconds as the runTime response extension.
type OperationLogger struct{}

var _ interface {
	graphql.HandlerExtension
	graphql.ResponseInterceptor
} = OperationLogger{}

func (OperationLogger) ExtensionName() string {
	return "OperationLogger"
}

func (OperationLogger) Validate(graphql.ExecutableSchema) error {
	return nil
}

func (OperationLogger) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	start := time.Now()
	resp := next(ctx)
	if resp == nil {
		return nil
	}
	elapsed := time.Since(start)

	opType, field := "unknown", "unknown"
	query := ""
	if graphql.HasOperationContext(ctx) {
		opCtx := graphql.GetOperationContext(ctx)
		query = compactQuery(opCtx.RawQuery)
		if op := opCtx.Operation; op != nil {
			opType = string(op.Operation)
			field = firstField(op.SelectionSet)
		}
	}

	outcome := "ok"
	if len(resp.Errors) > 0 {
		outcome = "error"
	}
	graphqlOperations.WithLabelValues(opType, field, outcome).Inc()
	graphqlDuration.WithLabelValues(opType).Observe(elapsed.Seconds())

	l := zerolog.Ctx(ctx)
	name := fmt.Sprintf("%s (%s)", opType, field)
	l.Info().Str("operation", name).Str("query", query).Msg("graphql request")
	ev := l.Debug().Str("operation", name)
	if len(resp.Data) > 0 {
		ev = ev.RawJSON("data", resp.Data)
	}
	if len(resp.Errors) > 0 {
		ev = ev.Str("errors", resp.Errors.Error())
	}
	ev.Msg("graphql response")

	if resp.Extensions == nil {
		resp.Extensions = map[string]any{}
	}
	resp.Extensions["runTime"] = elapsed.Milliseconds()

	return resp
}

// firstField names the first root field of an operation, looking through
// fragments.
func firstField(sels ast.SelectionSet) string {
	for _, sel := range sels {
		switch s := sel.(type) {
		case *ast.Field:
			return s.Name
		case *ast.InlineFragment:
			if name := firstField(s.SelectionSet); name != "" {
				return name
			}
		case *ast.FragmentSpread:
			if s.Definition != nil {
				if name := firstField(s.Definition.SelectionSet); name != "" {
					return name
				}
			}
		}
	}
	return ""
}

func compactQuery(q string) string {
	return strings.Join(strings.Fields(q), " ")
}
