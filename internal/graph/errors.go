package graph

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/hmans/msgboard/internal/board"
)

// CodeNotFound is set as extensions.code on errors caused by a failed lookup.
const CodeNotFound = "NOT_FOUND"

// ErrorPresenter is the gqlgen error presenter for msgboard. It tags lookup
// failures with a NOT_FOUND code so clients need not match on messages.
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	gqlErr := graphql.DefaultErrorPresenter(ctx, err)
	if errors.Is(err, board.ErrNotFound) {
		if gqlErr.Extensions == nil {
			gqlErr.Extensions = map[string]any{}
		}
		gqlErr.Extensions["code"] = CodeNotFound
	}
	return gqlErr
}
