package graph

import (
	"github.com/hmans/msgboard/internal/board"
	"github.com/hmans/msgboard/internal/search"
)

//go:generate go tool gqlgen generate

// Resolver is the root resolver for the GraphQL schema.
// It holds the message store and the optional search index.
type Resolver struct {
	Store *board.Store
	Index *search.Index // nil when search is disabled
}
