package graph

import (
	"context"
	"errors"

	"github.com/hmans/msgboard/internal/board"
)

// ErrSearchDisabled is returned by searchMessages when no index is configured.
var ErrSearchDisabled = errors.New("search is disabled")

// CreateMessage is the resolver for the createMessage field.
func (r *mutationResolver) CreateMessage(ctx context.Context, input *board.MessageInput) (*board.Message, error) {
	if input == nil {
		return nil, errors.New("input is required")
	}
	return r.Store.CreateMessage(*input), nil
}

// UpdateMessage is the resolver for the updateMessage field.
func (r *mutationResolver) UpdateMessage(ctx context.Context, idMessage string, content *string) (*board.Message, error) {
	return r.Store.UpdateMessageContent(idMessage, content)
}

// GetMessage is the resolver for the getMessage field.
func (r *queryResolver) GetMessage(ctx context.Context, idMessage string) (*board.Message, error) {
	return r.Store.GetMessage(idMessage)
}

// ListMessages is the resolver for the listMessages field.
func (r *queryResolver) ListMessages(ctx context.Context, authorName string) ([]*board.Message, error) {
	return r.Store.ListMessagesByAuthorName(authorName)
}

// ListAuthors is the resolver for the listAuthors field.
func (r *queryResolver) ListAuthors(ctx context.Context) ([]*board.Author, error) {
	return r.Store.ListAuthors(), nil
}

// CountMessages is the resolver for the countMessages field.
func (r *queryResolver) CountMessages(ctx context.Context) (*int, error) {
	n := r.Store.CountMessages()
	return &n, nil
}

// CountAuthors is the resolver for the countAuthors field.
func (r *queryResolver) CountAuthors(ctx context.Context) (*int, error) {
	n := r.Store.CountAuthors()
	return &n, nil
}

// SearchMessages is the resolver for the searchMessages field.
func (r *queryResolver) SearchMessages(ctx context.Context, query string, limit *int) ([]*board.Message, error) {
	if r.Index == nil {
		return nil, ErrSearchDisabled
	}

	n := 0
	if limit != nil {
		n = *limit
	}
	ids, err := r.Index.Search(query, n)
	if err != nil {
		return nil, err
	}

	result := make([]*board.Message, 0, len(ids))
	for _, id := range ids {
		m, err := r.Store.GetMessage(id)
		if errors.Is(err, board.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
