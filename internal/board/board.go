// Package board provides a thread-safe in-memory store for messages and their authors.
package board

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every lookup failure returned from the Store.
var ErrNotFound = errors.New("not found")

// Author is a message author. Authors are keyed by Name.
type Author struct {
	ID          string  `json:"id_author" yaml:"id_author"`
	Name        string  `json:"name" yaml:"name"`
	Age         *int32  `json:"age" yaml:"age"`
	Nationality *string `json:"nationality" yaml:"nationality"`
}

// Message is a single message. Author points at the shared author row.
type Message struct {
	ID      string  `json:"id_message" yaml:"id_message"`
	Content *string `json:"content" yaml:"content"`
	Author  *Author `json:"author" yaml:"author"`
}

// AuthorInput describes the author of a new message.
type AuthorInput struct {
	Name        string  `json:"name" yaml:"name"`
	Age         *int32  `json:"age,omitempty" yaml:"age,omitempty"`
	Nationality *string `json:"nationality,omitempty" yaml:"nationality,omitempty"`
}

// MessageInput describes a new message.
type MessageInput struct {
	Content *string     `json:"content,omitempty" yaml:"content,omitempty"`
	Author  AuthorInput `json:"author" yaml:"author"`
}

// NotFoundKind names what a failed lookup was looking for.
type NotFoundKind string

const (
	KindMessage        NotFoundKind = "message"
	KindAuthor         NotFoundKind = "author"
	KindAuthorMessages NotFoundKind = "messages"
)

// NotFoundError reports a lookup by id or name that matched nothing.
type NotFoundError struct {
	Kind NotFoundKind
	Key  string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case KindAuthor:
		return fmt.Sprintf("no author exists with name %s", e.Key)
	case KindAuthorMessages:
		return fmt.Sprintf("no messages exist for author with name %s", e.Key)
	default:
		return fmt.Sprintf("no message exists with id %s", e.Key)
	}
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
