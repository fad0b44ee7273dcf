package board

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Indexer is notified whenever a message is created or its content changes.
type Indexer interface {
	IndexMessage(m *Message) error
}

// Option configures a Store.
type Option func(*Store)

// WithIDLength sets the number of hex characters in generated ids.
func WithIDLength(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.idLength = n
		}
	}
}

// WithIndexer registers an Indexer that receives every created or updated message.
func WithIndexer(idx Indexer) Option {
	return func(s *Store) {
		s.indexer = idx
	}
}

// WithLogger sets the logger used to report indexing failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// Store holds messages, authors and the author -> messages index.
type Store struct {
	idLength int
	indexer  Indexer
	log      zerolog.Logger

	mu             sync.RWMutex
	messages       map[string]*Message // id_message -> Message
	authors        map[string]*Author  // name -> Author
	authorMessages map[string][]string // id_author -> id_message, creation order
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		idLength:       DefaultIDLength,
		log:            zerolog.Nop(),
		messages:       make(map[string]*Message),
		authors:        make(map[string]*Author),
		authorMessages: make(map[string][]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindOrCreateAuthor returns the author with in.Name, creating it if needed.
// An existing author is returned unchanged: the first write wins.
func (s *Store) FindOrCreateAuthor(in AuthorInput) *Author {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findOrCreateAuthor(in)
}

// findOrCreateAuthor must be called with the write lock held.
func (s *Store) findOrCreateAuthor(in AuthorInput) *Author {
	if a, ok := s.authors[in.Name]; ok {
		return a
	}

	a := &Author{
		ID:          NewID(s.idLength),
		Name:        in.Name,
		Age:         in.Age,
		Nationality: in.Nationality,
	}
	s.authors[a.Name] = a
	return a
}

// CreateMessage stores a new message, creating its author on first sight.
func (s *Store) CreateMessage(in MessageInput) *Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	author := s.findOrCreateAuthor(in.Author)

	m := &Message{
		ID:      NewID(s.idLength),
		Content: in.Content,
		Author:  author,
	}
	s.messages[m.ID] = m
	s.authorMessages[author.ID] = append(s.authorMessages[author.ID], m.ID)

	s.index(m)
	return snapshot(m)
}

// UpdateMessageContent replaces the content of a message. A nil content clears it.
func (s *Store) UpdateMessageContent(id string, content *string) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindMessage, Key: id}
	}
	m.Content = content

	s.index(m)
	return snapshot(m), nil
}

// GetMessage returns the message with the given id.
func (s *Store) GetMessage(id string) (*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindMessage, Key: id}
	}
	return snapshot(m), nil
}

// ListAuthors returns all authors ordered by name.
func (s *Store) ListAuthors() []*Author {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Author, 0, len(s.authors))
	for _, a := range s.authors {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ListMessagesByAuthorName returns an author's messages in creation order.
func (s *Store) ListMessagesByAuthorName(name string) ([]*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.authors[name]
	if !ok {
		return nil, &NotFoundError{Kind: KindAuthor, Key: name}
	}
	ids, ok := s.authorMessages[a.ID]
	if !ok {
		return nil, &NotFoundError{Kind: KindAuthorMessages, Key: name}
	}

	result := make([]*Message, 0, len(ids))
	for _, id := range ids {
		result = append(result, snapshot(s.messages[id]))
	}
	return result, nil
}

// CountMessages returns the number of stored messages.
func (s *Store) CountMessages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}

// CountAuthors returns the number of distinct author names seen.
func (s *Store) CountAuthors() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.authors)
}

// index forwards m to the indexer, if any. Failures are logged only.
func (s *Store) index(m *Message) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexMessage(snapshot(m)); err != nil {
		s.log.Warn().Err(err).Str("id_message", m.ID).Msg("indexing message failed")
	}
}

// snapshot copies m so callers never observe later in-place updates.
func snapshot(m *Message) *Message {
	c := *m
	return &c
}
