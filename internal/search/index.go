// Package search provides full-text search over messages using Bleve.
package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hmans/msgboard/internal/board"
)

// DefaultSearchLimit is the default maximum number of search results.
const DefaultSearchLimit = 100

// Index wraps a Bleve in-memory index for searching messages.
type Index struct {
	index bleve.Index
}

// messageDocument is the structure stored in the Bleve index.
type messageDocument struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Author   string `json:"author"`
	AuthorID string `json:"author_id"`
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{index: idx}, nil
}

// buildIndexMapping creates the Bleve index mapping for message documents.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	messageMapping := bleve.NewDocumentMapping()
	messageMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	messageMapping.AddFieldMappingsAt("content", textFieldMapping)
	messageMapping.AddFieldMappingsAt("author", textFieldMapping)
	messageMapping.AddFieldMappingsAt("author_id", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = messageMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

// IndexMessage adds or replaces a message in the index.
func (idx *Index) IndexMessage(m *board.Message) error {
	return idx.index.Index(m.ID, toDocument(m))
}

// IndexMessages indexes multiple messages in one batch.
func (idx *Index) IndexMessages(msgs []*board.Message) error {
	batch := idx.index.NewBatch()
	for _, m := range msgs {
		if err := batch.Index(m.ID, toDocument(m)); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// Search runs a query string query and returns matching message ids, best match first.
// A limit <= 0 uses DefaultSearchLimit.
//
// The query string syntax supports plain terms ("hello"), boolean operators
// ("+hello -bye"), wildcards ("hel*"), phrases ("\"hello world\"") and
// field scopes ("author:ada").
func (idx *Index) Search(queryStr string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := bleve.NewQueryStringQuery(queryStr)

	searchRequest := bleve.NewSearchRequest(query)
	searchRequest.Size = limit
	searchRequest.Fields = []string{"id"}

	result, err := idx.index.Search(searchRequest)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

// Count returns the number of indexed documents.
func (idx *Index) Count() (uint64, error) {
	return idx.index.DocCount()
}

func toDocument(m *board.Message) messageDocument {
	doc := messageDocument{ID: m.ID}
	if m.Content != nil {
		doc.Content = *m.Content
	}
	if m.Author != nil {
		doc.Author = m.Author.Name
		doc.AuthorID = m.Author.ID
	}
	return doc
}
