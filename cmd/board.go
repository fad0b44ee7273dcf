package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hmans/msgboard/internal/board"
	"github.com/hmans/msgboard/internal/graph"
	"github.com/hmans/msgboard/internal/search"
	"github.com/hmans/msgboard/internal/seed"
)

// newResolver builds a store, with a search index when enabled, and
// replays the seed file into it when seedPath is set.
func newResolver(seedPath string) (*graph.Resolver, error) {
	opts := []board.Option{
		board.WithIDLength(cfg.IDs.Length),
		board.WithLogger(log.Logger),
	}

	var idx *search.Index
	if cfg.Search.Enabled {
		var err error
		idx, err = search.NewIndex()
		if err != nil {
			return nil, fmt.Errorf("creating search index: %w", err)
		}
		opts = append(opts, board.WithIndexer(idx))
	}

	store := board.New(opts...)

	if seedPath != "" {
		f, err := seed.Load(seedPath)
		if err != nil {
			return nil, err
		}
		created := f.Apply(store)
		log.Info().Str("file", seedPath).Int("messages", len(created)).Msg("seeded store")
	}

	return &graph.Resolver{Store: store, Index: idx}, nil
}
