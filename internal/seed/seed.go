// Package seed loads message fixtures from YAML and replays them into a store.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hmans/msgboard/internal/board"
)

// File is the on-disk layout of a seed file.
//
//	messages:
//	  - content: hello
//	    author:
//	      name: Ada
//	      age: 36
type File struct {
	Messages []board.MessageInput `yaml:"messages"`
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed data. Every message must name its author.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	var errs []error
	for i, m := range f.Messages {
		if m.Author.Name == "" {
			errs = append(errs, fmt.Errorf("message %d: author name is required", i+1))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &f, nil
}

// Apply creates every message in order and returns the created messages.
func (f *File) Apply(store *board.Store) []*board.Message {
	created := make([]*board.Message, 0, len(f.Messages))
	for _, in := range f.Messages {
		created = append(created, store.CreateMessage(in))
	}
	return created
}
