package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/five82/statview/internal/localstore"
	"github.com/five82/statview/internal/statista"
)

// StorageKey is the localstore key holding the favorites list.
const StorageKey = "favorites"

// Backend is the subset of localstore the favorites list needs.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Update(ctx context.Context, key string, fn localstore.UpdateFunc) error
}

// Store reads and writes the favorites list as one JSON array.
type Store struct {
	mu      sync.Mutex
	backend Backend
}

// NewStore returns a Store persisting into backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// List returns every favorite in insertion order. A missing or empty value
// is an empty list.
func (s *Store) List(ctx context.Context) ([]statista.Item, error) {
	raw, ok, err := s.backend.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	if !ok {
		return []statista.Item{}, nil
	}
	return decode(raw)
}

// Add appends item. An item already in the list is appended again.
func (s *Store) Add(ctx context.Context, item statista.Item) error {
	return s.update(ctx, func(items []statista.Item) []statista.Item {
		return append(items, item)
	})
}

// Remove drops every entry with the given identifier.
func (s *Store) Remove(ctx context.Context, id int64) error {
	return s.update(ctx, func(items []statista.Item) []statista.Item {
		kept := items[:0]
		for _, item := range items {
			if item.Identifier != id {
				kept = append(kept, item)
			}
		}
		return kept
	})
}

// Contains reports whether any entry has the given identifier.
func (s *Store) Contains(ctx context.Context, id int64) (bool, error) {
	items, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	return ContainsID(items, id), nil
}

// ContainsID reports whether items holds an entry with the given identifier.
func ContainsID(items []statista.Item, id int64) bool {
	for _, item := range items {
		if item.Identifier == id {
			return true
		}
	}
	return false
}

func (s *Store) update(ctx context.Context, fn func([]statista.Item) []statista.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Update(ctx, StorageKey, func(current string, ok bool) (string, error) {
		items := []statista.Item{}
		if ok {
			decoded, err := decode(current)
			if err != nil {
				return "", err
			}
			items = decoded
		}
		next := fn(items)
		if next == nil {
			next = []statista.Item{}
		}
		buf, err := json.Marshal(next)
		if err != nil {
			return "", fmt.Errorf("encode favorites: %w", err)
		}
		return string(buf), nil
	})
	if err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func decode(raw string) ([]statista.Item, error) {
	if strings.TrimSpace(raw) == "" {
		return []statista.Item{}, nil
	}
	var items []statista.Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	if items == nil {
		items = []statista.Item{}
	}
	return items, nil
}
