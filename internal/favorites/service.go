package favorites

import (
	"context"

	"github.com/five82/statview/internal/query"
	"github.com/five82/statview/internal/statista"
)

// Service routes favorites reads and writes through the shared query cache so
// every view watching query.FavoritesKey sees mutations.
type Service struct {
	store  *Store
	client *query.Client
}

// NewService wires store to client.
func NewService(store *Store, client *query.Client) *Service {
	return &Service{store: store, client: client}
}

// Fetcher loads the favorites list for use with a query.Observer.
func (s *Service) Fetcher() query.Fetcher {
	return s.store.List
}

// List returns the favorites, fetching them when the cached copy is missing
// or invalidated.
func (s *Service) List(ctx context.Context) ([]statista.Item, error) {
	if !s.client.NeedsFetch(query.FavoritesKey) {
		if items, ok := s.client.Data(query.FavoritesKey); ok {
			return items, nil
		}
	}
	return s.client.Fetch(ctx, query.FavoritesKey, s.store.List)
}

// Add stores item and invalidates the cached list.
func (s *Service) Add(ctx context.Context, item statista.Item) error {
	return s.client.Mutate(ctx, func(ctx context.Context) error {
		return s.store.Add(ctx, item)
	}, query.FavoritesKey)
}

// Remove deletes every entry with id and invalidates the cached list.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.client.Mutate(ctx, func(ctx context.Context) error {
		return s.store.Remove(ctx, id)
	}, query.FavoritesKey)
}
