package query

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/five82/statview/internal/statista"
)

const defaultCacheTime = 5 * time.Minute

// Fetcher loads the data for one key.
type Fetcher func(ctx context.Context) ([]statista.Item, error)

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	// StaleTime is how long fetched data counts as fresh. Zero means data is
	// only refetched when missing or invalidated.
	StaleTime time.Duration
	// CacheTime is how long an entry survives without being read.
	CacheTime time.Duration
	Logger    *log.Logger
	Now       func() time.Time
}

// Stats summarizes the cache for status displays.
type Stats struct {
	Entries  int
	Fetching int
	Stale    int
}

type entry struct {
	data       []statista.Item
	hasData    bool
	err        error
	stale      bool
	updatedAt  time.Time
	accessedAt time.Time
	inFlight   int
	started    uint64 // generation of the most recently started fetch
	stored     uint64 // generation whose outcome is recorded
}

// Client is the session-wide query cache. Construct it once and share it
// between every view and service; a second Client would not see the first
// one's invalidations.
type Client struct {
	mu        sync.Mutex
	entries   map[Key]*entry
	group     singleflight.Group
	staleTime time.Duration
	cacheTime time.Duration
	now       func() time.Time
	logger    *log.Logger
}

// NewClient creates an empty cache.
func NewClient(opts Options) *Client {
	cacheTime := opts.CacheTime
	if cacheTime <= 0 {
		cacheTime = defaultCacheTime
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		entries:   make(map[Key]*entry),
		staleTime: opts.StaleTime,
		cacheTime: cacheTime,
		now:       now,
		logger:    logger.WithPrefix("query"),
	}
}

// Data returns a copy of the last successful result stored for key.
func (c *Client) Data(key Key) ([]statista.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !e.hasData {
		return nil, false
	}
	e.accessedAt = c.now()
	return cloneItems(e.data), true
}

// SetData stores items for key as if a fetch had just succeeded.
func (c *Client) SetData(key Key, items []statista.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	e.started++
	e.stored = e.started
	c.storeLocked(e, items)
}

// Fetch runs fn for key and records the outcome. Concurrent fetches of the
// same key share one call to fn. When an older fetch resolves after a newer
// one has been recorded, its outcome is discarded. A failed fetch keeps any
// previously stored data.
func (c *Client) Fetch(ctx context.Context, key Key, fn Fetcher) ([]statista.Item, error) {
	if fn == nil {
		return nil, errors.New("query: nil fetcher")
	}

	c.mu.Lock()
	e := c.entryLocked(key)
	e.inFlight++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		e.inFlight--
		c.mu.Unlock()
	}()

	v, err, shared := c.group.Do(key.String(), func() (any, error) {
		c.mu.Lock()
		e.started++
		gen := e.started
		c.mu.Unlock()

		items, err := fn(ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if gen <= e.stored {
			c.logger.Debug("discarding superseded result", "key", key, "generation", gen)
			if err != nil {
				return nil, err
			}
			return cloneItems(items), nil
		}
		e.stored = gen
		if err != nil {
			e.err = err
			return nil, err
		}
		c.storeLocked(e, items)
		return cloneItems(items), nil
	})
	if shared {
		c.logger.Debug("fetch deduplicated", "key", key)
	}
	if err != nil {
		return nil, err
	}
	return cloneItems(v.([]statista.Item)), nil
}

// Invalidate marks keys stale so the next access refetches them. An in-flight
// fetch for the key keeps running but no longer absorbs new callers.
func (c *Client) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.stale = true
		}
		c.group.Forget(key.String())
	}
}

// InvalidateScope marks every key in scope stale.
func (c *Client) InvalidateScope(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if key.Scope != scope {
			continue
		}
		e.stale = true
		c.group.Forget(key.String())
	}
}

// NeedsFetch reports whether key has never been fetched, was invalidated, or
// has outlived StaleTime. Failed keys without data are not refetched
// automatically.
func (c *Client) NeedsFetch(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return true
	}
	if e.inFlight > 0 {
		return false
	}
	if e.stale {
		return true
	}
	if !e.hasData {
		return e.err == nil
	}
	return c.staleTime > 0 && c.now().Sub(e.updatedAt) > c.staleTime
}

// Mutate runs fn and, when it succeeds, invalidates keys. Nothing is rolled
// back on failure.
func (c *Client) Mutate(ctx context.Context, fn func(ctx context.Context) error, keys ...Key) error {
	if err := fn(ctx); err != nil {
		c.logger.Error("mutation failed", "keys", keys, "err", err)
		return err
	}
	c.Invalidate(keys...)
	return nil
}

// GC evicts entries that have not been read within CacheTime and have no
// fetch in flight. It returns the number of evicted entries.
func (c *Client) GC(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if e.inFlight > 0 {
			continue
		}
		if now.Sub(e.accessedAt) <= c.cacheTime {
			continue
		}
		delete(c.entries, key)
		evicted++
	}
	if evicted > 0 {
		c.logger.Debug("evicted idle entries", "count", evicted, "remaining", len(c.entries))
	}
	return evicted
}

// Stats returns counters describing the cache contents.
func (c *Client) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s Stats
	for _, e := range c.entries {
		s.Entries++
		if e.inFlight > 0 {
			s.Fetching++
		}
		if e.stale {
			s.Stale++
		}
	}
	return s
}

type entryView struct {
	exists    bool
	data      []statista.Item
	hasData   bool
	err       error
	stale     bool
	fetching  bool
	updatedAt time.Time
}

// view snapshots key and refreshes its access time.
func (c *Client) view(key Key) entryView {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return entryView{}
	}
	e.accessedAt = c.now()
	return entryView{
		exists:    true,
		data:      cloneItems(e.data),
		hasData:   e.hasData,
		err:       e.err,
		stale:     e.stale,
		fetching:  e.inFlight > 0,
		updatedAt: e.updatedAt,
	}
}

func (c *Client) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{accessedAt: c.now()}
		c.entries[key] = e
	}
	return e
}

func (c *Client) storeLocked(e *entry, items []statista.Item) {
	now := c.now()
	e.data = cloneItems(items)
	if e.data == nil {
		e.data = []statista.Item{}
	}
	e.hasData = true
	e.err = nil
	e.stale = false
	e.updatedAt = now
	e.accessedAt = now
}

func cloneItems(items []statista.Item) []statista.Item {
	if items == nil {
		return nil
	}
	dup := make([]statista.Item, len(items))
	copy(dup, items)
	return dup
}
