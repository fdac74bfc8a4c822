package query

import (
	"context"
	"time"

	"github.com/five82/statview/internal/statista"
)

// Status is the coarse state a view renders.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	default:
		return "idle"
	}
}

// State is what an Observer exposes to its view.
type State struct {
	Key     Key
	Enabled bool
	Data    []statista.Item
	HasData bool
	// Loading is true while the view is enabled and nothing has ever been
	// cached for the active key.
	Loading bool
	// Fetching is true whenever a fetch for the active key is in flight,
	// background refetches included.
	Fetching bool
	// PreviousData is true when Data belongs to an earlier key.
	PreviousData bool
	Stale        bool
	Err          error
	UpdatedAt    time.Time
}

// Status folds the flags into a single value.
func (s State) Status() Status {
	switch {
	case !s.Enabled:
		return StatusIdle
	case s.Err != nil && !s.HasData:
		return StatusError
	case s.Loading:
		return StatusLoading
	default:
		return StatusSuccess
	}
}

// CanAdvance reports whether a "next page" control may be used. It stays
// false until the active key's own data has arrived.
func (s State) CanAdvance() bool {
	return !s.PreviousData && !s.Fetching
}

// Observer follows one active key on behalf of a view and keeps the last
// displayed data around while a new key loads. An Observer belongs to a
// single view and is not safe for concurrent use.
type Observer struct {
	client       *Client
	key          Key
	enabled      bool
	keepPrevious bool

	last    []statista.Item
	lastKey Key
	hasLast bool
}

// ObserverOption customizes an Observer.
type ObserverOption func(*Observer)

// KeepPreviousData keeps showing the last data while a new key is loading.
func KeepPreviousData() ObserverOption {
	return func(o *Observer) { o.keepPrevious = true }
}

// Enabled sets the initial enabled flag. Observers start disabled.
func Enabled(enabled bool) ObserverOption {
	return func(o *Observer) { o.enabled = enabled }
}

// Observe creates an Observer for key.
func (c *Client) Observe(key Key, opts ...ObserverOption) *Observer {
	o := &Observer{client: c, key: key}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Key returns the active key.
func (o *Observer) Key() Key {
	return o.key
}

// SetKey switches the active key.
func (o *Observer) SetKey(key Key) {
	o.key = key
}

// Enabled reports whether the observer may fetch.
func (o *Observer) Enabled() bool {
	return o.enabled
}

// SetEnabled toggles fetching for the observer.
func (o *Observer) SetEnabled(enabled bool) {
	o.enabled = enabled
}

// NeedsFetch reports whether the view should start a fetch for the active key.
func (o *Observer) NeedsFetch() bool {
	return o.enabled && o.client.NeedsFetch(o.key)
}

// Retry marks the active key stale when its last fetch failed without ever
// storing data, so an explicit user action fetches it again. It reports
// whether the key was marked.
func (o *Observer) Retry() bool {
	v := o.client.view(o.key)
	if v.err == nil || v.hasData {
		return false
	}
	o.client.Invalidate(o.key)
	return true
}

// Fetch loads the active key through the shared client.
func (o *Observer) Fetch(ctx context.Context, fn Fetcher) ([]statista.Item, error) {
	return o.client.Fetch(ctx, o.key, fn)
}

// State computes the current view state and remembers what is displayed.
func (o *Observer) State() State {
	v := o.client.view(o.key)
	st := State{
		Key:       o.key,
		Enabled:   o.enabled,
		Fetching:  v.fetching,
		Stale:     v.stale,
		Err:       v.err,
		UpdatedAt: v.updatedAt,
	}

	switch {
	case v.hasData:
		st.Data = v.data
		st.HasData = true
		o.last, o.lastKey, o.hasLast = cloneItems(v.data), o.key, true
	case o.keepPrevious && o.hasLast && o.lastKey != o.key:
		st.Data = cloneItems(o.last)
		st.PreviousData = true
	}

	st.Loading = o.enabled && !v.hasData && v.err == nil && !st.PreviousData
	return st
}
