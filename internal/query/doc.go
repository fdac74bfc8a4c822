// Package query caches search results for the lifetime of a statview session.
//
// # Overview
//
// Every view and service shares one Client. The client maps a Key to the last
// successful result for that key and tracks whether a fetch is in flight,
// whether the data has been invalidated, and when it was last read.
//
// # Keys
//
// Search results are keyed by (term, source, page):
//
//	query.SearchKey("gdp", true, 2)   // ["statistics","gdp",true,2]
//	query.FavoritesKey                // ["favorites"]
//
// InvalidateScope marks every key of one scope stale in a single call.
//
// # Fetching
//
// Fetch runs a Fetcher for a key. Concurrent callers of the same key share a
// single call through singleflight. Each started fetch takes a generation
// number; a result that resolves after a newer generation was recorded is
// discarded, so a slow response for an old request never overwrites newer
// data. A failed fetch records its error but keeps previously stored data.
//
// Mutate runs a write and invalidates the given keys once it succeeds.
//
// # Observers
//
// An Observer follows the active key of one view:
//
//	obs := client.Observe(key, query.Enabled(true), query.KeepPreviousData())
//	if obs.NeedsFetch() {
//	    go obs.Fetch(ctx, fetcher)
//	}
//	st := obs.State()
//
// With KeepPreviousData the observer keeps returning the last displayed data
// while a new key loads, flagged by State.PreviousData. State.CanAdvance is
// false until the active key has its own data, which is what gates a "next
// page" control.
//
// # Eviction
//
// GC drops entries that have not been read within Options.CacheTime. The app
// package calls it from a background janitor.
package query
