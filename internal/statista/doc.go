// Package statista provides the fetch adapter for the statistics catalog.
//
// # Overview
//
// A Client answers one question: given a search term, a data source and a
// page index, which items should be shown? Two sources are supported:
//
//   - Remote API: GET {api_base_url}?q={term} with the X-STATISTA-API-KEY
//     header. The endpoint is assumed to paginate on its own, so the page
//     index is not applied client side.
//   - Demo document: GET {static_url}, a fixed JSON file. Only the term
//     "statista" (any case) matches; its items are sliced into pages of
//     PageSize. Every other term yields an empty result.
//
// # Decoding
//
// Bodies are decoded into SearchResponse and every item is validated before
// it leaves the package. A body that is not JSON, or an item without a
// positive identifier, produces a *DecodeError.
//
// # Error Handling
//
//   - ErrInvalidAPIKey: the remote API answered 401
//   - *NetworkError: any other non-2xx status
//   - *DecodeError: malformed body or invalid item
//   - wrapped transport errors (connection refused, timeout, cancellation)
//
// Errors are logged and returned as-is. Nothing is retried.
//
// # Rate Limiting
//
// All requests share one golang.org/x/time/rate limiter with a burst of one.
// Search-as-you-type can re-key the query on every keystroke; the limiter
// keeps that from turning into a request storm against the remote API.
package statista
