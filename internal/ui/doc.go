// Package ui provides the statview terminal user interface.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model holds one state struct per
// view and a back stack for esc. Data never lives in the model itself: every
// view reads through a query.Observer on the shared query.Client, so a page
// fetched once is served from the cache when the user comes back to it.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, messages and commands
//   - search.go: search input, result list and pager
//   - detail.go: statistic card and the not-found state
//   - favorites.go: saved statistics list
//   - header.go: status bar and per-view command bar
//   - route.go: statistic/<id>?searchTerm=..&isRealApi=..&page=.. links
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # View Types
//
//   - Search View: input plus paged results. Nothing is fetched until the
//     first enter; afterwards edits re-query after a short debounce.
//   - Detail View: one statistic, looked up in the cached page named by its
//     Route. It never fetches, so a cold deep link shows "No data found".
//   - Favorites View: "Favorite Statistics" with a card for the selection.
//
// # Paging
//
// The search observer keeps the previous page on screen while the next one
// loads. Next page is disabled while that happens, while any fetch for the
// page is in flight, and when the current page came back short.
//
// # Commands
//
// Fetches and favorites mutations run as tea.Cmd functions and report back
// with searchDoneMsg, favoritesDoneMsg and mutationDoneMsg. The messages
// carry no data; views re-read the cache when rendering.
package ui
