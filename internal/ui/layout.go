package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the status bar drops
	// optional segments.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width for the list/card split in the
	// favorites view.
	LayoutSplitWidth = 90

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Chrome is the number of rows taken by the status bar, command bar and the
// search input.
const (
	chromeRows       = 2
	searchInputRows  = 3
	defaultPageSize  = 10
	inputPlaceholder = "Search statistics (try \"statista\")"
)

// Timing constants.
const (
	// DefaultDebounce delays search-as-you-type re-queries.
	DefaultDebounce = 300 * time.Millisecond

	// FetchTimeout bounds one search or favorites load.
	FetchTimeout = 15 * time.Second

	// FlashDuration is how long transient status messages stay visible.
	FlashDuration = 3 * time.Second
)
