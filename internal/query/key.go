package query

import (
	"fmt"
	"strings"
)

// Scopes group keys the way the first element of a query key array does.
const (
	ScopeStatistics = "statistics"
	ScopeFavorites  = "favorites"
)

// Key identifies one cached result set. Two fetches with equal keys are the
// same logical query.
type Key struct {
	Scope   string
	Term    string
	RealAPI bool
	Page    int
}

// FavoritesKey is the single fixed key the favorites list lives under.
var FavoritesKey = Key{Scope: ScopeFavorites}

// SearchKey builds the key for one page of search results.
func SearchKey(term string, realAPI bool, page int) Key {
	return Key{Scope: ScopeStatistics, Term: term, RealAPI: realAPI, Page: page}
}

// String renders the key in array form, e.g. ["statistics","gdp",false,0].
func (k Key) String() string {
	if k.Scope == ScopeFavorites {
		return fmt.Sprintf("[%q]", k.Scope)
	}
	return fmt.Sprintf("[%q,%q,%t,%d]", k.Scope, k.Term, k.RealAPI, k.Page)
}

// IsZero reports whether the key has not been set.
func (k Key) IsZero() bool {
	return strings.TrimSpace(k.Scope) == "" && k.Term == "" && !k.RealAPI && k.Page == 0
}
