package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/statview/internal/query"
)

const routePrefix = "statistic/"

// Route addresses one statistic inside a cached result page. The detail view
// reads the page from the query cache and never fetches.
type Route struct {
	ID      int64
	Term    string
	RealAPI bool
	Page    int
}

// Key returns the cache key of the page the route points into.
func (r Route) Key() query.Key {
	return query.SearchKey(r.Term, r.RealAPI, r.Page)
}

// String renders the route as statistic/<id>?isRealApi=..&page=..&searchTerm=..
func (r Route) String() string {
	v := url.Values{}
	v.Set("searchTerm", r.Term)
	v.Set("isRealApi", strconv.FormatBool(r.RealAPI))
	v.Set("page", strconv.Itoa(r.Page))
	return routePrefix + strconv.FormatInt(r.ID, 10) + "?" + v.Encode()
}

// ParseRoute reads a route produced by Route.String. A leading slash is
// accepted. Missing query parameters take their zero values.
func ParseRoute(raw string) (Route, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "/")
	u, err := url.Parse(trimmed)
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: %w", raw, err)
	}
	if !strings.HasPrefix(u.Path, routePrefix) {
		return Route{}, fmt.Errorf("parse route %q: want %s<id>", raw, routePrefix)
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(u.Path, routePrefix), 10, 64)
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: bad id: %w", raw, err)
	}

	q := u.Query()
	r := Route{ID: id, Term: q.Get("searchTerm")}
	// Only the literal "true" selects the remote source.
	r.RealAPI = q.Get("isRealApi") == "true"
	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 0 {
			return Route{}, fmt.Errorf("parse route %q: bad page %q", raw, p)
		}
		r.Page = page
	}
	return r, nil
}
