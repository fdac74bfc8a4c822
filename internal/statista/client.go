package statista

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Searcher defines the interface for fetching statistics.
// This interface is implemented by *Client and can be used for testing.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Item, error)
}

// Ensure Client implements Searcher at compile time.
var _ Searcher = (*Client)(nil)

// APIKeyHeader carries the key for the remote search API.
const APIKeyHeader = "X-STATISTA-API-KEY"

// DemoTerm is the only term the static demo document answers to.
const DemoTerm = "statista"

const (
	DefaultAPIBaseURL = "https://www.statista.com/api/v2/statistics"
	DefaultStaticURL  = "https://cdn.statcdn.com/static/application/search_results.json"
	DefaultPageSize   = 10

	defaultUserAgent = "statview/0.1"
	requestTimeout   = 10 * time.Second
)

// Query identifies one logical search: term, data source and page index.
type Query struct {
	Term    string
	RealAPI bool
	Page    int
}

// Options configure a Client. Zero values fall back to defaults.
type Options struct {
	APIBaseURL        string
	StaticURL         string
	APIKey            string
	PageSize          int
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
	Logger            *log.Logger
	HTTPClient        *http.Client
}

// Client talks to the statistics search API and the static demo document.
type Client struct {
	apiBase   *url.URL
	staticURL *url.URL
	apiKey    string
	pageSize  int
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *log.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	apiBase, err := parseEndpoint(opts.APIBaseURL, DefaultAPIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api_base_url: %w", err)
	}
	staticURL, err := parseEndpoint(opts.StaticURL, DefaultStaticURL)
	if err != nil {
		return nil, fmt.Errorf("parse static_url: %w", err)
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		apiBase:   apiBase,
		staticURL: staticURL,
		apiKey:    opts.APIKey,
		pageSize:  pageSize,
		userAgent: userAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger.WithPrefix("statista"),
	}, nil
}

// PageSize returns the number of items per page in demo mode.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Fetch is the positional form of Search.
func (c *Client) Fetch(ctx context.Context, term string, useRemote bool, page int) ([]Item, error) {
	return c.Search(ctx, Query{Term: term, RealAPI: useRemote, Page: page})
}

// Search runs q against the remote API or the demo document. Errors are
// logged and returned unchanged; nothing is retried.
func (c *Client) Search(ctx context.Context, q Query) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}

	var (
		items []Item
		err   error
	)
	if q.RealAPI {
		items, err = c.searchRemote(ctx, q.Term)
	} else {
		items, err = c.searchDemo(ctx, q.Term, q.Page)
	}
	if err != nil {
		c.logger.Error("search failed", "term", q.Term, "real_api", q.RealAPI, "page", q.Page, "err", err)
		return nil, err
	}
	c.logger.Debug("search done", "term", q.Term, "real_api", q.RealAPI, "page", q.Page, "items", len(items))
	return items, nil
}

func (c *Client) searchRemote(ctx context.Context, term string) ([]Item, error) {
	values := url.Values{}
	values.Set("q", term)
	reqURL := *c.apiBase
	reqURL.RawQuery = values.Encode()

	header := http.Header{}
	header.Set(APIKeyHeader, c.apiKey)

	var payload SearchResponse
	if err := c.get(ctx, &reqURL, header, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		return []Item{}, nil
	}
	return payload.Items, nil
}

func (c *Client) searchDemo(ctx context.Context, term string, page int) ([]Item, error) {
	var payload SearchResponse
	if err := c.get(ctx, c.staticURL, nil, &payload); err != nil {
		return nil, err
	}
	if !strings.EqualFold(term, DemoTerm) {
		return []Item{}, nil
	}
	return Page(payload.Items, page, c.pageSize), nil
}

// Page returns the slice [page*size, page*size+size) of items, clamped to the
// input. Out-of-range pages yield an empty, non-nil slice.
func Page(items []Item, page, size int) []Item {
	// Bounds are checked before multiplying so huge pages cannot overflow.
	if page < 0 || size <= 0 || len(items) == 0 || page > (len(items)-1)/size {
		return []Item{}
	}
	start := page * size
	end := min(start+size, len(items))
	out := make([]Item, end-start)
	copy(out, items[start:end])
	return out
}

func (c *Client) get(ctx context.Context, reqURL *url.URL, header http.Header, dest *SearchResponse) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	endpoint := redact(reqURL)
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidAPIKey
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &NetworkError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return &DecodeError{URL: endpoint, Err: err}
	}
	if err := dest.Validate(); err != nil {
		return &DecodeError{URL: endpoint, Err: err}
	}
	return nil
}

// redact drops the query so search terms do not end up in error text.
func redact(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.Fragment = ""
	return clean.String()
}

func parseEndpoint(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("url %q: scheme must be http or https", trimmed)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
