package statista

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// statistaDateLayout covers the plain "YYYY-MM-DD HH:MM:SS" dates the catalog emits.
const statistaDateLayout = "2006-01-02 15:04:05"

// SearchResponse mirrors the payload returned by both the search API and the
// static demo document.
type SearchResponse struct {
	Items []Item `json:"items"`
}

// Item describes a single statistic in transport-friendly form.
type Item struct {
	Identifier      int64         `json:"identifier"`
	Title           string        `json:"title"`
	Link            string        `json:"link"`
	Subject         string        `json:"subject"`
	Description     string        `json:"description"`
	Date            string        `json:"date"`
	Premium         int           `json:"premium"`
	ImageURL        string        `json:"image_url"`
	TeaserImageURLs []TeaserImage `json:"teaser_image_urls"`
}

// TeaserImage is one of the alternate renditions attached to an item.
type TeaserImage struct {
	Width int    `json:"width"`
	Src   string `json:"src"`
}

// IsPremium reports whether the statistic sits behind the paywall.
func (i Item) IsPremium() bool {
	return i.Premium == 1
}

// PublishedAt returns the parsed Date, or the zero time when it cannot be parsed.
func (i Item) PublishedAt() time.Time {
	return parseTime(i.Date)
}

// FallbackImage returns the teaser source with the largest width. It is used
// when the primary image cannot be shown.
func (i Item) FallbackImage() string {
	best := -1
	for idx, teaser := range i.TeaserImageURLs {
		if best < 0 || teaser.Width > i.TeaserImageURLs[best].Width {
			best = idx
		}
	}
	if best < 0 {
		return ""
	}
	return i.TeaserImageURLs[best].Src
}

// Validate checks the fields every downstream consumer relies on.
func (i Item) Validate() error {
	if i.Identifier <= 0 {
		return fmt.Errorf("item %q: identifier must be positive, got %d", strings.TrimSpace(i.Title), i.Identifier)
	}
	return nil
}

// Validate checks every item in the response.
func (r SearchResponse) Validate() error {
	var errs []error
	for idx, item := range r.Items {
		if err := item.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", idx, err))
		}
	}
	return errors.Join(errs...)
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(statistaDateLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
