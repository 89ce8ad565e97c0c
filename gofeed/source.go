// Package gofeed provides an RSS/Atom feed source adapter. One Source reads
// one feed URL and yields its items as raw records for normalization;
// podcast directories, HARO digests and paper feeds are all consumed this
// way.
package gofeed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/scoutkit/scout"
)

// Compile-time interface verification.
var _ scout.Source = (*Source)(nil)

// Source fetches one feed and maps its items to raw records.
type Source struct {
	client  *http.Client
	parser  *gofeed.Parser
	feedURL string

	// categories are appended to every record; feeds rarely tag items
	// with the deployment's taxonomy, so the configuration supplies it.
	categories []string
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient overrides the HTTP client used for feed requests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) { s.client = client }
}

// WithCategories tags every record from this feed with fixed categories.
func WithCategories(categories ...string) Option {
	return func(s *Source) { s.categories = categories }
}

// NewSource creates a feed source for the given URL.
func NewSource(feedURL string, opts ...Option) *Source {
	s := &Source{
		client:  &http.Client{Timeout: 15 * time.Second},
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads and parses the feed, returning one raw record per item.
func (s *Source) Fetch(ctx context.Context) ([]scout.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.1")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: unexpected status %d", s.feedURL, resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", s.feedURL, err)
	}

	records := make([]scout.RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, s.record(feed, item))
	}
	return records, nil
}

// record maps one feed item to a raw record.
func (s *Source) record(feed *gofeed.Feed, item *gofeed.Item) scout.RawRecord {
	record := scout.RawRecord{
		"title":       strings.TrimSpace(item.Title),
		"url":         strings.TrimSpace(item.Link),
		"description": strings.TrimSpace(item.Description),
	}

	if item.Content != "" {
		record["long_text"] = strings.TrimSpace(item.Content)
	}

	if published := itemTime(item); !published.IsZero() {
		record["date"] = published
	}

	categories := append([]string{}, s.categories...)
	for _, c := range item.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	record["categories"] = categories

	if feed.Title != "" {
		record["feed_title"] = strings.TrimSpace(feed.Title)
	}
	if len(item.Authors) > 0 {
		authors := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			if a != nil && a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		record["authors"] = authors
	}

	return record
}

// itemTime picks the best available timestamp for an item.
func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}
