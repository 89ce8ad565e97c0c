// Package resty provides a JSON API source adapter. A Source issues one GET
// request and extracts records from the response with configured gjson
// paths, so new JSON endpoints (event APIs, community digests) can be wired
// without writing per-provider code.
package resty

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/scoutkit/scout"
	"github.com/tidwall/gjson"
)

var _ scout.Source = (*Source)(nil)

// Mapping describes how to pull records out of a JSON response body.
type Mapping struct {
	// Items is the gjson path to the array of result objects.
	// Empty means the response root is the array.
	Items string

	// Fields maps record keys (url, title, date, price, ...) to gjson
	// paths evaluated relative to each item.
	Fields map[string]string
}

// Source fetches candidate records from one JSON API endpoint.
type Source struct {
	client  *resty.Client
	url     string
	mapping Mapping

	query   map[string]string
	headers map[string]string
}

// Option configures a Source.
type Option func(*Source)

// WithQueryParams sets fixed query parameters on every request.
func WithQueryParams(params map[string]string) Option {
	return func(s *Source) { s.query = params }
}

// WithHeaders sets fixed headers on every request, e.g. an Authorization
// token for the provider.
func WithHeaders(headers map[string]string) Option {
	return func(s *Source) { s.headers = headers }
}

// WithClient overrides the underlying resty client.
func WithClient(client *resty.Client) Option {
	return func(s *Source) { s.client = client }
}

// NewSource creates a JSON API source for the given endpoint and mapping.
func NewSource(url string, mapping Mapping, opts ...Option) *Source {
	s := &Source{
		client:  resty.New(),
		url:     url,
		mapping: mapping,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch performs the request and maps each item to a raw record.
func (s *Source) Fetch(ctx context.Context) ([]scout.RawRecord, error) {
	req := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json")
	for k, v := range s.headers {
		req.SetHeader(k, v)
	}
	if len(s.query) > 0 {
		req.SetQueryParams(s.query)
	}

	resp, err := req.Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode())
	}

	body := resp.String()
	items := gjson.Get(body, "@this")
	if s.mapping.Items != "" {
		items = gjson.Get(body, s.mapping.Items)
	}
	if !items.IsArray() {
		return nil, fmt.Errorf("fetch %s: path %q is not an array", s.url, s.mapping.Items)
	}

	var records []scout.RawRecord
	items.ForEach(func(_, item gjson.Result) bool {
		records = append(records, s.record(item))
		return true
	})
	return records, nil
}

// record evaluates the field paths against one response item.
func (s *Source) record(item gjson.Result) scout.RawRecord {
	record := make(scout.RawRecord, len(s.mapping.Fields))
	for key, path := range s.mapping.Fields {
		value := item.Get(path)
		if !value.Exists() {
			continue
		}
		record[key] = fieldValue(value)
	}
	return record
}

// fieldValue converts a gjson result to the plain Go value the normalizer
// expects. Arrays become []string so list fields like categories survive.
func fieldValue(value gjson.Result) any {
	if value.IsArray() {
		parts := value.Array()
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, p.String())
		}
		return out
	}
	switch value.Type {
	case gjson.Number:
		return value.Float()
	case gjson.True, gjson.False:
		return value.Bool()
	default:
		return value.String()
	}
}
