package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/scoutkit/scout"
	"github.com/scoutkit/scout/gofeed"
	"github.com/scoutkit/scout/resty"
	"github.com/scoutkit/scout/static"
)

// sourcesFile is the on-disk format of the sources config.
type sourcesFile struct {
	Sources []sourceEntry `json:"sources"`
}

// sourceEntry describes one configured source.
type sourceEntry struct {
	ID          string `json:"id"`
	Type        string `json:"type"` // feed, api, or static
	MinInterval string `json:"minInterval,omitempty"`

	// feed and api
	URL        string   `json:"url,omitempty"`
	Categories []string `json:"categories,omitempty"`

	// api
	Items   string            `json:"items,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`

	// static
	Records []scout.RawRecord `json:"records,omitempty"`
}

// loadSources reads the config file and builds the per-run source set.
func loadSources(path string) ([]scout.SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var file sourcesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("config %s defines no sources", path)
	}

	seen := make(map[string]bool, len(file.Sources))
	configs := make([]scout.SourceConfig, 0, len(file.Sources))
	for i, entry := range file.Sources {
		if entry.ID == "" {
			return nil, fmt.Errorf("source #%d has no id", i+1)
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("duplicate source id %q", entry.ID)
		}
		seen[entry.ID] = true

		source, err := buildSource(entry)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", entry.ID, err)
		}

		var interval time.Duration
		if entry.MinInterval != "" {
			interval, err = time.ParseDuration(entry.MinInterval)
			if err != nil {
				return nil, fmt.Errorf("source %q: invalid minInterval: %w", entry.ID, err)
			}
		}

		configs = append(configs, scout.SourceConfig{
			ID:          entry.ID,
			MinInterval: interval,
			Source:      source,
		})
	}
	return configs, nil
}

func buildSource(entry sourceEntry) (scout.Source, error) {
	switch entry.Type {
	case "feed":
		if entry.URL == "" {
			return nil, fmt.Errorf("feed source requires a url")
		}
		var opts []gofeed.Option
		if len(entry.Categories) > 0 {
			opts = append(opts, gofeed.WithCategories(entry.Categories...))
		}
		return gofeed.NewSource(entry.URL, opts...), nil

	case "api":
		if entry.URL == "" {
			return nil, fmt.Errorf("api source requires a url")
		}
		if len(entry.Fields) == 0 {
			return nil, fmt.Errorf("api source requires a fields mapping")
		}
		var opts []resty.Option
		if len(entry.Query) > 0 {
			opts = append(opts, resty.WithQueryParams(entry.Query))
		}
		if len(entry.Headers) > 0 {
			opts = append(opts, resty.WithHeaders(entry.Headers))
		}
		return resty.NewSource(entry.URL, resty.Mapping{
			Items:  entry.Items,
			Fields: entry.Fields,
		}, opts...), nil

	case "static":
		return static.NewSource(entry.Records...), nil

	default:
		return nil, fmt.Errorf("unknown source type %q", entry.Type)
	}
}
