package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/scoutkit/scout"
)

// Ensure LoggingSource implements scout.Source.
var _ scout.Source = (*LoggingSource)(nil)

// LoggingSource wraps a Source with fetch logging.
type LoggingSource struct {
	next     scout.Source
	sourceID string
	logger   *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next scout.Source, sourceID string, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, sourceID: sourceID, logger: logger}
}

// Fetch delegates to the wrapped source and logs the operation.
func (s *LoggingSource) Fetch(ctx context.Context) (records []scout.RawRecord, err error) {
	defer func(begin time.Time) {
		s.logger.Info("source fetch",
			"source", s.sourceID,
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Fetch(ctx)
}
