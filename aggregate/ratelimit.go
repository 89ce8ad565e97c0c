package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/scoutkit/scout"
	"golang.org/x/time/rate"
)

var _ scout.SourceLimiter = (*IntervalLimiter)(nil)

// IntervalLimiter provides per-source rate limiting using token buckets.
// Each source gets its own limiter sized from its configured minimum
// interval, so sources never interact: throttling one adapter does not
// delay another.
type IntervalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewIntervalLimiter creates a limiter for the given source configs.
// Sources with a zero interval, and source IDs never configured, are not
// throttled. Burst is 1: no bursting within a source.
func NewIntervalLimiter(configs []scout.SourceConfig) *IntervalLimiter {
	limiters := make(map[string]*rate.Limiter, len(configs))
	for _, cfg := range configs {
		if cfg.MinInterval <= 0 {
			continue
		}
		limiters[cfg.ID] = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}
	return &IntervalLimiter{limiters: limiters}
}

// Wait blocks until the source's minimum interval has elapsed since the
// previous call for the same source ID. Returns an error if the context is
// canceled before the wait completes.
func (l *IntervalLimiter) Wait(ctx context.Context, sourceID string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[sourceID]
	l.mu.Unlock()
	if !ok {
		return ctx.Err()
	}
	return limiter.Wait(ctx)
}

// SetInterval configures or replaces the interval for a source at runtime.
func (l *IntervalLimiter) SetInterval(sourceID string, interval time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if interval <= 0 {
		delete(l.limiters, sourceID)
		return
	}
	l.limiters[sourceID] = rate.NewLimiter(rate.Every(interval), 1)
}
