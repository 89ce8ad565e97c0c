package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/scoutkit/scout"
)

// Ensure CandidateService implements scout.CandidateService.
var _ scout.CandidateService = (*CandidateService)(nil)

// CandidateService wraps a CandidateService with operation logging.
type CandidateService struct {
	next   scout.CandidateService
	logger *slog.Logger
}

// NewCandidateService creates a new logging CandidateService.
func NewCandidateService(next scout.CandidateService, logger *slog.Logger) *CandidateService {
	return &CandidateService{next: next, logger: logger}
}

// UpsertCandidate delegates to the wrapped service and logs the operation.
func (s *CandidateService) UpsertCandidate(ctx context.Context, c *scout.Candidate) (created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("candidate upsert",
			"key", c.NaturalKey,
			"source", c.Source,
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertCandidate(ctx, c)
}

// FindCandidateByKey delegates to the wrapped service.
func (s *CandidateService) FindCandidateByKey(ctx context.Context, key string) (*scout.Candidate, error) {
	return s.next.FindCandidateByKey(ctx, key)
}

// FindCandidates delegates to the wrapped service and logs the query.
func (s *CandidateService) FindCandidates(ctx context.Context, filter scout.CandidateFilter) (candidates []*scout.Candidate, err error) {
	defer func(begin time.Time) {
		s.logger.Info("candidate query",
			"count", len(candidates),
			"keywords", filter.Keywords,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindCandidates(ctx, filter)
}

// CountCandidates delegates to the wrapped service.
func (s *CandidateService) CountCandidates(ctx context.Context, filter scout.CandidateFilter) (int, error) {
	return s.next.CountCandidates(ctx, filter)
}

// UpdateCandidateStatus delegates to the wrapped service and logs the transition.
func (s *CandidateService) UpdateCandidateStatus(ctx context.Context, key string, status scout.Status) (c *scout.Candidate, err error) {
	defer func(begin time.Time) {
		s.logger.Info("candidate status update",
			"key", key,
			"status", string(status),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateCandidateStatus(ctx, key, status)
}
