package mock

import (
	"context"

	"github.com/scoutkit/scout"
)

var _ scout.CandidateService = (*CandidateService)(nil)

// CandidateService is a mock implementation of scout.CandidateService.
type CandidateService struct {
	UpsertCandidateFn       func(ctx context.Context, c *scout.Candidate) (bool, error)
	FindCandidateByKeyFn    func(ctx context.Context, key string) (*scout.Candidate, error)
	FindCandidatesFn        func(ctx context.Context, filter scout.CandidateFilter) ([]*scout.Candidate, error)
	CountCandidatesFn       func(ctx context.Context, filter scout.CandidateFilter) (int, error)
	UpdateCandidateStatusFn func(ctx context.Context, key string, status scout.Status) (*scout.Candidate, error)
}

func (s *CandidateService) UpsertCandidate(ctx context.Context, c *scout.Candidate) (bool, error) {
	return s.UpsertCandidateFn(ctx, c)
}

func (s *CandidateService) FindCandidateByKey(ctx context.Context, key string) (*scout.Candidate, error) {
	return s.FindCandidateByKeyFn(ctx, key)
}

func (s *CandidateService) FindCandidates(ctx context.Context, filter scout.CandidateFilter) ([]*scout.Candidate, error) {
	return s.FindCandidatesFn(ctx, filter)
}

func (s *CandidateService) CountCandidates(ctx context.Context, filter scout.CandidateFilter) (int, error) {
	return s.CountCandidatesFn(ctx, filter)
}

func (s *CandidateService) UpdateCandidateStatus(ctx context.Context, key string, status scout.Status) (*scout.Candidate, error) {
	return s.UpdateCandidateStatusFn(ctx, key, status)
}
