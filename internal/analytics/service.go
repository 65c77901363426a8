// Package analytics reduces the caller's visible record set into the
// dashboard's chart and KPI payloads. It never reads the store directly; the
// program service's visible set is the single source for every number.
package analytics

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sajag/internal/program"
	"sajag/internal/visibility"
)

// leaderboardLimit caps the partner leaderboard rows.
const leaderboardLimit = 20

// VisibleSource yields the record set the principal is allowed to see after
// filtering. The program service implements it.
type VisibleSource interface {
	VisibleAll(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]program.TrainingProgram, error)
}

// Service computes dashboard aggregates.
type Service struct {
	source VisibleSource
}

func New(source VisibleSource) *Service {
	return &Service{source: source}
}

// Stats returns the KPI tile values over the visible set.
func (s *Service) Stats(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) (*visibility.Stats, error) {
	vis, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return nil, err
	}
	stats := visibility.ComputeStats(vis)
	return &stats, nil
}

// ThematicCoverage returns program counts grouped by theme.
func (s *Service) ThematicCoverage(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.ThemeSlice, error) {
	vis, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return nil, err
	}
	return visibility.ThematicCoverage(vis), nil
}

// GeographicSpread returns program counts grouped by state.
func (s *Service) GeographicSpread(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.StateSlice, error) {
	vis, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return nil, err
	}
	return visibility.GeographicSpread(vis), nil
}

// StatusDistribution returns program counts grouped by status.
func (s *Service) StatusDistribution(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.StatusSlice, error) {
	vis, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return nil, err
	}
	return visibility.StatusDistribution(vis), nil
}

// PartnerLeaderboard ranks partners over the visible set.
func (s *Service) PartnerLeaderboard(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) ([]visibility.PartnerRank, error) {
	vis, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return nil, err
	}
	return visibility.PartnerLeaderboard(vis, leaderboardLimit), nil
}

// Dashboard bundles every aggregate the overview page needs in one response.
type Dashboard struct {
	Stats              visibility.Stats         `json:"stats"`
	ThematicCoverage   []visibility.ThemeSlice  `json:"thematicCoverage"`
	GeographicSpread   []visibility.StateSlice  `json:"geographicSpread"`
	StatusDistribution []visibility.StatusSlice `json:"statusDistribution"`
	PartnerLeaderboard []visibility.PartnerRank `json:"partnerLeaderboard"`
}

// Dashboard computes all aggregates concurrently over one snapshot of the
// visible set, so the sections cannot disagree with each other.
func (s *Service) Dashboard(ctx context.Context, principal visibility.Principal, criteria visibility.Criteria) (*Dashboard, error) {
	vis, err := s.source.VisibleAll(ctx, principal, criteria)
	if err != nil {
		return nil, err
	}

	var out Dashboard
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Stats = visibility.ComputeStats(vis)
		return nil
	})
	g.Go(func() error {
		out.ThematicCoverage = visibility.ThematicCoverage(vis)
		return nil
	})
	g.Go(func() error {
		out.GeographicSpread = visibility.GeographicSpread(vis)
		return nil
	})
	g.Go(func() error {
		out.StatusDistribution = visibility.StatusDistribution(vis)
		return nil
	})
	g.Go(func() error {
		out.PartnerLeaderboard = visibility.PartnerLeaderboard(vis, leaderboardLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
