package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/surftober/surftober-server/internal/domain"
	"github.com/surftober/surftober-server/internal/stats"
	"github.com/surftober/surftober-server/internal/store"
)

// StatsService computes leaderboards, rollups and awards over the logged
// sessions. All computation is delegated to the stats package; this service
// just feeds it the stored sessions for a period.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: store, logger: logger}
}

// LeaderboardEntry is the medal-table view of a user's rollup.
type LeaderboardEntry struct {
	User       string       `json:"user"`
	TotalHours float64      `json:"total_hours"`
	Medal      domain.Medal `json:"medal"`
}

// Leaderboard returns the medal table for the period, best hours first.
func (s *StatsService) Leaderboard(ctx context.Context, period domain.Period) ([]LeaderboardEntry, error) {
	rollups, err := s.Rollups(ctx, period, "")
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rollups))
	for _, r := range rollups {
		entries = append(entries, LeaderboardEntry{
			User:       r.User,
			TotalHours: r.TotalHours,
			Medal:      r.Medal,
		})
	}
	return entries, nil
}

// Rollups returns the full per-user rollups for the period, best hours
// first. A non-empty userName narrows the result to that display name;
// the rollup itself is still computed over the user's own sessions only,
// so the filter cannot change any numbers.
func (s *StatsService) Rollups(ctx context.Context, period domain.Period, userName string) ([]domain.UserRollup, error) {
	sessions, err := s.store.ListSessions(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	rollups := stats.Rollup(sessions, period)
	if name := strings.TrimSpace(userName); name != "" {
		filtered := make([]domain.UserRollup, 0, 1)
		for _, r := range rollups {
			if r.User == name {
				filtered = append(filtered, r)
			}
		}
		rollups = filtered
	}
	return rollups, nil
}

// Awards returns the superlative awards for the period.
func (s *StatsService) Awards(ctx context.Context, period domain.Period) (*domain.AwardOutcome, error) {
	sessions, err := s.store.ListSessions(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	outcome := stats.ComputeAwards(sessions, period)
	return &outcome, nil
}
