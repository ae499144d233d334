package api

import (
	"net/http"

	"github.com/surftober/surftober-server/internal/http/response"
)

// handleLeaderboard returns the medal table for the requested period.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	period, ok := s.parsePeriod(w, r)
	if !ok {
		return
	}

	board, err := s.statsService.Leaderboard(r.Context(), period)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, board, s.logger)
}

// handleRollups returns the full per-user rollups for the requested period,
// optionally narrowed to one display name via ?user.
func (s *Server) handleRollups(w http.ResponseWriter, r *http.Request) {
	period, ok := s.parsePeriod(w, r)
	if !ok {
		return
	}

	rollups, err := s.statsService.Rollups(r.Context(), period, r.URL.Query().Get("user"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, rollups, s.logger)
}

// handleAwards returns the superlative awards for the requested period.
func (s *Server) handleAwards(w http.ResponseWriter, r *http.Request) {
	period, ok := s.parsePeriod(w, r)
	if !ok {
		return
	}

	outcome, err := s.statsService.Awards(r.Context(), period)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, outcome, s.logger)
}
