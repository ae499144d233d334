package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/surftober/surftober-server/internal/http/response"
	"github.com/surftober/surftober-server/internal/service"
)

// handleCreateSession logs a new activity session for the caller.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req service.SessionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.sessionService.Create(r.Context(), getClaims(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, sess, s.logger)
}

// handleGetSession returns a single session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sess, s.logger)
}

// handleUpdateSession edits a session (owner or admin).
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req service.SessionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.sessionService.Update(r.Context(), getClaims(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sess, s.logger)
}

// handleDeleteSession removes a session (owner or admin).
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessionService.Delete(r.Context(), getClaims(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleListSessions returns all sessions in the requested period,
// optionally narrowed to one display name via ?user.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	period, ok := s.parsePeriod(w, r)
	if !ok {
		return
	}

	sessions, err := s.sessionService.List(r.Context(), period, r.URL.Query().Get("user"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sessions, s.logger)
}

// handleListMySessions returns the caller's own sessions.
func (s *Server) handleListMySessions(w http.ResponseWriter, r *http.Request) {
	period, ok := s.parsePeriod(w, r)
	if !ok {
		return
	}

	sessions, err := s.sessionService.ListMine(r.Context(), getClaims(r.Context()), period)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sessions, s.logger)
}
