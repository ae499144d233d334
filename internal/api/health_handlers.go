package api

import (
	"net/http"

	"github.com/surftober/surftober-server/internal/http/response"
)

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status string `json:"status"` // healthy or unhealthy
	// SetupRequired tells clients to show the first-run setup flow.
	SetupRequired bool `json:"setup_required"`
}

// handleHealthCheck reports server health. The setup probe doubles as the
// database check since it runs a query.
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	required, err := s.authService.SetupRequired(r.Context())
	if err != nil {
		s.logger.Error("health check failed", "error", err)
		response.JSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy"}, s.logger)
		return
	}

	response.Success(w, HealthResponse{Status: "healthy", SetupRequired: required}, s.logger)
}
