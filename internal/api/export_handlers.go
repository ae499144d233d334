package api

import (
	"net/http"

	"github.com/surftober/surftober-server/internal/http/response"
)

// handleExportCSV streams the period's sessions as a CSV download.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	period, ok := s.parsePeriod(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sessions.csv"`)

	if err := s.exportService.ExportCSV(r.Context(), w, period); err != nil {
		// Headers are gone at this point; log and drop the connection.
		s.logger.Error("CSV export failed", "error", err)
	}
}

// handleImportCSV imports sessions from a CSV request body (admin only).
func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	created, err := s.exportService.ImportCSV(r.Context(), getClaims(r.Context()), r.Body)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]int{"imported": created}, s.logger)
}
