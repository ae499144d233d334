package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/surftober/surftober-server/internal/domain"
	"github.com/surftober/surftober-server/internal/http/response"
)

// decodeJSON reads the request body into dst. On failure it writes a 400
// and returns false; the handler should just return.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		response.BadRequest(w, "Invalid JSON body", s.logger)
		return false
	}
	return true
}

// parsePeriod reads the optional year and month query parameters. Both
// absent means no restriction; month without year is rejected.
func (s *Server) parsePeriod(w http.ResponseWriter, r *http.Request) (domain.Period, bool) {
	var period domain.Period

	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1 {
			response.BadRequest(w, "Invalid year parameter", s.logger)
			return period, false
		}
		period.Year = year
	}

	if m := r.URL.Query().Get("month"); m != "" {
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			response.BadRequest(w, "Invalid month parameter", s.logger)
			return period, false
		}
		if period.Year == 0 {
			response.BadRequest(w, "month requires year", s.logger)
			return period, false
		}
		period.Month = month
	}

	return period, true
}
