package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/domain"
	domainerrors "github.com/surftober/surftober-server/internal/errors"
	"github.com/surftober/surftober-server/internal/export"
	"github.com/surftober/surftober-server/internal/id"
	"github.com/surftober/surftober-server/internal/stats"
	"github.com/surftober/surftober-server/internal/store"
)

// ExportService moves sessions in and out of the CSV interchange format.
type ExportService struct {
	store  store.Store
	logger *slog.Logger
}

// NewExportService creates a new export service.
func NewExportService(store store.Store, logger *slog.Logger) *ExportService {
	return &ExportService{store: store, logger: logger}
}

// ExportCSV streams the period's sessions to w as CSV.
func (s *ExportService) ExportCSV(ctx context.Context, w io.Writer, period domain.Period) error {
	sessions, err := s.store.ListSessions(ctx, period)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	return export.WriteSessions(w, sessions)
}

// ImportCSV reads CSV rows from r, normalizes each one, and stores them.
// Imported rows carry no owning account; only admins may import. Returns
// the number of sessions created.
func (s *ExportService) ImportCSV(ctx context.Context, claims *auth.AccessClaims, r io.Reader) (int, error) {
	if !claims.IsAdmin() {
		return 0, domainerrors.Forbidden("only admins can import sessions")
	}

	raws, err := export.ReadSessions(r)
	if err != nil {
		return 0, domainerrors.Validation("malformed CSV").WithCause(err)
	}

	now := time.Now()
	created := 0
	for i, raw := range raws {
		sess := stats.Normalize(raw)
		if sess.User == "" || sess.Date == "" {
			return created, domainerrors.Validationf("row %d: user and date are required", i+2)
		}
		applyCleanupRules(&sess)

		sessionID, err := id.Generate("ses")
		if err != nil {
			return created, fmt.Errorf("generate session ID: %w", err)
		}
		sess.ID = sessionID
		sess.CreatedAt = now
		sess.UpdatedAt = now

		if err := s.store.CreateSession(ctx, &sess); err != nil {
			return created, fmt.Errorf("import row %d: %w", i+2, err)
		}
		created++
	}

	s.logger.Info("CSV import complete", "sessions", created, "by", claims.UserID)
	return created, nil
}
