// Package service implements the application logic between the HTTP
// handlers and the store.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/domain"
	domainerrors "github.com/surftober/surftober-server/internal/errors"
	"github.com/surftober/surftober-server/internal/id"
	"github.com/surftober/surftober-server/internal/stats"
	"github.com/surftober/surftober-server/internal/store"
	"github.com/surftober/surftober-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// SessionService manages logged activity sessions.
type SessionService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(store store.Store, logger *slog.Logger) *SessionService {
	return &SessionService{store: store, logger: logger}
}

// SessionRequest is the client payload for creating or updating a session.
// Flag fields are loosely typed so CSV-shaped clients can send 0/1 as well
// as booleans; normalization coerces them.
type SessionRequest struct {
	User         string `json:"user"` // optional, defaults to the actor's display name
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Type         string `json:"type" validate:"required"`
	Duration     string `json:"duration"`
	Location     string `json:"location"`
	Board        string `json:"board"`
	Notes        string `json:"notes"`
	NoWetsuit    any    `json:"no_wetsuit"`
	Costume      any    `json:"costume"`
	CleanupItems any    `json:"cleanup_items"`
}

// rawSession converts the request into the untrusted record normalization
// expects.
func (r SessionRequest) rawSession() domain.RawSession {
	return domain.RawSession{
		User:         r.User,
		Date:         r.Date,
		Type:         r.Type,
		Duration:     r.Duration,
		Location:     r.Location,
		Board:        r.Board,
		Notes:        r.Notes,
		NoWetsuit:    r.NoWetsuit,
		Costume:      r.Costume,
		CleanupItems: r.CleanupItems,
	}
}

// applyCleanupRules pins the fields a cleanup session is not allowed to
// vary. Cleanups always score a flat hour with no multipliers or bonuses.
func applyCleanupRules(sess *domain.Session) {
	if sess.Type != domain.ActivityCleanup {
		return
	}
	sess.Duration = "01:00"
	sess.Board = "cleanup"
	sess.NoWetsuit = false
	sess.Costume = false
	stats.Canonicalize(sess)
}

// checkCostumeBonus enforces the one-costume-per-calendar-month rule.
// excludeID skips the session being edited.
func (s *SessionService) checkCostumeBonus(ctx context.Context, sess *domain.Session, excludeID string) error {
	if !sess.Costume {
		return nil
	}
	if len(sess.Date) < 7 {
		return nil
	}
	taken, err := s.store.HasCostumeSession(ctx, sess.User, sess.Date[:7], excludeID)
	if err != nil {
		return fmt.Errorf("check costume bonus: %w", err)
	}
	if taken {
		return domainerrors.Conflictf("%s already claimed the costume bonus in %s", sess.User, sess.Date[:7])
	}
	return nil
}

// canEdit reports whether the actor may modify the session. Owners edit
// their own sessions; admins edit anything, including imported sessions
// with no owning account.
func canEdit(claims *auth.AccessClaims, sess *domain.Session) bool {
	if claims.IsAdmin() {
		return true
	}
	return sess.UserID != "" && sess.UserID == claims.UserID
}

// Create normalizes and stores a new session for the actor.
func (s *SessionService) Create(ctx context.Context, claims *auth.AccessClaims, req SessionRequest) (*domain.Session, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	raw := req.rawSession()
	if raw.User == "" {
		raw.User = claims.DisplayName
	}

	sess := stats.Normalize(raw)
	sess.UserID = claims.UserID
	applyCleanupRules(&sess)

	if err := s.checkCostumeBonus(ctx, &sess, ""); err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("ses")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}
	sess.ID = sessionID

	now := time.Now()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	if err := s.store.CreateSession(ctx, &sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Debug("session logged",
		"session_id", sess.ID,
		"user", sess.User,
		"date", sess.Date,
		"type", sess.Type,
		"base_minutes", sess.BaseMinutes,
	)

	return &sess, nil
}

// Get returns a single session by ID.
func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("session %s not found", sessionID)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Update re-normalizes and stores an edited session. Only the owner or an
// admin may edit.
func (s *SessionService) Update(ctx context.Context, claims *auth.AccessClaims, sessionID string, req SessionRequest) (*domain.Session, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !canEdit(claims, existing) {
		return nil, domainerrors.Forbidden("you can only edit your own sessions")
	}

	raw := req.rawSession()
	if raw.User == "" {
		raw.User = existing.User
	}

	sess := stats.Normalize(raw)
	sess.ID = existing.ID
	sess.UserID = existing.UserID
	sess.CreatedAt = existing.CreatedAt
	sess.UpdatedAt = time.Now()
	applyCleanupRules(&sess)

	if err := s.checkCostumeBonus(ctx, &sess, sess.ID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSession(ctx, &sess); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("session %s not found", sessionID)
		}
		return nil, fmt.Errorf("update session: %w", err)
	}

	return &sess, nil
}

// Delete removes a session. Only the owner or an admin may delete.
func (s *SessionService) Delete(ctx context.Context, claims *auth.AccessClaims, sessionID string) error {
	existing, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !canEdit(claims, existing) {
		return domainerrors.Forbidden("you can only delete your own sessions")
	}

	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("session %s not found", sessionID)
		}
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Debug("session deleted", "session_id", sessionID, "by", claims.UserID)
	return nil
}

// List returns all sessions in the period, oldest first. A non-empty
// userName restricts the result to that display name (trimmed match, the
// same key the aggregation engine groups by).
func (s *SessionService) List(ctx context.Context, period domain.Period, userName string) ([]domain.Session, error) {
	sessions, err := s.store.ListSessions(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	if name := strings.TrimSpace(userName); name != "" {
		filtered := make([]domain.Session, 0, len(sessions))
		for _, sess := range sessions {
			if strings.TrimSpace(sess.User) == name {
				filtered = append(filtered, sess)
			}
		}
		sessions = filtered
	}
	return sessions, nil
}

// ListMine returns the actor's own sessions in the period.
func (s *SessionService) ListMine(ctx context.Context, claims *auth.AccessClaims, period domain.Period) ([]domain.Session, error) {
	sessions, err := s.store.ListUserSessions(ctx, claims.UserID, period)
	if err != nil {
		return nil, fmt.Errorf("list user sessions: %w", err)
	}
	return sessions, nil
}
