// Package store defines the persistence interface for the Surftober server
// and the errors its implementations return.
package store

import (
	"context"
	"time"

	"github.com/surftober/surftober-server/internal/domain"
)

// Store is the full persistence surface consumed by the service layer.
// The canonical implementation lives in the sqlite subpackage.
type Store interface {
	UserStore
	AuthSessionStore
	SessionStore

	Close() error
}

// UserStore manages user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists if the ID or
	// email is taken.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// GetUserByEmail retrieves a user by case-insensitive email match.
	// Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListUsers returns all users ordered by creation time.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user *domain.User) error
	// CountUsers returns the total number of user accounts.
	CountUsers(ctx context.Context) (int, error)
}

// AuthSessionStore manages refresh-token sessions.
type AuthSessionStore interface {
	CreateAuthSession(ctx context.Context, session *domain.AuthSession) error
	// GetAuthSessionByTokenHash looks up a session by its hashed refresh
	// token. Returns ErrNotFound if absent.
	GetAuthSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error)
	DeleteAuthSession(ctx context.Context, id string) error
	// DeleteUserAuthSessions removes every refresh session for a user.
	DeleteUserAuthSessions(ctx context.Context, userID string) error
	// DeleteExpiredAuthSessions removes sessions expired before now and
	// returns the number deleted.
	DeleteExpiredAuthSessions(ctx context.Context, now time.Time) (int64, error)
}

// SessionStore manages logged activity sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	// GetSession retrieves a session by ID. Returns ErrNotFound if absent.
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	// ListSessions returns sessions inside the period ordered by date then
	// creation time. A zero period returns everything.
	ListSessions(ctx context.Context, period domain.Period) ([]domain.Session, error)
	// ListUserSessions is ListSessions restricted to one owning account.
	ListUserSessions(ctx context.Context, userID string, period domain.Period) ([]domain.Session, error)
	// HasCostumeSession reports whether the named user already has a
	// costume-flagged session in the given calendar month ("2025-10").
	// excludeID skips one session, for edits.
	HasCostumeSession(ctx context.Context, userName, yearMonth, excludeID string) (bool, error)
}
