package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/surftober/surftober-server/internal/domain"
	"github.com/surftober/surftober-server/internal/store"
)

// authSessionColumns is the ordered list of columns selected in auth session
// queries. Must match the scan order in scanAuthSession.
const authSessionColumns = `id, user_id, refresh_token_hash, expires_at, created_at`

// scanAuthSession scans a sql.Row (or sql.Rows) into a domain.AuthSession.
func scanAuthSession(scanner interface{ Scan(dest ...any) error }) (*domain.AuthSession, error) {
	var a domain.AuthSession

	var (
		expiresAt string
		createdAt string
	)

	err := scanner.Scan(
		&a.ID,
		&a.UserID,
		&a.RefreshTokenHash,
		&expiresAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.ExpiresAt, err = parseTime(expiresAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAuthSession inserts a new refresh-token session.
// Returns store.ErrAlreadyExists if the ID or token hash already exists.
func (s *Store) CreateAuthSession(ctx context.Context, session *domain.AuthSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_sessions (
			id, user_id, refresh_token_hash, expires_at, created_at
		) VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAuthSessionByTokenHash looks up a refresh session by its hashed token.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) GetAuthSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.AuthSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+authSessionColumns+` FROM auth_sessions WHERE refresh_token_hash = ?`, tokenHash)

	a, err := scanAuthSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAuthSession removes a refresh session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) DeleteAuthSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteUserAuthSessions removes every refresh session for a user.
func (s *Store) DeleteUserAuthSessions(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE user_id = ?`, userID)
	return err
}

// DeleteExpiredAuthSessions removes sessions that expired before now and
// returns the number deleted.
func (s *Store) DeleteExpiredAuthSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM auth_sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
