package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/surftober/surftober-server/internal/domain"
	"github.com/surftober/surftober-server/internal/store"
)

// sessionColumns is the ordered list of columns selected in session queries.
// Must match the scan order in scanSession.
const sessionColumns = `id, user_id, user_name, date, type, duration, location, board, notes,
	no_wetsuit, costume, cleanup_items, duration_minutes, base_minutes,
	created_at, updated_at`

// scanSession scans a sql.Row (or sql.Rows via its Scan method) into a domain.Session.
func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var sess domain.Session

	var (
		userID       sql.NullString
		activityType string
		noWetsuit    int
		costume      int
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&sess.ID,
		&userID,
		&sess.User,
		&sess.Date,
		&activityType,
		&sess.Duration,
		&sess.Location,
		&sess.Board,
		&sess.Notes,
		&noWetsuit,
		&costume,
		&sess.CleanupItems,
		&sess.DurationMinutes,
		&sess.BaseMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID.Valid {
		sess.UserID = userID.String
	}
	sess.Type = domain.Activity(activityType)
	sess.NoWetsuit = noWetsuit != 0
	sess.Costume = costume != 0

	sess.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sess.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// periodFilter builds WHERE clauses restricting the text date column to a
// period. Dates are stored as YYYY-MM-DD so year and month are fixed-width
// substrings.
func periodFilter(period domain.Period) ([]string, []any) {
	var clauses []string
	var args []any
	if period.Year != 0 {
		clauses = append(clauses, "substr(date, 1, 4) = ?")
		args = append(args, fmt.Sprintf("%04d", period.Year))
	}
	if period.Month != 0 {
		clauses = append(clauses, "substr(date, 6, 2) = ?")
		args = append(args, fmt.Sprintf("%02d", period.Month))
	}
	return clauses, args
}

// CreateSession inserts a new activity session.
// Returns store.ErrAlreadyExists if the session ID already exists.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			id, user_id, user_name, date, type, duration, location, board, notes,
			no_wetsuit, costume, cleanup_items, duration_minutes, base_minutes,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		nullString(session.UserID),
		session.User,
		session.Date,
		string(session.Type),
		session.Duration,
		session.Location,
		session.Board,
		session.Notes,
		boolToInt(session.NoWetsuit),
		boolToInt(session.Costume),
		session.CleanupItems,
		session.DurationMinutes,
		session.BaseMinutes,
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetSession retrieves a session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// UpdateSession persists changes to an existing session.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET
			user_id = ?, user_name = ?, date = ?, type = ?, duration = ?,
			location = ?, board = ?, notes = ?,
			no_wetsuit = ?, costume = ?, cleanup_items = ?,
			duration_minutes = ?, base_minutes = ?, updated_at = ?
		WHERE id = ?`,
		nullString(session.UserID),
		session.User,
		session.Date,
		string(session.Type),
		session.Duration,
		session.Location,
		session.Board,
		session.Notes,
		boolToInt(session.NoWetsuit),
		boolToInt(session.Costume),
		session.CleanupItems,
		session.DurationMinutes,
		session.BaseMinutes,
		formatTime(session.UpdatedAt),
		session.ID,
	)
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

// DeleteSession removes a session by ID.
// Returns store.ErrNotFound if the session does not exist.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
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

// ListSessions returns sessions inside the period ordered by date, then
// creation time. A zero period returns everything.
func (s *Store) ListSessions(ctx context.Context, period domain.Period) ([]domain.Session, error) {
	return s.listSessions(ctx, period, "", "")
}

// ListUserSessions is ListSessions restricted to one owning account.
func (s *Store) ListUserSessions(ctx context.Context, userID string, period domain.Period) ([]domain.Session, error) {
	return s.listSessions(ctx, period, "user_id = ?", userID)
}

func (s *Store) listSessions(ctx context.Context, period domain.Period, extraClause string, extraArg any) ([]domain.Session, error) {
	clauses, args := periodFilter(period)
	if extraClause != "" {
		clauses = append(clauses, extraClause)
		args = append(args, extraArg)
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY date ASC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// HasCostumeSession reports whether the named user already has a
// costume-flagged session in the given calendar month ("2025-10").
// excludeID skips one session, for edits.
func (s *Store) HasCostumeSession(ctx context.Context, userName, yearMonth, excludeID string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM sessions
			WHERE user_name = ? AND costume = 1
			  AND substr(date, 1, 7) = ? AND id <> ?
		)`,
		userName, yearMonth, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists != 0, nil
}
