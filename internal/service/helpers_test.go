package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/domain"
	"github.com/surftober/surftober-server/internal/store/sqlite"
)

// testEnv bundles the services under test backed by a temp database.
type testEnv struct {
	store    *sqlite.Store
	tokens   *auth.TokenService
	auth     *AuthService
	sessions *SessionService
	stats    *StatsService
	export   *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authKey, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	authService := NewAuthService(s, tokenService, 1000, logger)
	t.Cleanup(authService.Close)

	return &testEnv{
		store:    s,
		tokens:   tokenService,
		auth:     authService,
		sessions: NewSessionService(s, logger),
		stats:    NewStatsService(s, logger),
		export:   NewExportService(s, logger),
	}
}

// setupAdmin runs first-user setup and returns the admin's claims.
func (e *testEnv) setupAdmin(t *testing.T) *auth.AccessClaims {
	t.Helper()
	resp, err := e.auth.Setup(context.Background(), SetupRequest{
		Email:       "jason@example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Jason",
	})
	require.NoError(t, err)
	return claimsFor(resp.User)
}

// registerMember creates a member account and returns its claims.
func (e *testEnv) registerMember(t *testing.T, admin *auth.AccessClaims, email, name string) *auth.AccessClaims {
	t.Helper()
	user, err := e.auth.Register(context.Background(), admin, RegisterRequest{
		Email:       email,
		Password:    "hunter2hunter2",
		DisplayName: name,
	})
	require.NoError(t, err)
	return claimsFor(user)
}

// claimsFor builds access claims directly, skipping token round-trips.
func claimsFor(u *domain.User) *auth.AccessClaims {
	return &auth.AccessClaims{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// surfRequest is a minimal valid session payload.
func surfRequest(date, duration string) SessionRequest {
	return SessionRequest{
		Date:     date,
		Type:     "surf",
		Duration: duration,
	}
}
