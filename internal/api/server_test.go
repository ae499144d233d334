package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/service"
	"github.com/surftober/surftober-server/internal/store/sqlite"
)

// testServer wraps the HTTP server with helpers for exercising routes.
type testServer struct {
	server *Server
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(s, tokenService, 1000, logger)
	t.Cleanup(authService.Close)

	server := NewServer(
		tokenService,
		authService,
		service.NewSessionService(s, logger),
		service.NewStatsService(s, logger),
		service.NewExportService(s, logger),
		[]string{"*"},
		logger,
	)

	return &testServer{server: server}
}

// do performs a request against the in-memory router.
func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

// setup runs first-user setup and returns the admin's access token.
func (ts *testServer) setup(t *testing.T) string {
	t.Helper()
	rec := ts.do(http.MethodPost, "/api/v1/auth/setup", "",
		`{"email":"jason@example.com","password":"hunter2hunter2","display_name":"Jason"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envelope struct {
		Data service.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Equal(t, "healthy", envelope.Data.Status)
	require.True(t, envelope.Data.SetupRequired)

	ts.setup(t)

	rec = ts.do(http.MethodGet, "/health", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.False(t, envelope.Data.SetupRequired)
}

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)
	ts.setup(t)

	// Second setup is rejected.
	rec := ts.do(http.MethodPost, "/api/v1/auth/setup", "",
		`{"email":"x@example.com","password":"hunter2hunter2","display_name":"X"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Login works and yields a usable token.
	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"jason@example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Data service.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	rec = ts.do(http.MethodGet, "/api/v1/users/me", envelope.Data.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"display_name":"Jason"`)

	// Bad password.
	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"jason@example.com","password":"wrong-password"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Refresh and logout.
	rec = ts.do(http.MethodPost, "/api/v1/auth/refresh", "",
		`{"refresh_token":"`+envelope.Data.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/auth/logout", "",
		`{"refresh_token":"`+envelope.Data.RefreshToken+`"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRoutesRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	for _, path := range []string{
		"/api/v1/sessions/",
		"/api/v1/export/csv",
		"/api/v1/users/me",
	} {
		rec := ts.do(http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := ts.do(http.MethodGet, "/api/v1/sessions/", "not-a-token", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Aggregates are public reads.
	rec = ts.do(http.MethodGet, "/api/v1/stats/leaderboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setup(t)

	rec := ts.do(http.MethodPost, "/api/v1/sessions/", token,
		`{"date":"2025-10-04","type":"surf","duration":"01:30","no_wetsuit":1,"location":"Ocean Beach"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			ID          string `json:"id"`
			BaseMinutes int    `json:"base_minutes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, 180, created.Data.BaseMinutes)

	// Read it back.
	rec = ts.do(http.MethodGet, "/api/v1/sessions/"+created.Data.ID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Update.
	rec = ts.do(http.MethodPut, "/api/v1/sessions/"+created.Data.ID, token,
		`{"date":"2025-10-04","type":"surf","duration":"02:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"duration_minutes":120`)

	// Listing filters by period.
	rec = ts.do(http.MethodGet, "/api/v1/sessions/?year=2025&month=10", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), created.Data.ID)

	rec = ts.do(http.MethodGet, "/api/v1/sessions/?year=2025&month=11", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), created.Data.ID)

	// Bad period params.
	rec = ts.do(http.MethodGet, "/api/v1/sessions/?month=10", token, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = ts.do(http.MethodGet, "/api/v1/sessions/?year=2025&month=13", token, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Delete.
	rec = ts.do(http.MethodDelete, "/api/v1/sessions/"+created.Data.ID, token, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(http.MethodGet, "/api/v1/sessions/"+created.Data.ID, token, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setup(t)

	rec := ts.do(http.MethodPost, "/api/v1/sessions/", token,
		`{"date":"2025-10-04","type":"surf","duration":"02:00"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/stats/leaderboard?year=2025&month=10", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"user":"Jason"`)
	require.Contains(t, rec.Body.String(), `"medal":"OBSERVER"`)

	rec = ts.do(http.MethodGet, "/api/v1/stats/rollups?year=2025&month=10", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total_minutes":120`)

	rec = ts.do(http.MethodGet, "/api/v1/stats/awards?year=2025&month=10", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "The Competition Award")
}

func TestCSVImportExport(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setup(t)

	csvBody := "user,date,type,duration,location,board,notes,no_wetsuit,costume,cleanup_items\n" +
		"Chase,2025-10-10,surf,01:00,Linda Mar,8'0,,0,0,0\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/csv", strings.NewReader(csvBody))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), `"imported":1`)

	out := ts.do(http.MethodGet, "/api/v1/export/csv?year=2025&month=10", token, "")
	require.Equal(t, http.StatusOK, out.Code)
	require.Equal(t, "text/csv; charset=utf-8", out.Header().Get("Content-Type"))
	require.Contains(t, out.Body.String(), "Chase,2025-10-10,surf,01:00,Linda Mar")
}

func TestImportRequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.setup(t)

	// Register a member, then log in as them.
	rec := ts.do(http.MethodPost, "/api/v1/users/", token,
		`{"email":"nic@example.com","password":"hunter2hunter2","display_name":"Nic"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(http.MethodPost, "/api/v1/auth/login", "",
		`{"email":"nic@example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data service.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	rec = ts.do(http.MethodPost, "/api/v1/import/csv", envelope.Data.AccessToken, "user,date\n")
	require.Equal(t, http.StatusForbidden, rec.Code)
}
