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
	"github.com/surftober/surftober-server/internal/ratelimit"
	"github.com/surftober/surftober-server/internal/store"
)

// AuthService handles account setup, login and refresh-token sessions.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service. loginRatePerMinute
// caps login attempts per client IP.
func NewAuthService(store store.Store, tokenService *auth.TokenService, loginRatePerMinute int, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		loginLimiter: ratelimit.New(float64(loginRatePerMinute)/60.0, loginRatePerMinute),
		logger:       logger,
	}
}

// Close stops the background rate limiter cleanup.
func (s *AuthService) Close() {
	s.loginLimiter.Stop()
}

// SetupRequest contains the initial admin user creation data.
type SetupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
}

// RegisterRequest contains member registration data. Only admins may
// register additional members.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=64"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// IPAddress is extracted from the request by the handler and used for
	// rate limiting only.
	IPAddress string `json:"-"`
}

// RefreshRequest contains the opaque refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains authentication tokens and user data.
type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// SetupRequired reports whether no accounts exist yet.
func (s *AuthService) SetupRequired(ctx context.Context) (bool, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count == 0, nil
}

// Setup creates the first account. The first user is always an admin. This
// can only be done once, before any users exist.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	required, err := s.SetupRequired(ctx)
	if err != nil {
		return nil, err
	}
	if !required {
		return nil, domainerrors.AlreadyConfigured("server is already configured")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("server setup complete", "user_id", user.ID, "email", user.Email)

	return s.issueTokens(ctx, user)
}

// Register creates an additional member account. Only admins may call this.
func (s *AuthService) Register(ctx context.Context, claims *auth.AccessClaims, req RegisterRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can register new members")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, domain.RoleMember)
	if err != nil {
		return nil, err
	}

	s.logger.Info("member registered", "user_id", user.ID, "email", user.Email, "by", claims.UserID)
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, displayName string, role domain.Role) (*domain.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Email:        strings.TrimSpace(email),
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a new token pair. Attempts are rate
// limited per client IP.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if req.IPAddress != "" && !s.loginLimiter.Allow(req.IPAddress) {
		return nil, domainerrors.Unauthorized("too many login attempts, try again later")
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh session is rotated out.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	hash := auth.HashRefreshToken(req.RefreshToken)
	session, err := s.store.GetAuthSessionByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("get auth session: %w", err)
	}

	if session.IsExpired(time.Now()) {
		// Expired sessions are removed eagerly so the table doesn't
		// accumulate dead rows between sweeps.
		_ = s.store.DeleteAuthSession(ctx, session.ID)
		return nil, domainerrors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.store.DeleteAuthSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("rotate auth session: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the refresh session behind the given token. Unknown tokens
// are a no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hash := auth.HashRefreshToken(refreshToken)
	session, err := s.store.GetAuthSessionByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get auth session: %w", err)
	}

	if err := s.store.DeleteAuthSession(ctx, session.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete auth session: %w", err)
	}
	return nil
}

// GetUser returns the account for the given ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("user %s not found", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns every account, oldest first.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SweepExpiredSessions removes refresh sessions that expired before now.
func (s *AuthService) SweepExpiredSessions(ctx context.Context) error {
	deleted, err := s.store.DeleteExpiredAuthSessions(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("sweep auth sessions: %w", err)
	}
	if deleted > 0 {
		s.logger.Debug("swept expired auth sessions", "deleted", deleted)
	}
	return nil
}

// issueTokens creates an access token and a fresh refresh session for the
// user.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate("aus")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	session := &domain.AuthSession{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		CreatedAt:        now,
	}
	if err := s.store.CreateAuthSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create auth session: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.tokenService.AccessTokenDuration()),
	}, nil
}
