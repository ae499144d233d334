package providers

import (
	"github.com/samber/do/v2"

	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/config"
	"github.com/surftober/surftober-server/internal/logger"
	"github.com/surftober/surftober-server/internal/service"
)

// AuthServiceHandle wraps AuthService so its rate limiter shuts down with
// the container.
type AuthServiceHandle struct {
	*service.AuthService
}

// Shutdown implements do.Shutdownable.
func (h *AuthServiceHandle) Shutdown() error {
	h.AuthService.Close()
	return nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*AuthServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewAuthService(storeHandle.Store, tokenService, cfg.Auth.LoginRatePerMinute, log.Logger)
	return &AuthServiceHandle{AuthService: svc}, nil
}

// ProvideSessionService provides the activity session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the stats service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideExportService provides the CSV import/export service.
func ProvideExportService(i do.Injector) (*service.ExportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewExportService(storeHandle.Store, log.Logger), nil
}
