package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/surftober/surftober-server/internal/api"
	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/config"
	"github.com/surftober/surftober-server/internal/logger"
	"github.com/surftober/surftober-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	tokenService := do.MustInvoke[*auth.TokenService](i)
	authHandle := do.MustInvoke[*AuthServiceHandle](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	statsService := do.MustInvoke[*service.StatsService](i)
	exportService := do.MustInvoke[*service.ExportService](i)

	handler := api.NewServer(
		tokenService,
		authHandle.AuthService,
		sessionService,
		statsService,
		exportService,
		cfg.Server.CORSOrigins,
		log.Logger,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr, "name", cfg.Server.Name)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: server}, nil
}
