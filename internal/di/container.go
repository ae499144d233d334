// Package di provides dependency injection configuration for the Surftober
// server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/surftober/surftober-server/internal/auth"
	"github.com/surftober/surftober-server/internal/config"
	"github.com/surftober/surftober-server/internal/di/providers"
	"github.com/surftober/surftober-server/internal/logger"
	"github.com/surftober/surftober-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideExportService)

	// Workers
	do.Provide(injector, providers.ProvideAuthSessionSweepJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is up.
// This triggers lazy initialization of everything the HTTP server needs.
func Bootstrap(injector *do.RootScope) error {
	invocations := []func() error{
		func() error { _, err := do.Invoke[*config.Config](injector); return err },
		func() error { _, err := do.Invoke[*logger.Logger](injector); return err },
		func() error { _, err := do.Invoke[providers.AuthKey](injector); return err },
		func() error { _, err := do.Invoke[*providers.StoreHandle](injector); return err },
		func() error { _, err := do.Invoke[*auth.TokenService](injector); return err },
		func() error { _, err := do.Invoke[*providers.AuthServiceHandle](injector); return err },
		func() error { _, err := do.Invoke[*service.SessionService](injector); return err },
		func() error { _, err := do.Invoke[*service.StatsService](injector); return err },
		func() error { _, err := do.Invoke[*service.ExportService](injector); return err },
		func() error { _, err := do.Invoke[*providers.AuthSessionSweepJob](injector); return err },
		func() error { _, err := do.Invoke[*providers.HTTPServerHandle](injector); return err },
	}

	for _, invoke := range invocations {
		if err := invoke(); err != nil {
			return err
		}
	}
	return nil
}
