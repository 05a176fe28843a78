// Package di provides dependency injection configuration for the AIPortal server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/aiportalapp/aiportal-server/internal/assistant"
	"github.com/aiportalapp/aiportal-server/internal/auth"
	"github.com/aiportalapp/aiportal-server/internal/config"
	"github.com/aiportalapp/aiportal-server/internal/di/providers"
	"github.com/aiportalapp/aiportal-server/internal/logger"
	"github.com/aiportalapp/aiportal-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Upstream clients
	do.Provide(injector, providers.ProvideAssistantClient)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideAssistantService)

	// Server and background loops
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideKeepAlive)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[providers.AuthKey](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.SearchIndexHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*assistant.Client](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.CatalogService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.AssistantService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.KeepAliveHandle](injector); err != nil {
		return err
	}

	// With everything wired, rebuild the title index if it came up empty.
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
