package providers

import (
	"github.com/samber/do/v2"

	"github.com/aiportalapp/aiportal-server/internal/assistant"
	"github.com/aiportalapp/aiportal-server/internal/auth"
	"github.com/aiportalapp/aiportal-server/internal/config"
	"github.com/aiportalapp/aiportal-server/internal/logger"
	"github.com/aiportalapp/aiportal-server/internal/service"
)

// ProvideAssistantClient provides the chat-completions upstream client.
func ProvideAssistantClient(i do.Injector) (*assistant.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Assistant.APIKey == "" {
		log.Warn("OPENROUTER_API_KEY is not set, assistant requests will fail upstream")
	}

	return assistant.NewClient(cfg.Assistant, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideCatalogService provides the tools catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, indexHandle.SearchIndex, log.Logger), nil
}

// ProvideAssistantService provides the catalog-grounded assistant service.
func ProvideAssistantService(i do.Injector) (*service.AssistantService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*assistant.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAssistantService(storeHandle.Store, client, log.Logger), nil
}
