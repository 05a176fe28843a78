package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/aiportalapp/aiportal-server/internal/api"
	"github.com/aiportalapp/aiportal-server/internal/config"
	"github.com/aiportalapp/aiportal-server/internal/keepalive"
	"github.com/aiportalapp/aiportal-server/internal/logger"
	"github.com/aiportalapp/aiportal-server/internal/service"
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

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)
	assistantService := do.MustInvoke[*service.AssistantService](i)

	handler := api.NewServer(authService, catalogService, assistantService, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}

// KeepAliveHandle wraps the keep-alive pinger with its cancel func.
type KeepAliveHandle struct {
	*keepalive.Pinger
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *KeepAliveHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideKeepAlive provides the self-ping loop that keeps free-tier hosts
// from idling the instance out. Disabled when no URL is configured.
func ProvideKeepAlive(i do.Injector) (*KeepAliveHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	pinger := keepalive.New(cfg.KeepAlive.URL, cfg.KeepAlive.Interval, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	if pinger.Enabled() {
		go pinger.Start(ctx)
	} else {
		log.Info("Keep-alive pinger disabled (no KEEPALIVE_URL)")
	}

	return &KeepAliveHandle{Pinger: pinger, cancel: cancel}, nil
}
