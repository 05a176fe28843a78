// Package keepalive pings the service's own public URL on an interval so
// free-tier hosts do not idle the instance out.
package keepalive

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger issues periodic GET requests against a target URL. Failures are
// logged and dropped; the loop keeps going until the context is cancelled.
type Pinger struct {
	url        string
	interval   time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Pinger. An empty url yields a disabled pinger whose Start
// returns immediately.
func New(url string, interval time.Duration, logger *slog.Logger) *Pinger {
	if interval <= 0 {
		interval = 14 * time.Minute
	}
	return &Pinger{
		url:      url,
		interval: interval,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether the pinger has a target to ping.
func (p *Pinger) Enabled() bool {
	return p.url != ""
}

// Start runs the ping loop until ctx is cancelled. The first ping fires
// immediately so a fresh deploy registers as alive right away. This should
// be called once at server startup in a goroutine.
func (p *Pinger) Start(ctx context.Context) {
	if !p.Enabled() {
		return
	}

	p.logger.Info("Keep-alive pinger starting", "url", p.url, "interval", p.interval)

	p.ping(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.ping(ctx)
		case <-ctx.Done():
			p.logger.Info("Keep-alive pinger stopping")
			return
		}
	}
}

func (p *Pinger) ping(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.logger.Warn("Keep-alive request build failed", "error", err)
		return
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("Keep-alive ping failed", "error", err)
		return
	}
	defer resp.Body.Close()

	p.logger.Debug("Keep-alive ping", "status", resp.StatusCode)
}
