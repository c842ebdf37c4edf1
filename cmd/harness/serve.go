package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erauner12/widget-harness/internal/config"
	"github.com/erauner12/widget-harness/internal/httpapi"
	"github.com/erauner12/widget-harness/internal/mcpclient"
	"github.com/erauner12/widget-harness/internal/widget"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newConnector is swapped in tests to reach an in-memory server
var newConnector = func(cfg *config.Config) *mcpclient.Connector {
	return mcpclient.NewConnector(mcpclient.ConnectorOptions{
		Name:      "widget-harness",
		Version:   version,
		Transport: mcpclient.TransportKind(cfg.Transport),
	})
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the harness HTTP server",
		RunE:  runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().Bool("insecure", false, "Skip TLS verification when connecting to MCP servers")
	return cmd
}

func newHTTPServer(cfg *config.Config, limiter *httpapi.RateLimiter) *http.Server {
	srv := &httpapi.Server{
		Connector:      newConnector(cfg),
		Renderer:       &widget.Renderer{CSP: widget.CSPDeriver{LocalOrigins: cfg.LocalOrigins}},
		SessionOptions: mcpclient.SessionOptions{AllowInsecureTransport: cfg.AllowInsecureTransport},
		RetryAfter:     cfg.RetryAfter(),
		DemoQuery:      cfg.DemoQuery,
		RateLimiter:    limiter,
		Version:        version,
		Transport:      cfg.Transport,
	}

	return &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.ListenAddr = addr
	}
	if insecure, _ := cmd.Flags().GetBool("insecure"); insecure {
		cfg.AllowInsecureTransport = true
	}

	setupLogging(cfg)

	log.Info().
		Str("version", version).
		Str("addr", cfg.ListenAddr).
		Str("transport", cfg.Transport).
		Strs("localOrigins", cfg.LocalOrigins).
		Msg("starting widget harness")

	if cfg.AllowInsecureTransport {
		log.Warn().Msg("TLS verification disabled for MCP server connections")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	limiter := newRateLimiter(cfg)
	if limiter != nil {
		go sweepRateLimiter(ctx, limiter)
	}

	httpServer := newHTTPServer(cfg, limiter)

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
			return err
		}
		return nil
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

func newRateLimiter(cfg *config.Config) *httpapi.RateLimiter {
	if cfg.RateLimitPerMinute == 0 {
		return nil
	}
	return httpapi.NewRateLimiter(httpapi.RateLimitInfo{
		WindowSeconds: 60,
		MaxRequests:   cfg.RateLimitPerMinute,
		Burst:         cfg.RateLimitBurst,
	})
}

// sweepRateLimiter drops buckets of clients idle for an hour until ctx ends
func sweepRateLimiter(ctx context.Context, limiter *httpapi.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Sweep(time.Hour); n > 0 {
				log.Debug().Int("removed", n).Msg("swept idle rate limit buckets")
			}
		}
	}
}
