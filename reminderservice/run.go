// Package reminderservice wires the reminder service together and runs it.
package reminderservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog"

	"github.com/remindly/remindly-server/internal/api"
	"github.com/remindly/remindly-server/internal/auth"
	"github.com/remindly/remindly-server/internal/config"
	"github.com/remindly/remindly-server/internal/factory"
	"github.com/remindly/remindly-server/internal/health"
	"github.com/remindly/remindly-server/internal/logger"
	"github.com/remindly/remindly-server/internal/services"
	"github.com/remindly/remindly-server/internal/store"
	"github.com/remindly/remindly-server/internal/syncer"
)

// Run starts the reminder service HTTP server and blocks until shutdown or
// error.
func Run() error {
	log := logger.New("reminder-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		return err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("sheet_mirror", cfg.SheetURL != "").
		Str("assistant_provider", cfg.AssistantProvider).
		Msg("reminder service starting")

	ctx, stop := newServerContext()
	defer stop()

	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("store unavailable")
		return err
	}

	sheetClient := factory.NewSheetClient(cfg, log)
	provider := factory.NewAssistantProvider(cfg, log)
	clk := clock.New()

	var worker *syncer.Worker
	if sheetClient != nil {
		worker, err = syncer.New(sheetClient, st, clk, log, cfg.SyncPullSpec)
		if err != nil {
			log.Error().Stack().Err(err).Msg("invalid sync pull spec")
			return err
		}
		worker.Start()
		defer worker.Stop()
	}

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)

	var mirror services.Mirror
	var tracker services.SyncTracker
	if worker != nil {
		mirror = worker
		tracker = worker
	}
	router := api.NewRouter(api.Deps{
		Auth:      services.NewAuthService(st, issuer, sheetClient, tracker, log),
		Items:     services.NewItemService(st, mirror, clk),
		Insights:  services.NewInsightService(st, clk),
		Assistant: services.NewAssistantService(st, provider, clk, cfg.AssistantTemperature, log),
		Sync:      worker,
		Issuer:    issuer,
	})

	svcHealth := startHealthCheckers(ctx, cfg, log, st)
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("server forced to shutdown")
			return err
		}
		log.Info().Msg("server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// startHealthCheckers starts the store checker and the service aggregator
// and binds the health endpoint to the aggregated flag.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// startupHealthTimeout is interval*2 with a 60 second floor, giving the
// checkers time for their first probe cycle.
func startupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is green or the startup
// window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := startupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a context cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
