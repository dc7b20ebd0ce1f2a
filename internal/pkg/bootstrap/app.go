package bootstrap

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bazaar/internal/pkg/config"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/tracing"
)

// AppCtx is handed to each service so it can register its routes and read
// shared configuration.
type AppCtx struct {
	Mux *http.ServeMux
	Cfg *config.Config
}

// AppInfo describes one service binary.
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) error
	// Background, if set, runs alongside the HTTP server (consumers, pollers).
	// Its error stops the service.
	Background func(ctx context.Context) error
}

// StartService wires config, logging and tracing, runs the HTTP server plus
// any background loop, and shuts everything down in order on SIGINT/SIGTERM.
func StartService(info AppInfo) {
	logger.Init(info.ServiceName)
	log := logger.Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(AppCtx{Mux: mux, Cfg: cfg}); err != nil {
			log.Fatal().Err(err).Msg("failed to register handlers")
		}
	}

	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Int("port", info.Port).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	if info.Background != nil {
		g.Go(func() error { return info.Background(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down http server")
		}
		// Flush buffered spans before exiting.
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("service stopped")
	}
	log.Info().Msg("service gracefully shut down")
}
