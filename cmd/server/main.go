package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"hos-trip-planner/internal/api"
	"hos-trip-planner/internal/app"
	"hos-trip-planner/internal/config"
	"hos-trip-planner/internal/platform/logging"
	"hos-trip-planner/internal/platform/metrics"
)

// main is the application composition root.
// It wires concrete adapters (SQL caches, ORS) behind ports and starts the HTTP server.
func main() {
	log := logging.New("server")

	cfg, err := config.Load(config.Get("CONFIG_FILE", ""))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	log = log.Level(logging.ParseLevel(cfg.LogLevel))
	logging.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	// Initialize schema and seed known locations on startup for local runs.
	seeded, err := store.Init(ctx, cfg.SeedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("init store")
	}
	log.Info().Str("dialect", store.Dialect.String()).Int("seeded", seeded).Msg("store ready")

	geocoder, router, err := app.Providers(cfg, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build providers")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("register metrics")
	}

	handler := api.NewRouter(api.Deps{
		Geocoder: geocoder,
		Router:   router,
		Policy:   cfg.Policy,
		Logger:   log,
		Metrics:  rec,
		Gatherer: reg,
	})

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}
