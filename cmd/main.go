package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"crowdsense/internal/api"
	"crowdsense/internal/config"
	"crowdsense/internal/engine"
	"crowdsense/internal/metrics"
	"crowdsense/internal/models"
	"crowdsense/internal/status"
	"crowdsense/internal/store"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	log := newLogger(cfg.LogLevel)

	stations := cfg.Stations()
	if err := models.ValidateStations(stations); err != nil {
		log.Fatal().Err(err).Msg("invalid station configuration")
	}

	db, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	collector := metrics.NewCollector()
	publisher := status.NewPublisher(cfg.OverrideCooldown(), log)

	eng := engine.New(engine.Config{
		Store:     db,
		Publisher: publisher,
		Stations:  stations,
		Metrics:   collector,
		MenuTTL:   cfg.MenuCacheTTL(),
		Logger:    log,
	})

	// Publish an initial status so dashboards have something to show
	// before the first order event arrives.
	if _, err := eng.Recalculate(context.Background()); err != nil {
		log.Error().Err(err).Msg("initial crowd calculation failed")
	}

	server := api.NewServer(db, eng, publisher, log)

	go startMetricsServer(cfg.Server.MetricsPort, collector, log)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown error")
		}
	}()

	log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("API server error")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", "crowdsense").
		Logger()
}

func startMetricsServer(port int, collector *metrics.Collector, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	log.Info().Int("port", port).Msg("starting metrics server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Error().Err(err).Msg("metrics server error")
	}
}
