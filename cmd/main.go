package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/ghost-detector/internal/api"
	"github.com/maxaizer/ghost-detector/internal/clients/parser"
	"github.com/maxaizer/ghost-detector/internal/config"
	"github.com/maxaizer/ghost-detector/internal/events"
	"github.com/maxaizer/ghost-detector/internal/logger"
	"github.com/maxaizer/ghost-detector/internal/metrics"
	"github.com/maxaizer/ghost-detector/internal/scoring"
	"github.com/maxaizer/ghost-detector/internal/services"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/maxaizer/ghost-detector/internal/storage/edgestore"
	"github.com/maxaizer/ghost-detector/internal/storage/memstore"
	"github.com/maxaizer/ghost-detector/internal/storage/sqlstore"
	log "github.com/sirupsen/logrus"
)

func selectBackend(ctx context.Context, cfg config.DBConfig) (storage.Backend, func()) {

	if cfg.ConnectionString != "" {
		store, err := sqlstore.Open(cfg.ConnectionString)
		if err != nil {
			log.Fatalf("can't open database: %v", err)
		}
		if err = store.Migrate(); err != nil {
			log.Fatalf("can't migrate database: %v", err)
		}
		return store, func() { _ = store.Close() }
	}

	if cfg.EdgeURL != "" {
		store, err := edgestore.Open(ctx, cfg.EdgeURL)
		if err != nil {
			log.Fatalf("can't open edge store: %v", err)
		}
		return store, func() { _ = store.Close() }
	}

	log.Warn("no storage configured, falling back to in-memory store")
	return memstore.New(), func() {}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	backend, closeBackend := selectBackend(ctx, cfg.DB)
	defer closeBackend()

	var fallback storage.Backend
	if backend.Name() != "memory" {
		fallback = memstore.New()
	}

	bus := EventBus.New()
	err := bus.Subscribe(events.AnalysisCompletedTopic, func(event events.AnalysisCompleted) {
		log.Infof("analysis completed for %v, company %v, probability %.3f, duplicate: %v",
			event.URL, event.Company, event.GhostProbability, event.Duplicate)
	})
	if err != nil {
		log.Fatalf("can't subscribe to analysis events: %v", err)
	}

	cached := storage.NewCached(backend)
	service := services.NewAnalysisService(bus, cached, fallback,
		parser.NewClient(), scoring.NewHeuristicScorer())

	cleaner, err := services.NewAnalysesCleaner(cached, cfg.API.RetentionDays)
	if err != nil {
		log.Fatalf("can't create cleaner: %v", err)
	}
	defer cleaner.Stop()

	server := api.NewServer(cfg.API, service)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("api server failed: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("api server shutdown failed: %v", err)
	}
	log.Info("Services stopped.")
}
