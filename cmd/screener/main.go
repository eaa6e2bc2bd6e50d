// Package main runs the live token screener: websocket discovery feed,
// metadata enrichment, buffered ingestion into the in-memory token store,
// simulated price ticks, and the HTTP API serving the screener view.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pumpwatch/internal/api"
	"pumpwatch/internal/config"
	"pumpwatch/internal/domain"
	"pumpwatch/internal/enrich"
	"pumpwatch/internal/feed"
	"pumpwatch/internal/ingest"
	"pumpwatch/internal/price"
	"pumpwatch/internal/storage"
	chstore "pumpwatch/internal/storage/clickhouse"
	"pumpwatch/internal/storage/file"
	"pumpwatch/internal/storage/memory"
	pgstore "pumpwatch/internal/storage/postgres"
	"pumpwatch/internal/watchlist"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	log := newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("shutting down")
		cancel()
	}()

	tokens := memory.NewTokenStore()
	prices := memory.NewPriceSeriesStore()

	watchlistStore := newWatchlistStore(ctx, cfg, log)
	archive := newPriceArchive(ctx, cfg, log)

	wl := watchlist.NewService(watchlist.Options{
		Store:  watchlistStore,
		Tokens: tokens,
		Logger: logrus.NewEntry(log),
	})
	if err := wl.Load(ctx); err != nil {
		log.WithError(err).Warn("watchlist load failed, starting empty")
	}

	feedCfg := feed.DefaultConfig(cfg.Feed.URL)
	feedCfg.ReconnectDelay = time.Duration(cfg.Feed.ReconnectDelaySeconds) * time.Second
	connector := feed.New(feedCfg, nil, logrus.NewEntry(log))

	fetcher := enrich.NewFetcher(
		time.Duration(cfg.Enrich.FetchTimeoutSeconds)*time.Second,
		logrus.NewEntry(log),
	)

	simulator := price.NewSimulator(price.Options{
		Tokens:  tokens,
		Series:  prices,
		Archive: archive,
		Logger:  logrus.NewEntry(log),
	})

	pipeline := ingest.NewPipeline(ingest.Options{
		Connector:         connector,
		Fetcher:           fetcher,
		Tokens:            tokens,
		Simulator:         simulator,
		UpdateInterval:    domain.UpdateInterval(cfg.Ingest.UpdateIntervalSeconds),
		EnrichWorkers:     cfg.Enrich.Workers,
		PriceTickInterval: time.Duration(cfg.Ingest.PriceTickSeconds) * time.Second,
		Logger:            logrus.NewEntry(log),
	})

	var detail *enrich.MintDetailSource
	if cfg.Enrich.DetailAPIURL != "" {
		detail = enrich.NewMintDetailSource(cfg.Enrich.DetailAPIURL,
			time.Duration(cfg.Enrich.FetchTimeoutSeconds)*time.Second)
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	server := api.NewServer(api.Options{
		Tokens:    tokens,
		Prices:    prices,
		Watchlist: wl,
		Pipeline:  pipeline,
		Detail:    detail,
		Logger:    log,
	})

	httpServer := &http.Server{
		Addr:    cfg.API.Addr,
		Handler: server.Router(),
	}

	go func() {
		log.WithField("addr", cfg.API.Addr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed")
			cancel()
		}
	}()

	if err := pipeline.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("pipeline stopped")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown failed")
	}
	log.Info("stopped")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if cfg.App.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}

// newWatchlistStore prefers Postgres when a DSN is configured, falling back
// to the JSON file store.
func newWatchlistStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) storage.WatchlistStore {
	if cfg.Storage.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err == nil {
			store := pgstore.NewWatchlistStore(pool)
			if err := store.EnsureSchema(ctx); err == nil {
				log.Info("watchlist persisted to postgres")
				return store
			}
			log.WithError(err).Warn("postgres schema setup failed")
		} else {
			log.WithError(err).Warn("postgres unavailable")
		}
	}
	log.WithField("path", cfg.Storage.WatchlistPath).Info("watchlist persisted to file")
	return file.NewWatchlistStore(cfg.Storage.WatchlistPath)
}

// newPriceArchive returns the ClickHouse tick archive when configured, nil
// otherwise. The archive is best-effort; failures never stop the simulator.
func newPriceArchive(ctx context.Context, cfg *config.Config, log *logrus.Logger) storage.PriceArchive {
	if cfg.Storage.ClickHouseDSN == "" {
		return nil
	}
	conn, err := chstore.NewConn(ctx, cfg.Storage.ClickHouseDSN)
	if err != nil {
		log.WithError(err).Warn("clickhouse unavailable, price archive disabled")
		return nil
	}
	archive := chstore.NewPriceArchive(conn)
	if err := archive.EnsureSchema(ctx); err != nil {
		log.WithError(err).Warn("clickhouse schema setup failed, price archive disabled")
		return nil
	}
	log.Info("price ticks archived to clickhouse")
	return archive
}
