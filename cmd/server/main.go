package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/pws-advisor-service/internal/adapter/capscore"
	"github.com/couchcryptid/pws-advisor-service/internal/adapter/echo"
	"github.com/couchcryptid/pws-advisor-service/internal/adapter/filesink"
	httpadapter "github.com/couchcryptid/pws-advisor-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/pws-advisor-service/internal/adapter/kafka"
	"github.com/couchcryptid/pws-advisor-service/internal/adapter/settings"
	"github.com/couchcryptid/pws-advisor-service/internal/config"
	"github.com/couchcryptid/pws-advisor-service/internal/emit"
	"github.com/couchcryptid/pws-advisor-service/internal/observability"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
	"github.com/couchcryptid/pws-advisor-service/internal/refresh"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	store, err := settings.Open(cfg.SettingsDBPath, logger)
	if err != nil {
		logger.Error("failed to open settings store", "error", err, "path", cfg.SettingsDBPath)
		os.Exit(1)
	}

	echoClient := echo.NewClient(cfg.EchoBaseURL, cfg.EchoAPIKey, cfg.EchoTimeout, cfg.EchoRetryMax, metrics, logger)
	refresher := refresh.New(echoClient, settingsFilter(store, cfg), cfg.RefreshInterval, clockwork.NewRealClock(), logger, metrics)

	// CAP lookups are disabled when no source URL is configured.
	var capLookup capscore.Lookuper = capscore.NewSource(cfg.CAPScoreURL, capscore.Fields{
		PWSID:   cfg.CAPPWSIDField,
		Score:   cfg.CAPScoreField,
		Updated: cfg.CAPUpdatedField,
	}, cfg.EchoTimeout, metrics, logger)
	if cfg.CAPScoreURL != "" {
		capLookup = capscore.NewCachedLookuper(capLookup, cfg.CAPCacheSize, metrics)
		logger.Info("cap score lookups enabled", "url", cfg.CAPScoreURL, "cache_size", cfg.CAPCacheSize)
	} else {
		logger.Info("cap score lookups disabled")
	}

	sinks := []emit.Sink{filesink.New(cfg.DocumentDir, logger)}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka document sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaDocumentTopic)
	}
	dispatcher := emit.NewDispatcher(metrics, logger, sinks...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Ready:     readinessChecks{refresher, store},
		Snapshots: refresher,
		CAP:       capLookup,
		Settings:  store,
		Emitter:   dispatcher,
		Metrics:   metrics,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ECHO refresh loop.
	go func() {
		if err := refresher.Run(ctx); err != nil {
			logger.Error("refresher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("settings store close error", "error", err)
	}

	logger.Info("shutdown complete")
}

// readinessChecks is ready when every check passes.
type readinessChecks []sharedobs.ReadinessChecker

func (c readinessChecks) CheckReadiness(ctx context.Context) error {
	for _, check := range c {
		if err := check.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

// settingsFilter reads the saved system filter on every refresh, falling back
// to the configured defaults.
func settingsFilter(store *settings.Store, cfg *config.Config) refresh.FilterFunc {
	return func(ctx context.Context) echo.Filter {
		return echo.Filter{
			State:  settings.Get(ctx, store, plan.KeyState, cfg.State),
			County: settings.Get(ctx, store, plan.KeyCounty, cfg.County),
			PWSID:  settings.Get(ctx, store, plan.KeyPWSID, cfg.PWSID),
		}
	}
}
