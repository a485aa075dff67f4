package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rusunawa/internal/api"
	"rusunawa/internal/booking"
	"rusunawa/internal/client"
	"rusunawa/internal/config"
	"rusunawa/internal/domain"
	"rusunawa/internal/events"
	"rusunawa/internal/export"
	"rusunawa/internal/google"
	"rusunawa/internal/history"
	"rusunawa/internal/logging"
	"rusunawa/internal/metrics"
	"rusunawa/internal/notify"
	"rusunawa/internal/session"
	"rusunawa/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	backend := client.NewBackendClient(
		cfg.Backend.BaseURL,
		cfg.Backend.APIKey,
		cfg.Backend.Timeout(),
		cfg.Backend.RoomCacheTTL(),
		&logger,
	)
	if redisClient != nil && cfg.Backend.RedisCacheTTLSec > 0 {
		backend.UseRedisCache(redisClient, cfg.Backend.RedisCacheTTL())
	}

	sessions := initSessions(cfg, redisClient, &logger)

	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.History.Path).Msg("init history store")
		return err
	}
	defer store.Close()

	bus := events.NewEventBus()
	history.SubscribeAll(bus, store, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reports domain.ReportEnqueuer
	if sheetsService := initGoogleSheets(cfg, &logger); sheetsService != nil {
		reportWorker := worker.NewReportWorker(store, sheetsService, redisClient, worker.RetryPolicy{}, &logger)
		worker.SubscribeConfirmed(bus, reportWorker, &logger)
		go reportWorker.Start(ctx)
		reports = reportWorker
	}

	if notifier := initNotifier(cfg, &logger); notifier != nil {
		notifier.SubscribeBookingEvents(bus)
	}

	exporter := export.NewExporter(cfg.Exports.Path, &logger)

	newFlow := func() *booking.Flow {
		return booking.NewFlow(backend, bus, cfg.Booking.MaxAdvanceDays, &logger)
	}

	httpServer := api.NewServer(*cfg, backend, sessions, store, reports, exporter, newFlow, &logger)

	startMetrics(ctx, cfg, &logger)

	return startServer(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "portald").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := session.NewRedisClient(cfg.Redis)

	if err := session.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// initSessions wires the failover store: redis primary with an in-memory
// fallback, memory only when redis is absent.
func initSessions(cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) *session.Manager {
	ttl := cfg.Session.TTL()
	memory := session.NewMemoryStore(ttl)

	if redisClient == nil {
		logger.Warn().Msg("sessions running on memory store only")
		return session.NewManager(memory, ttl, logger)
	}

	primary := session.NewRedisStore(redisClient, ttl)
	return session.NewManager(session.NewFailoverStore(primary, memory, logger), ttl, logger)
}

func initGoogleSheets(cfg *config.Config, logger *zerolog.Logger) *google.SheetsService {
	if cfg.Reports.CredentialsFile == "" || cfg.Reports.SpreadsheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Reports.CredentialsFile, cfg.Reports.SpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without reports")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return sheetsService
}

func initNotifier(cfg *config.Config, logger *zerolog.Logger) *notify.TelegramNotifier {
	if cfg.Notify.BotToken == "" {
		return nil
	}

	notifier, err := notify.NewTelegramNotifier(cfg.Notify, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("telegram notifier init failed, continuing without notifications")
		return nil
	}

	logger.Info().Msg("telegram notifier connected")
	return notifier
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.Server, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.HTTP.Port).Msg("portal server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("portal server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
