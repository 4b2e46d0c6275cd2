package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"hotel/internal/config"
	"hotel/internal/console"
	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/events"
	"hotel/internal/export"
	"hotel/internal/logging"
	"hotel/internal/metrics"
	"hotel/internal/repository"
	"hotel/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := prepareDirectories(cfg); err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(ctx, cfg, baseLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	sessions, closeSessions := initSessionStore(ctx, cfg, baseLogger)
	defer closeSessions()

	eventBus := events.NewEventBus()
	if len(cfg.Events.Kafka.Brokers) > 0 {
		forwarder := events.NewKafkaForwarder(cfg.Events.Kafka, logging.Component(baseLogger, "kafka"))
		forwarder.Attach(eventBus, events.AllEventTypes...)
		defer func() {
			if err := forwarder.Close(); err != nil {
				logger.Warn().Err(err).Msg("Failed to close kafka writer")
			}
		}()
	}

	if cfg.Backup.Enabled {
		backupService := database.NewBackupService(db, cfg.Backup, logging.Component(baseLogger, "backup"))
		go backupService.Start(ctx)
	}

	// Инициализация бизнес-сервисов
	opts, err := service.BookingOptionsFromConfig(cfg.Booking, cfg.Billing)
	if err != nil {
		return err
	}
	serviceLogger := logging.Component(baseLogger, "service")
	bookingService := service.NewBookingService(db, eventBus, opts, serviceLogger)
	deps := console.Deps{
		Users:    service.NewUserService(db, sessions, serviceLogger),
		Rooms:    service.NewRoomService(db, serviceLogger),
		Catalog:  service.NewCatalogService(db, serviceLogger),
		Bookings: bookingService,
		Exporter: export.NewExporter(db, bookingService, cfg.Exports.Path, cfg.Booking.MaxDays, logging.Component(baseLogger, "export")),
		Currency: cfg.Billing.Currency,
	}

	logger.Info().Str("driver", db.Driver()).Msg("Hotel console started")
	err = console.New(deps, os.Stdin, os.Stdout, logging.Component(baseLogger, "console")).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func prepareDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Exports.Path}
	if cfg.Database.Driver == config.DriverSQLite && cfg.Database.Path != ":memory:" {
		dirs = append(dirs, filepath.Dir(cfg.Database.Path))
	}
	if cfg.Logging.FilePath != "" {
		dirs = append(dirs, filepath.Dir(cfg.Logging.FilePath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func initDatabase(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) (*database.DB, error) {
	logger := logging.Component(baseLogger, "database")
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return nil, err
	}

	seedPath := os.Getenv("SEED_PATH")
	if seedPath == "" {
		seedPath = cfg.SeedPath
	}
	if seedPath == "" {
		return db, nil
	}

	seed, err := config.LoadSeed(seedPath)
	if err != nil {
		db.Close()
		logger.Error().Err(err).Str("path", seedPath).Msg("Ошибка чтения начальных данных")
		return nil, err
	}
	res, err := db.Seed(ctx, seed)
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info().
		Int("rooms", res.Rooms).
		Int("services", res.Services).
		Int("users", res.Users).
		Msg("Seed data applied")
	return db, nil
}

// initSessionStore prefers redis with an in-memory fallback.
func initSessionStore(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) (domain.SessionStore, func()) {
	logger := logging.Component(baseLogger, "sessions")
	memory := repository.NewMemorySessionStore(cfg.Session.TTL)
	if cfg.Redis.Address == "" {
		return memory, func() {}
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable")
	}
	primary := repository.NewRedisSessionStore(client, cfg.Session.TTL)
	return repository.NewFailoverSessionStore(primary, memory, logger), func() {
		_ = repository.Close(client)
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
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
