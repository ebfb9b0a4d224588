package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/yamlconfig"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/logging"
	"fulfillment/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	logCfg := logging.DefaultConfig("fulfillment-engine")
	logCfg.Level = configs.LogLevel
	logCfg.Environment = configs.Environment
	logger := logging.New(logCfg)

	engine, err := yamlconfig.Load(configs.EngineConfigPath)
	if err != nil {
		log.Fatalf("Error loading engine config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gormDB *gorm.DB
	if configs.Storage == cmd.StoragePostgres {
		gormDB = mustGormOpen(configs.DSN())
	}

	m := metrics.New(metrics.DefaultConfig())
	app, err := cmd.NewCompositionRoot(ctx, configs, engine, gormDB, m, logger)
	if err != nil {
		log.Fatalf("Error wiring the engine: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil && !errors.Is(err, jobs.ErrNoJobs) {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	logger.Info("Fulfillment engine starting", "storage", configs.Storage, "port", configs.HTTPPort)
	startWebServer(ctx, app, m, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		Storage:           envOr("STORAGE", cmd.StorageMemory),
		SeedReferenceData: envBool("SEED_REFERENCE_DATA", false),
		EngineConfigPath:  os.Getenv("ENGINE_CONFIG_PATH"),
		HomeOrigin:        os.Getenv("HOME_ORIGIN"),

		LogLevel:    envOr("LOG_LEVEL", "info"),
		Environment: envOr("ENVIRONMENT", "development"),

		ReservationTTL:    envDuration("RESERVATION_TTL", 0),
		CASAttempts:       envInt("CAS_ATTEMPTS", 0),
		AllocationWorkers: envInt("ALLOCATION_WORKERS", 4),
		PendingBatchSize:  envInt("PENDING_BATCH_SIZE", 100),
		ExpiryBatchSize:   envInt("EXPIRY_BATCH_SIZE", 100),

		ReservationExpirySchedule: envOr("RESERVATION_EXPIRY_SCHEDULE", jobs.DefaultSchedules().ReservationExpiry),
		PendingAllocationSchedule: envOr("PENDING_ALLOCATION_SCHEDULE", jobs.DefaultSchedules().PendingAllocation),
		ComplianceSweepSchedule:   envOr("COMPLIANCE_SWEEP_SCHEDULE", jobs.DefaultSchedules().ComplianceSweep),

		CarrierBreakerTimeout:   envDuration("CARRIER_BREAKER_TIMEOUT", 0),
		CarrierBreakerThreshold: uint32(envInt("CARRIER_BREAKER_THRESHOLD", 0)),
	}
	if config.Storage != cmd.StorageMemory && config.Storage != cmd.StoragePostgres {
		log.Fatalf("STORAGE must be %q or %q, got %q", cmd.StorageMemory, cmd.StoragePostgres, config.Storage)
	}
	return config
}

// envOr returns the variable, or fallback when it is unset. A variable set to the
// empty string stays empty, which is how a job schedule is disabled.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("%s: %v", key, err)
	}
	return d
}

func mustGormOpen(dsn string) *gorm.DB {
	db, err := gorm.Open(gorm_postgres.New(gorm_postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}
	return db
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, m *metrics.Metrics, port string) {
	e, err := httpin.NewRouter(app.CreateHTTPServer(), m, app.Logger())
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cmd.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
