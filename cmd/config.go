package cmd

import (
	"fmt"
	"time"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// ShutdownTimeout bounds how long in-flight HTTP requests get on shutdown.
const ShutdownTimeout = 10 * time.Second

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Storage is StorageMemory or StoragePostgres.
	Storage string
	// SeedReferenceData loads the seed section of the engine config into an empty database.
	SeedReferenceData bool
	// EngineConfigPath points at the engine YAML. Empty means the embedded default.
	EngineConfigPath string
	// HomeOrigin overrides the engine's default origin pincode when set.
	HomeOrigin string

	LogLevel    string
	Environment string

	ReservationTTL    time.Duration
	CASAttempts       int
	AllocationWorkers int
	PendingBatchSize  int
	ExpiryBatchSize   int

	ReservationExpirySchedule string
	PendingAllocationSchedule string
	ComplianceSweepSchedule   string

	CarrierBreakerTimeout   time.Duration
	CarrierBreakerThreshold uint32
}

// DSN is the postgres connection string built from the DB settings.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
