// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aristath/qsim/pkg/algebra"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for databases and state artifacts (always absolute)
	NumQubits        int
	NumChunks        int
	ChunkID          int
	Precision        algebra.Precision
	SeedKeys         []uint64 // Explicit seed keys; empty means default seeding
	SnapshotSchedule string   // Cron expression; empty disables periodic snapshots
	LogLevel         string
	Port             int
	DevMode          bool
	Store            StoreConfig
}

// StoreConfig holds the optional S3-compatible snapshot mirror settings
type StoreConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Data directory: QSIM_DATA_DIR, defaulting to ./data, always
	// resolved to an absolute path that exists
	dataDir := getEnv("QSIM_DATA_DIR", "data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	prec, err := algebra.ParsePrecision(getEnv("QSIM_PRECISION", ""))
	if err != nil {
		return nil, err
	}

	seedKeys, err := parseSeedKeys(getEnv("QSIM_SEED", ""))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:          absDataDir,
		NumQubits:        getEnvAsInt("QSIM_NUM_QUBITS", 8),
		NumChunks:        getEnvAsInt("QSIM_NUM_CHUNKS", 1),
		ChunkID:          getEnvAsInt("QSIM_CHUNK_ID", 0),
		Precision:        prec,
		SeedKeys:         seedKeys,
		SnapshotSchedule: getEnv("QSIM_SNAPSHOT_SCHEDULE", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		Port:             getEnvAsInt("GO_PORT", 8001),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		Store: StoreConfig{
			Endpoint:        getEnv("QSIM_S3_ENDPOINT", ""),
			Region:          getEnv("QSIM_S3_REGION", ""),
			Bucket:          getEnv("QSIM_S3_BUCKET", ""),
			AccessKeyID:     getEnv("QSIM_S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("QSIM_S3_SECRET_ACCESS_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.NumQubits < 1 {
		return fmt.Errorf("QSIM_NUM_QUBITS must be at least 1, got %d", c.NumQubits)
	}
	if c.NumChunks < 1 {
		return fmt.Errorf("QSIM_NUM_CHUNKS must be at least 1, got %d", c.NumChunks)
	}
	if c.ChunkID < 0 || c.ChunkID >= c.NumChunks {
		return fmt.Errorf("QSIM_CHUNK_ID must be in [0, %d), got %d", c.NumChunks, c.ChunkID)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("GO_PORT must be a valid port, got %d", c.Port)
	}
	return nil
}

// parseSeedKeys parses a comma-separated list of unsigned seed keys
func parseSeedKeys(raw string) ([]uint64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	keys := make([]uint64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid seed key %q in QSIM_SEED: %w", part, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
