package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"courier/internal/core/application/tracking"
	"courier/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort                 string
	DBHost                   string
	DBPort                   string
	DBUser                   string
	DBPassword               string
	DBName                   string
	DBSslMode                string
	ProximityThresholdMeters float64
	LocationTTL              time.Duration
	LocationCleanupSchedule  string
}

// LoadConfig reads the process environment after loading envFile if it exists.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		HTTPPort:                envOr("HTTP_PORT", "8080"),
		DBHost:                  envOr("DB_HOST", "localhost"),
		DBPort:                  envOr("DB_PORT", "5432"),
		DBUser:                  os.Getenv("DB_USER"),
		DBPassword:              os.Getenv("DB_PASSWORD"),
		DBName:                  os.Getenv("DB_NAME"),
		DBSslMode:               envOr("DB_SSLMODE", "disable"),
		LocationCleanupSchedule: envOr("LOCATION_CLEANUP_SCHEDULE", jobs.DefaultLocationCleanupSchedule),
	}

	var err error
	if cfg.ProximityThresholdMeters, err = strconv.ParseFloat(
		envOr("PROXIMITY_THRESHOLD_METERS", strconv.FormatFloat(tracking.DefaultThresholdMeters, 'f', -1, 64)), 64,
	); err != nil {
		return Config{}, fmt.Errorf("PROXIMITY_THRESHOLD_METERS: %w", err)
	}
	if cfg.LocationTTL, err = time.ParseDuration(envOr("LOCATION_TTL", "1h")); err != nil {
		return Config{}, fmt.Errorf("LOCATION_TTL: %w", err)
	}
	return cfg, nil
}

// DSN is the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
