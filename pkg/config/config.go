package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	Environment     string

	// ReleaseWindow is the cooling-off period between mutual confirmation
	// and the automatic payout to the seller.
	ReleaseWindow time.Duration
	// SweepInterval is how often the release scheduler scans for due trades.
	SweepInterval time.Duration
	// SweepBatchSize caps how many due trades one sweep pass releases.
	SweepBatchSize int
	// DisputeWindow is the report deadline stamped on a new dispute.
	DisputeWindow time.Duration

	PayoutEndpoint string
	PayoutAPIKey   string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),
		ReleaseWindow:   time.Duration(getEnvAsInt64("RELEASE_WINDOW_MINUTES", 60)) * time.Minute,
		SweepInterval:   time.Duration(getEnvAsInt64("SWEEP_INTERVAL_MINUTES", 5)) * time.Minute,
		SweepBatchSize:  int(getEnvAsInt64("SWEEP_BATCH_SIZE", 100)),
		DisputeWindow:   time.Duration(getEnvAsInt64("DISPUTE_WINDOW_HOURS", 24)) * time.Hour,
		PayoutEndpoint:  getEnv("PAYOUT_ENDPOINT", "https://sandbox.payout.example.com/v1"),
		PayoutAPIKey:    getEnv("PAYOUT_API_KEY", ""),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
