// Package config loads run configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything a batch run needs that isn't part of the policy
// document or the account credential set.
type Config struct {
	StateDir      string
	PolicyFile    string
	AccountsFile  string
	Regions       []string
	MaxAccounts   int
	MaxWorkers    int
	AccountDeadline time.Duration
	RetentionDays int
	MaxSnapshots  int
	ReportAddr    string
	AllowedOrigins string
	RunHistoryDSN string
	AWSRegion     string
}

// Load reads a .env file if present, then the environment, falling back to
// defaults for anything unset. Mirrors the teacher's config.Load() shape.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		StateDir:        getEnv("CLOUDBOM_STATE_DIR", "./state"),
		PolicyFile:      getEnv("CLOUDBOM_POLICY_FILE", "./policy.yaml"),
		AccountsFile:    getEnv("CLOUDBOM_ACCOUNTS_FILE", "./accounts.yaml"),
		Regions:         splitCSV(getEnv("CLOUDBOM_REGIONS", "us-east-1")),
		MaxAccounts:     getEnvInt("CLOUDBOM_MAX_ACCOUNTS", 4),
		MaxWorkers:      getEnvInt("CLOUDBOM_MAX_WORKERS", 4),
		AccountDeadline: getEnvDuration("CLOUDBOM_ACCOUNT_TIMEOUT", 30*time.Minute),
		RetentionDays:   getEnvInt("CLOUDBOM_RETENTION_DAYS", 90),
		MaxSnapshots:    getEnvInt("CLOUDBOM_MAX_SNAPSHOTS", 30),
		ReportAddr:      getEnv("CLOUDBOM_REPORT_ADDR", ""),
		AllowedOrigins:  getEnv("CLOUDBOM_ALLOWED_ORIGINS", "*"),
		RunHistoryDSN:   getEnv("RUNHISTORY_DSN", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
