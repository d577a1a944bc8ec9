package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings are the process-level options read from the environment.
type Settings struct {
	ConfigPath string // DBFAKER_CONFIG (default "dbfaker.yaml")
	NATSURL    string // DBFAKER_NATS_URL (optional, empty = no events)
	Seed       uint64 // DBFAKER_SEED (optional, 0 = random)

	// Run report settings
	ReportFile       string // DBFAKER_REPORT_FILE (writes a JSONL report when set)
	ReportS3Bucket   string // DBFAKER_REPORT_S3_BUCKET (enables S3 when set)
	ReportS3Key      string // DBFAKER_REPORT_S3_KEY (default "dbfaker/report.jsonl")
	ReportS3Region   string // DBFAKER_REPORT_S3_REGION (default "us-east-1")
	ReportS3Endpoint string // DBFAKER_REPORT_S3_ENDPOINT (custom endpoint for MinIO)
	ReportGitRepo    string // DBFAKER_REPORT_GIT_REPO (local clone; enables git when set)
	ReportGitFile    string // DBFAKER_REPORT_GIT_FILE (default "dbfaker/report.jsonl")
	ReportGitBranch  string // DBFAKER_REPORT_GIT_BRANCH (default "main")

	PushgatewayURL string // DBFAKER_PUSHGATEWAY_URL (pushes run metrics when set)
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		ConfigPath:       envOrDefault("DBFAKER_CONFIG", "dbfaker.yaml"),
		NATSURL:          os.Getenv("DBFAKER_NATS_URL"),
		ReportFile:       os.Getenv("DBFAKER_REPORT_FILE"),
		ReportS3Bucket:   os.Getenv("DBFAKER_REPORT_S3_BUCKET"),
		ReportS3Key:      envOrDefault("DBFAKER_REPORT_S3_KEY", "dbfaker/report.jsonl"),
		ReportS3Region:   envOrDefault("DBFAKER_REPORT_S3_REGION", "us-east-1"),
		ReportS3Endpoint: os.Getenv("DBFAKER_REPORT_S3_ENDPOINT"),
		ReportGitRepo:    os.Getenv("DBFAKER_REPORT_GIT_REPO"),
		ReportGitFile:    envOrDefault("DBFAKER_REPORT_GIT_FILE", "dbfaker/report.jsonl"),
		ReportGitBranch:  envOrDefault("DBFAKER_REPORT_GIT_BRANCH", "main"),
		PushgatewayURL:   os.Getenv("DBFAKER_PUSHGATEWAY_URL"),
	}

	if seedStr := os.Getenv("DBFAKER_SEED"); seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("DBFAKER_SEED: %w", err)
		}
		s.Seed = seed
	}

	return s, nil
}

// LoadDotEnv loads the first readable file of paths into the environment
// without overriding variables that are already set. It returns the path
// that was loaded, or "" when none was found.
func LoadDotEnv(paths ...string) (string, error) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", err
		}
		if err := godotenv.Load(p); err != nil {
			return "", fmt.Errorf("load %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
