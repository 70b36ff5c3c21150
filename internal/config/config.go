package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment    string
	HTTPPort       string
	DataDir        string
	DatabasePath   string
	Debug          bool
	JWTSecret      string
	AccessPIN      string
	BackupSchedule string
	NotifyURLs     []string
	ReportLocale   string
	Storage        StorageConfig
}

// StorageConfig selects the snapshot backend for records and the audit log.
type StorageConfig struct {
	Driver      string // sqlite | memory | fs | s3 | azure | gcs
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	S3AccessKeyID     string
	S3SecretAccessKey string

	AzureAccount   string
	AzureKey       string
	AzureContainer string
	AzureEndpoint  string

	GCSBucket          string
	GCSEndpoint        string
	GCSCredentialsFile string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	dataDir := getEnv("DEMAND_DATA_DIR", "data")
	cfg := Config{
		Environment:    getEnv("DEMAND_ENV", "development"),
		HTTPPort:       getEnv("DEMAND_HTTP_PORT", "8080"),
		DataDir:        dataDir,
		DatabasePath:   getEnv("DEMAND_DB_PATH", filepath.Join(dataDir, "demand.db")),
		Debug:          getBool("DEMAND_DEBUG", false),
		JWTSecret:      os.Getenv("DEMAND_JWT_SECRET"),
		AccessPIN:      getEnv("DEMAND_ACCESS_PIN", "1234"),
		BackupSchedule: getEnv("DEMAND_BACKUP_SCHEDULE", "0 3 * * *"),
		NotifyURLs:     splitList(os.Getenv("DEMAND_NOTIFY_URLS")),
		ReportLocale:   getEnv("DEMAND_REPORT_LOCALE", "pt-BR"),
		Storage: StorageConfig{
			Driver:      strings.ToLower(getEnv("DEMAND_STORAGE_DRIVER", "sqlite")),
			S3Bucket:    os.Getenv("DEMAND_S3_BUCKET"),
			S3Region:    getEnv("DEMAND_S3_REGION", "us-east-1"),
			S3Endpoint:  os.Getenv("DEMAND_S3_ENDPOINT"),
			S3PathStyle: getBool("DEMAND_S3_PATH_STYLE", false),

			S3AccessKeyID:     os.Getenv("DEMAND_S3_ACCESS_KEY_ID"),
			S3SecretAccessKey: os.Getenv("DEMAND_S3_SECRET_ACCESS_KEY"),

			AzureAccount:   os.Getenv("DEMAND_AZURE_ACCOUNT"),
			AzureKey:       os.Getenv("DEMAND_AZURE_KEY"),
			AzureContainer: getEnv("DEMAND_AZURE_CONTAINER", "demand"),
			AzureEndpoint:  os.Getenv("DEMAND_AZURE_ENDPOINT"),

			GCSBucket:          os.Getenv("DEMAND_GCS_BUCKET"),
			GCSEndpoint:        os.Getenv("DEMAND_GCS_ENDPOINT"),
			GCSCredentialsFile: os.Getenv("DEMAND_GCS_CREDENTIALS_FILE"),
		},
	}

	if cfg.JWTSecret == "" && cfg.IsProduction() {
		return Config{}, fmt.Errorf("DEMAND_JWT_SECRET is required in production")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// BackupDir is where scheduled and manual snapshot backups are written.
func (c Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// LogDir is where rotated log files live.
func (c Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
