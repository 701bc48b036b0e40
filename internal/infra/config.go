package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// Rendering worker integration. The webhook URL receives dispatches;
	// the callback secret authenticates the worker's completion callback.
	WorkerWebhookURL     string
	WorkerAPIKey         string
	WorkerAPIKeyHeader   string
	WorkerCallbackSecret string
	DispatchTimeout      time.Duration

	// Credit cost of one 540p podcast. 720p costs double.
	CreditsPerPodcast int

	// Object storage for uploaded images. When S3Bucket is empty the
	// filesystem store under StoragePath is used instead.
	S3Bucket        string
	S3Region        string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3UsePathStyle  bool
	S3PublicBaseURL string
	StoragePath     string
	StorageBaseURL  string

	GeoIPDBPath   string
	DefaultLocale string
	CORSOrigins   []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int

	// Sweeper settings. A zero TTL disables reaping entirely.
	StaleJobTTL   time.Duration
	SweepInterval time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:               getEnv("APP_ENV", "development"),
		Port:                 port,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		WorkerWebhookURL:     os.Getenv("WORKER_WEBHOOK_URL"),
		WorkerAPIKey:         os.Getenv("WORKER_API_KEY"),
		WorkerAPIKeyHeader:   getEnv("WORKER_API_KEY_HEADER", "N8N_API_KEY"),
		WorkerCallbackSecret: os.Getenv("WORKER_CALLBACK_SECRET"),
		DispatchTimeout:      time.Second * time.Duration(getEnvInt("DISPATCH_TIMEOUT_SECONDS", 30)),
		CreditsPerPodcast:    getEnvInt("CREDITS_PER_PODCAST", 10),
		S3Bucket:             os.Getenv("S3_BUCKET"),
		S3Region:             getEnv("S3_REGION", "auto"),
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3AccessKey:          os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:          os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3UsePathStyle:       getEnvBool("S3_USE_PATH_STYLE", false),
		S3PublicBaseURL:      os.Getenv("S3_PUBLIC_BASE_URL"),
		StoragePath:          getEnv("STORAGE_PATH", "./data/uploads"),
		StorageBaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		GeoIPDBPath:          os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:        getEnv("DEFAULT_LOCALE", "en"),
		CORSOrigins:          splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:      time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:     time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:      time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:      getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		StaleJobTTL:          time.Minute * time.Duration(getEnvInt("STALE_JOB_TTL_MINUTES", 0)),
		SweepInterval:        time.Minute * time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 5)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.WorkerCallbackSecret == "" {
		return nil, fmt.Errorf("WORKER_CALLBACK_SECRET is required")
	}
	if cfg.WorkerWebhookURL == "" {
		return nil, fmt.Errorf("WORKER_WEBHOOK_URL is required")
	}
	if cfg.CreditsPerPodcast <= 0 {
		return nil, fmt.Errorf("CREDITS_PER_PODCAST must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
