package infra

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("WORKER_CALLBACK_SECRET", "callback-secret")
	t.Setenv("WORKER_WEBHOOK_URL", "https://n8n.example.com/webhook/render")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CreditsPerPodcast != 10 {
		t.Fatalf("CreditsPerPodcast = %d, want 10", cfg.CreditsPerPodcast)
	}
	if cfg.WorkerAPIKeyHeader != "N8N_API_KEY" {
		t.Fatalf("WorkerAPIKeyHeader = %q", cfg.WorkerAPIKeyHeader)
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL = %q", cfg.StorageBaseURL)
	}
	if cfg.StaleJobTTL != 0 {
		t.Fatalf("StaleJobTTL = %v, want 0 (disabled)", cfg.StaleJobTTL)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StorageBaseURL != "http://localhost:1919/static" {
		t.Fatalf("StorageBaseURL = %q", cfg.StorageBaseURL)
	}
}

func TestLoadConfigRequiredVars(t *testing.T) {
	required := []string{"DATABASE_URL", "JWT_SECRET", "WORKER_CALLBACK_SECRET", "WORKER_WEBHOOK_URL"}
	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(key, "")
			if _, err := LoadConfig(); err == nil {
				t.Fatalf("expected error when %s is missing", key)
			}
		})
	}
}

func TestLoadConfigStaleTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STALE_JOB_TTL_MINUTES", "45")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StaleJobTTL != 45*time.Minute {
		t.Fatalf("StaleJobTTL = %v, want 45m", cfg.StaleJobTTL)
	}
}
