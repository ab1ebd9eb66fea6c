package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ReadsEnvFileAndIgnoresNoise(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("LEAD_ENDPOINT", "")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := []byte(`
# comment

PORT=9090
export DB_PATH=/var/lib/quotes.db
LEAD_ENDPOINT="https://sales.example.com/api/quotes"
LEAD_TIMEOUT=3s
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	cfg := load(path)

	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "9090")
	}
	if cfg.DBPath != "/var/lib/quotes.db" {
		t.Fatalf("DBPath=%q, want %q", cfg.DBPath, "/var/lib/quotes.db")
	}
	if cfg.Lead.Endpoint != "https://sales.example.com/api/quotes" {
		t.Fatalf("Lead.Endpoint=%q", cfg.Lead.Endpoint)
	}
	if cfg.Lead.Timeout != 3*time.Second {
		t.Fatalf("Lead.Timeout=%v, want 3s", cfg.Lead.Timeout)
	}
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	t.Setenv("PORT", "7000")

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("PORT=9090\n"), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	if got := load(path).Port; got != "7000" {
		t.Fatalf("Port=%q, want %q", got, "7000")
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	for _, key := range []string{"APP_ENV", "PORT", "DB_PATH", "CURRENCY", "SESSION_SECRET", "LEAD_ENDPOINT", "LEAD_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := load(filepath.Join(t.TempDir(), "missing.env"))

	if cfg.Port != defaultPort || cfg.DBPath != defaultDBPath || cfg.Currency != defaultCurrency {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.IsDev() || !cfg.Logging.Development {
		t.Fatalf("expected development mode by default")
	}
	if cfg.Lead.Timeout != defaultLeadTimeout {
		t.Fatalf("Lead.Timeout=%v, want %v", cfg.Lead.Timeout, defaultLeadTimeout)
	}
	if len(cfg.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", cfg.Warnings)
	}
}
