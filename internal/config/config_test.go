package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STOREFRONT_API_BASE_URL", "")
	t.Setenv("STOREFRONT_PAGE_SIZE", "")
	t.Setenv("STOREFRONT_DATA_DIR", "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.PageSize != defaultPageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, defaultPageSize)
	}
	if cfg.RequestTimeout != defaultTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultTimeout)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "")
	t.Setenv("STOREFRONT_PAGE_SIZE", "")
	t.Setenv("STOREFRONT_DATA_DIR", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base_url = "  http://localhost:3001/api/v1  "
page_size = 20
data_dir = "~/.cache/storefront"
request_timeout_seconds = 5
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:3001/api/v1" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PageSize != 20 {
		t.Fatalf("PageSize = %d, want 20", cfg.PageSize)
	}
	if cfg.DataDir != "~/.cache/storefront" {
		t.Fatalf("DataDir = %q", cfg.DataDir)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base_url = "http://file.example/api"
page_size = 20
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("STOREFRONT_API_BASE_URL", "http://env.example/api")
	t.Setenv("STOREFRONT_PAGE_SIZE", "25")
	t.Setenv("STOREFRONT_DATA_DIR", "/tmp/storefront-data")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBaseURL != "http://env.example/api" {
		t.Fatalf("APIBaseURL = %q, want env value", cfg.APIBaseURL)
	}
	if cfg.PageSize != 25 {
		t.Fatalf("PageSize = %d, want 25", cfg.PageSize)
	}
	if cfg.DataDir != "/tmp/storefront-data" {
		t.Fatalf("DataDir = %q, want env value", cfg.DataDir)
	}
}

func TestLoad_InvalidTOMLIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("page_size = {"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted invalid TOML")
	}
}

func TestLoad_BadEnvPageSizeIgnored(t *testing.T) {
	t.Setenv("STOREFRONT_API_BASE_URL", "")
	t.Setenv("STOREFRONT_DATA_DIR", "")
	t.Setenv("STOREFRONT_PAGE_SIZE", "potato")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PageSize != defaultPageSize {
		t.Fatalf("PageSize = %d, want default", cfg.PageSize)
	}
}
