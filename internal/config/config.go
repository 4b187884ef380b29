package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the storefront needs at startup.
type Config struct {
	APIBaseURL     string
	PageSize       int
	DataDir        string
	RequestTimeout time.Duration
}

const (
	defaultConfigPath = "~/.config/storefront/config.toml"
	defaultAPIBaseURL = "https://api.escuelajs.co/api/v1"
	defaultPageSize   = 10
	defaultTimeout    = 15 * time.Second
)

// Load locates and parses the config file, falling back to defaults when
// missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBaseURL:     defaultAPIBaseURL,
		PageSize:       defaultPageSize,
		RequestTimeout: defaultTimeout,
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL     string `toml:"api_base_url"`
		PageSize       int    `toml:"page_size"`
		DataDir        string `toml:"data_dir"`
		TimeoutSeconds int    `toml:"request_timeout_seconds"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = v
	}
	if raw.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv lets environment variables override the file. The .env
// loading in main feeds these.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_API_BASE_URL")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_PAGE_SIZE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("STOREFRONT_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
}

func resolvePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultConfigPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
