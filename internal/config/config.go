package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port   string `yaml:"port"`
	APIKey string `yaml:"api_key"`

	// Content storage
	StoreBackend string `yaml:"store_backend"` // "local" or "remote"
	ContentDir   string `yaml:"content_dir"`
	RemoteURL    string `yaml:"remote_url"`
	RemoteAPIKey string `yaml:"remote_api_key"`

	// Edit handling
	SanitizeValues bool `yaml:"sanitize_values"`
	WriteRetries   int  `yaml:"write_retries"`

	// Size limits
	MaxDocumentBytes int64 `yaml:"max_document_bytes"`
}

// Load builds the configuration from defaults, then an optional YAML file
// (PAGEDIT_CONFIG, falling back to pagedit.yml if present), then
// environment variables. Later layers win.
func Load() (Config, error) {
	cfg := Config{
		Port:             "8090",
		StoreBackend:     "local",
		ContentDir:       "./content",
		WriteRetries:     3,
		MaxDocumentBytes: 2 << 20, // 2MB
	}

	path := os.Getenv("PAGEDIT_CONFIG")
	if path == "" {
		if _, err := os.Stat("pagedit.yml"); err == nil {
			path = "pagedit.yml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("PAGEDIT_API_KEY", cfg.APIKey)
	cfg.StoreBackend = envOr("STORE_BACKEND", cfg.StoreBackend)
	cfg.ContentDir = envOr("CONTENT_DIR", cfg.ContentDir)
	cfg.RemoteURL = envOr("REMOTE_URL", cfg.RemoteURL)
	cfg.RemoteAPIKey = envOr("REMOTE_API_KEY", cfg.RemoteAPIKey)
	cfg.SanitizeValues = envBool("SANITIZE_VALUES", cfg.SanitizeValues)
	cfg.WriteRetries = envInt("WRITE_RETRIES", cfg.WriteRetries)
	cfg.MaxDocumentBytes = envInt64("MAX_DOCUMENT_BYTES", cfg.MaxDocumentBytes)

	if cfg.WriteRetries <= 0 {
		cfg.WriteRetries = 3
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 2 << 20
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PAGEDIT_API_KEY is required")
	}
	switch c.StoreBackend {
	case "local":
		if c.ContentDir == "" {
			return fmt.Errorf("CONTENT_DIR is required for the local store")
		}
	case "remote":
		if c.RemoteURL == "" {
			return fmt.Errorf("REMOTE_URL is required for the remote store")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
