package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned when no backend credential is configured.
var ErrMissingAPIKey = errors.New("API_KEY environment variable not set")

// Config holds every setting of the service.
// Values come from Default, then the JSON file, then the environment.
type Config struct {
	// Server
	ServerPort string `json:"server_port" env:"SMEARN_PORT"`
	StaticDir  string `json:"static_dir" env:"SMEARN_STATIC_DIR"`

	// Paths
	DatabasePath  string `json:"database_path" env:"SMEARN_DATABASE_PATH"`
	TextbooksPath string `json:"textbooks_path" env:"SMEARN_TEXTBOOKS_PATH"`

	// Generative backend. The key is only ever read from the environment.
	APIKey            string `json:"-" env:"API_KEY"`
	Model             string `json:"model" env:"SMEARN_MODEL"`
	RequestsPerMinute int    `json:"requests_per_minute" env:"SMEARN_REQUESTS_PER_MINUTE"`

	// Admin login. The password is stored as a bcrypt hash.
	AdminEmail        string `json:"admin_email" env:"SMEARN_ADMIN_EMAIL"`
	AdminPasswordHash string `json:"admin_password_hash" env:"SMEARN_ADMIN_PASSWORD_HASH"`

	// Textbook preview
	PreviewPages int `json:"preview_pages" env:"SMEARN_PREVIEW_PAGES"`

	// Sessions older than this are dropped together with their conversations.
	SessionHours int `json:"session_hours" env:"SMEARN_SESSION_HOURS"`

	LogLevel string `json:"log_level" env:"SMEARN_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerPort:        "8080",
		StaticDir:         "./web/static",
		DatabasePath:      "file::memory:?cache=shared",
		TextbooksPath:     "./textbooks",
		Model:             "gemini-2.5-flash",
		RequestsPerMinute: 60,
		PreviewPages:      2,
		SessionHours:      24,
		LogLevel:          "info",
	}
}

// Load builds the configuration. A missing file is not an error; the
// environment (and a .env file next to the binary, if any) always wins.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return cfg, fmt.Errorf("load .env: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings nothing can run without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests_per_minute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.SessionHours <= 0 {
		return fmt.Errorf("session_hours must be positive, got %d", c.SessionHours)
	}
	return nil
}

// Save writes the configuration to a file. The API key is never written.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
