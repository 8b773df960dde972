// Package config loads and validates runtime configuration from the
// environment. Fail-fast: a malformed value is an error at startup, not a
// surprise mid-run.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when the corresponding variable is unset
const (
	DefaultFetchTimeoutSeconds = 45
	DefaultSMTPPort            = 587
)

// Config holds all runtime configuration for Study Scout
type Config struct {
	DatabaseURL string `validate:"required"`
	ListingURL  string `validate:"required,url"`

	// UseBrowser renders the listing in headless Chrome. The production
	// board is client rendered; disable only for static mirrors and tests.
	UseBrowser   bool
	FetchTimeout time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string `validate:"omitempty,email"`
}

// Load reads environment variables and returns a validated Config
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		ListingURL:   os.Getenv("LISTING_URL"),
		UseBrowser:   true,
		FetchTimeout: DefaultFetchTimeoutSeconds * time.Second,
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     DefaultSMTPPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}

	if s := os.Getenv("USE_BROWSER"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("USE_BROWSER must be a boolean, got %q", s)
		}
		cfg.UseBrowser = v
	}

	if s := os.Getenv("FETCH_TIMEOUT_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		cfg.FetchTimeout = time.Duration(v) * time.Second
	}

	if s := os.Getenv("SMTP_PORT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 65535 {
			return nil, fmt.Errorf("SMTP_PORT must be a valid port number, got %q", s)
		}
		cfg.SMTPPort = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// SMTPConfigured reports whether enough mail settings are present to build
// the SMTP transport. Without them notification is skipped, not broken.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
