package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/study-scout/internal/config"
	"github.com/jonathan/study-scout/internal/db"
	"github.com/jonathan/study-scout/internal/notify"
	"github.com/jonathan/study-scout/internal/pipeline"
)

// openDB connects to DATABASE_URL and runs migrations. Used by commands that
// only touch the store and don't need the full pipeline config.
func openDB(ctx context.Context) (*db.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	store, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// buildRunner wires the full pipeline from config
func buildRunner(cfg *config.Config, store *db.DB) *pipeline.Runner {
	var transport notify.Transport
	if cfg.SMTPConfigured() {
		transport = notify.NewSMTPTransport(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	} else {
		transport = unconfiguredTransport{}
	}

	var fetcher pipeline.Fetcher
	if cfg.UseBrowser {
		fetcher = pipeline.BrowserFetcher(cfg.FetchTimeout)
	} else {
		fetcher = pipeline.HTTPFetcher(cfg.FetchTimeout)
	}

	return pipeline.NewRunner(pipeline.Options{
		Store:      store,
		Fetcher:    fetcher,
		Notifier:   notify.New(transport),
		ListingURL: cfg.ListingURL,
	})
}

// unconfiguredTransport stands in when SMTP settings are absent, so a
// missing mail server shows up as a per-recipient warning instead of a
// nil-pointer crash.
type unconfiguredTransport struct{}

func (unconfiguredTransport) Send(_ context.Context, to, _, _ string) error {
	return fmt.Errorf("cannot send to %s: SMTP is not configured (set SMTP_HOST and SMTP_FROM)", to)
}
