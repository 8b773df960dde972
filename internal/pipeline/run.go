// Package pipeline orchestrates one discovery run: fetch the listing,
// extract candidates, reconcile against the store, notify about the new
// ones, and record everything in the run log. Failures stop the run, never
// the process; the scheduler must survive any outcome here.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/study-scout/internal/db"
	"github.com/jonathan/study-scout/internal/extract"
	"github.com/jonathan/study-scout/internal/fetch"
	"github.com/jonathan/study-scout/internal/notify"
	"github.com/jonathan/study-scout/internal/syncer"
)

// Store is the database surface the runner needs beyond the sync engine
type Store interface {
	syncer.Store
	ListRecipients(ctx context.Context, activeOnly bool) ([]db.Recipient, error)
	TouchLastRun(ctx context.Context) error
	AppendLog(ctx context.Context, severity, message string) error
}

// Fetcher retrieves the rendered listing HTML
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch implements Fetcher
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Notifier delivers a digest of new studies and reports per-recipient outcomes
type Notifier interface {
	Send(ctx context.Context, recipients []db.Recipient, studies []db.Study) notify.Outcome
}

// Options holds the collaborators and configuration for a Runner
type Options struct {
	Store      Store
	Fetcher    Fetcher
	Notifier   Notifier
	ListingURL string
}

// Runner executes the discovery-diff-notify pipeline
type Runner struct {
	store      Store
	engine     *syncer.Engine
	fetcher    Fetcher
	notifier   Notifier
	listingURL string
}

// NewRunner constructs a Runner
func NewRunner(opts Options) *Runner {
	return &Runner{
		store:      opts.Store,
		engine:     syncer.New(opts.Store),
		fetcher:    opts.Fetcher,
		notifier:   opts.Notifier,
		listingURL: opts.ListingURL,
	}
}

// BrowserFetcher returns a Fetcher that renders the listing in headless
// Chrome, bounded by timeout.
func BrowserFetcher(timeout time.Duration) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) (string, error) {
		result, err := fetch.Render(ctx, url, timeout)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	})
}

// HTTPFetcher returns a Fetcher that retrieves the listing over plain HTTP,
// for static mirrors and tests where no browser is needed.
func HTTPFetcher(timeout time.Duration) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) (string, error) {
		opts := fetch.DefaultOptions()
		opts.Timeout = timeout
		opts.UseBrowser = false
		result, err := fetch.Get(ctx, url, opts)
		if err != nil {
			return "", err
		}
		return result.HTML, nil
	})
}

// RunOnce executes a single pipeline run and returns the newly created
// studies. A fetch failure or an empty extraction ends the run early with a
// nil error: those outcomes are logged and expected. The last-run timestamp
// is updated regardless of outcome, and a panic anywhere in the run is
// converted into a logged run-level failure.
func (r *Runner) RunOnce(ctx context.Context) (created []db.Study, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logEntry(ctx, db.SeverityError, "Run failed: %v", rec)
			created, err = nil, fmt.Errorf("run panicked: %v", rec)
		}
	}()
	defer func() {
		if touchErr := r.store.TouchLastRun(ctx); touchErr != nil {
			log.Printf("[pipeline] Failed to update last-run timestamp: %v", touchErr)
		}
	}()

	r.logEntry(ctx, db.SeverityInfo, "Check started")

	html, err := r.fetcher.Fetch(ctx, r.listingURL)
	if err != nil {
		// Zero candidates, no prune: the board did not answer, so nothing
		// can be said about which studies are gone
		r.logEntry(ctx, db.SeverityError, "Fetch failed: %v", err)
		return nil, nil
	}

	candidates, err := extract.Studies(html)
	if err != nil {
		r.logEntry(ctx, db.SeverityError, "Extraction failed: %v", err)
		return nil, nil
	}
	if len(candidates) == 0 {
		r.logEntry(ctx, db.SeverityInfo, "No studies found")
		return nil, nil
	}
	r.logEntry(ctx, db.SeverityInfo, "Found %d studies on the board", len(candidates))

	created, err = r.engine.Reconcile(ctx, candidates)
	if err != nil {
		r.logEntry(ctx, db.SeverityError, "Run failed: %v", err)
		return nil, fmt.Errorf("failed to reconcile: %w", err)
	}
	for _, s := range created {
		r.logEntry(ctx, db.SeveritySuccess, "New study: %s ($%d)", s.Title, s.Payout)
	}

	currentIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		currentIDs = append(currentIDs, c.ExternalID)
	}
	removed, err := r.engine.Prune(ctx, currentIDs)
	if err != nil {
		r.logEntry(ctx, db.SeverityWarning, "Prune failed: %v", err)
	} else if removed > 0 {
		r.logEntry(ctx, db.SeverityInfo, "Removed %d stale studies", removed)
	}

	if len(created) == 0 {
		r.logEntry(ctx, db.SeverityInfo, "No new studies this run")
		return created, nil
	}

	r.notifyNewStudies(ctx, created)
	return created, nil
}

// notifyNewStudies delivers the digest and marks the covered studies.
// A failed notification leaves delivered = false; those studies are not
// re-queued automatically on later runs.
func (r *Runner) notifyNewStudies(ctx context.Context, created []db.Study) {
	recipients, err := r.store.ListRecipients(ctx, true)
	if err != nil {
		r.logEntry(ctx, db.SeverityWarning, "Failed to load recipients: %v", err)
		return
	}

	outcome := r.notifier.Send(ctx, recipients, created)
	switch {
	case outcome.Skipped:
		r.logEntry(ctx, db.SeverityInfo, "No active recipients, notification skipped")
	case outcome.Delivered():
		if len(outcome.Failures) > 0 {
			r.logEntry(ctx, db.SeverityWarning,
				"Digest sent to %d recipients, %d failed", len(outcome.Sent), len(outcome.Failures))
		} else {
			r.logEntry(ctx, db.SeveritySuccess,
				"Digest for %d new studies sent to %d recipients", len(created), len(outcome.Sent))
		}
		for _, s := range created {
			if err := r.engine.MarkDelivered(ctx, s.ExternalID); err != nil {
				r.logEntry(ctx, db.SeverityWarning,
					"Failed to mark study %s delivered: %v", s.ExternalID, err)
			}
		}
	default:
		r.logEntry(ctx, db.SeverityWarning,
			"Notification failed for all %d recipients; studies remain undelivered", len(outcome.Failures))
	}
}

// logEntry writes to both the process log and the durable run log.
// A run log write failing is itself only logged; it never fails the run.
func (r *Runner) logEntry(ctx context.Context, severity, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[pipeline] %s", message)
	if err := r.store.AppendLog(ctx, severity, message); err != nil {
		log.Printf("[pipeline] Failed to append run log: %v", err)
	}
}
