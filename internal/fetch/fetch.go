// Package fetch retrieves the study listing page. The listing is client
// rendered, so the primary path drives a headless browser (browser.go); the
// plain HTTP path exists for static mirrors and tests.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a whole fetch, including browser rendering
const DefaultTimeout = 45 * time.Second

// DefaultUserAgent is the user agent string for plain HTTP requests
const DefaultUserAgent = "Mozilla/5.0 (compatible; StudyScout/1.0)"

// Result holds the content retrieved from the listing URL
type Result struct {
	URL        string
	HTML       string
	StatusCode int
}

// Error represents a failed fetch. The pipeline treats any *Error as
// "zero candidates, logged failure" rather than a crash.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// UseBrowser renders the page in headless Chrome before returning HTML
	UseBrowser bool
}

// DefaultOptions returns sensible defaults for fetching
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		UseBrowser: true,
	}
}

// Listing retrieves the rendered HTML of the listing page, choosing the
// browser or plain HTTP path per opts.
func Listing(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.UseBrowser {
		return Render(ctx, urlStr, opts.Timeout)
	}
	return Get(ctx, urlStr, opts)
}

// Get retrieves HTML over plain HTTP without rendering
func Get(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	client := &http.Client{
		Timeout: opts.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}
	req.Header.Set("User-Agent", opts.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to read response body",
			Cause:   err,
		}
	}

	result := &Result{
		URL:        urlStr,
		HTML:       string(bodyBytes),
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}
