// Package fetch - browser.go renders the listing in headless Chrome.
// The study board populates its cards from JavaScript, so the raw HTTP
// response carries no listings; only the rendered DOM does.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// renderSettleDelay gives client scripts time to populate the card list
// after the document is ready
const renderSettleDelay = 3 * time.Second

// Render navigates a headless browser to url and returns the rendered HTML.
// The timeout covers navigation, settling and extraction together; an
// expired deadline surfaces as a *Error. Requires Chrome/Chromium installed.
func Render(ctx context.Context, url string, timeout time.Duration) (*Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettleDelay),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &Error{
			URL:     url,
			Message: fmt.Sprintf("browser rendering failed within %s", timeout),
			Cause:   err,
		}
	}

	return &Result{URL: url, HTML: html, StatusCode: 200}, nil
}
