// Package rod provides a browser-based implementation of medscan.Fetcher
// for pages that only render their details with JavaScript.
package rod

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/medscan"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 15 * time.Second

// Ensure Fetcher implements medscan.Fetcher at compile time.
var _ medscan.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	timeout   time.Duration
	userAgent string

	closeOnce sync.Once
	closeErr  error
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout of a single page load.
// Defaults to DefaultFetchTimeout if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent for every page.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, medscan.Errorf(medscan.EUNAVAILABLE, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, medscan.Errorf(medscan.EUNAVAILABLE, "connecting to browser: %v", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// LauncherPID returns the process ID of the launched browser.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// Fetch navigates to the URL and returns the rendered HTML.
// Failures are reported as EUNAVAILABLE; fetching after Close is EINVALID.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", medscan.Errorf(medscan.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", unavailable(url, err)
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", unavailable(url, err)
	}
	defer page.Close()

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", unavailable(url, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", unavailable(url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", unavailable(url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", unavailable(url, err)
	}
	return html, nil
}

// Close releases browser resources and stops the launched process.
// Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.closeOnce.Do(func() {
		f.closed.Store(true)
		f.closeErr = f.browser.Close()
		f.launcher.Kill()
	})
	return f.closeErr
}

func unavailable(url string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return medscan.Errorf(medscan.EUNAVAILABLE, "timeout fetching %s", url)
	case errors.Is(err, context.Canceled):
		return medscan.Errorf(medscan.EUNAVAILABLE, "fetch of %s canceled", url)
	}
	return medscan.Errorf(medscan.EUNAVAILABLE, "browser error fetching %s: %v", url, err)
}
