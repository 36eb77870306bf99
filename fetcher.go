package medscan

import "context"

// Fetcher retrieves the HTML of a page.
// Failures are reported with the EUNAVAILABLE code; extraction code never
// interprets them beyond passing them on.
type Fetcher interface {
	// Fetch retrieves the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
