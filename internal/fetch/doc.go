// Package fetch provides the HTTP client the downloader fetches payloads with.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request timeouts
//   - Redirect following
//   - Optional client-side pacing (requests per second)
//   - Classification of failures into typed errors
//
// # Basic Usage
//
//	client := fetch.NewClient(fetch.DefaultOptions())
//
//	data, err := client.Fetch(ctx, "https://www.fluentpython.com/data/flags/br/br.gif", 6100*time.Millisecond)
//	switch fetch.KindOf(err) {
//	case fetch.KindNone:
//	    // use data
//	case fetch.KindNotFound:
//	    // remote resource absent
//	default:
//	    // timeout, transport failure, cancellation
//	}
//
// # Error Classification
//
// Every error returned by the Client is an *Error carrying a Kind. Callers
// branch on the Kind instead of inspecting messages or status codes.
package fetch
