package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Timeout is used when Fetch is called with a zero timeout.
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64

	// Burst is the pacing burst size. Values below one are treated as one.
	Burst int

	// MaxBodyBytes caps the size of a response body. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// DefaultMaxBodyBytes is far above any flag image or metadata document.
const DefaultMaxBodyBytes = 4 << 20

// DefaultOptions returns the options used by the command line tools.
func DefaultOptions() Options {
	return Options{
		UserAgent: "flags-downloader",
		Timeout:   6100 * time.Millisecond,
	}
}

// Client wraps HTTP GET requests with timeouts, pacing and error
// classification.
//
// Client is safe for concurrent use by multiple goroutines.
//
// Example usage:
//
//	client := NewClient(DefaultOptions())
//
//	// Fetch an image
//	img, err := client.Fetch(ctx, "https://www.fluentpython.com/data/flags/cn/cn.gif", 0)
//
//	// Fetch and decode a JSON document
//	body, err := client.Fetch(ctx, "https://www.fluentpython.com/data/flags/cn/metadata.json", 0)
//	var meta struct{ Country string `json:"country"` }
//	err = DecodeJSON("cn/metadata.json", body, &meta)
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxBody    int64
	limiter    *rate.Limiter
}

// NewClient creates a new Client.
//
// Redirects are followed (up to the net/http default of 10).
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions().UserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	c := &Client{
		httpClient: &http.Client{Transport: opts.Transport},
		userAgent:  opts.UserAgent,
		timeout:    opts.Timeout,
		maxBody:    opts.MaxBodyBytes,
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// Fetch performs a GET request and returns the response body.
//
// The request is bounded by timeout (or the client default when zero).
// Returns an *Error when:
//   - the server answers 404 (KindNotFound)
//   - the timeout elapses (KindTimeout)
//   - ctx is cancelled (KindCancelled)
//   - the request fails, any other non-200 status is returned or the body
//     is larger than Options.MaxBodyBytes (KindTransport)
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, classify(ctx, ctx, url, err)
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Kind: KindTransport, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(ctx, reqCtx, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, URL: url, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &Error{Kind: KindTransport, URL: url, StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, classify(ctx, reqCtx, url, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, &Error{Kind: KindTransport, URL: url, Err: errors.Newf("response body exceeds %d bytes", c.maxBody)}
	}
	return body, nil
}

// DecodeJSON decodes body, fetched from url, into v. Failures are
// reported as KindDecode.
func DecodeJSON(url string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &Error{Kind: KindDecode, URL: url, Err: errors.Wrap(err, "decode json")}
	}
	return nil
}
