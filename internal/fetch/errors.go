package fetch

import (
	"context"
	"fmt"
	"net"

	"github.com/cockroachdb/errors"
)

// Kind classifies a fetch failure.
type Kind int

const (
	// KindNone means no error.
	KindNone Kind = iota

	// KindNotFound means the server answered 404 Not Found.
	KindNotFound

	// KindTimeout means the per-request timeout elapsed.
	KindTimeout

	// KindTransport covers connection errors and unexpected statuses.
	KindTransport

	// KindCancelled means the caller's context was cancelled.
	KindCancelled

	// KindDecode means the response body could not be decoded.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not found"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindCancelled:
		return "cancelled"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned by every failing Client call.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error %d - %s", e.StatusCode, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, KindNone for nil and KindTransport for
// errors that did not come from this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransport
}

// classify wraps a transport-level error. parent is the caller's context,
// reqCtx the per-request context derived from it.
func classify(parent, reqCtx context.Context, url string, err error) *Error {
	kind := KindTransport
	switch {
	case parent.Err() != nil:
		kind = KindCancelled
	case reqCtx.Err() != nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = KindTimeout
		}
	}
	return &Error{Kind: kind, URL: url, Err: err}
}
