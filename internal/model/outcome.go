package model

import "fmt"

// Status tags the variant of an Outcome.
type Status int

const (
	// StatusSuccess means the payload was fetched and stored.
	StatusSuccess Status = iota

	// StatusNotFound means the remote resource is absent. Not an error.
	StatusNotFound

	// StatusFailure means the item could not be fetched or stored.
	StatusFailure

	// StatusCancelled means the item was abandoned because the batch was cancelled.
	StatusCancelled
)

// Statuses lists every Status in display order.
var Statuses = []Status{StatusSuccess, StatusNotFound, StatusFailure, StatusCancelled}

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusNotFound:
		return "NotFound"
	case StatusFailure:
		return "Failure"
	case StatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrorKind categorizes a Failure.
type ErrorKind int

const (
	// KindNone is the zero value, used by non-Failure outcomes.
	KindNone ErrorKind = iota

	// KindTimeout means the per-request timeout elapsed.
	KindTimeout

	// KindTransport covers connection errors and unexpected HTTP statuses.
	KindTransport

	// KindStorage means the store sink rejected the payload.
	KindStorage

	// KindInternal covers malformed responses and other local faults.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindStorage:
		return "storage"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Outcome is the terminal result of one WorkItem.
//
// Exactly one of the variants is represented, selected by Status:
//   - StatusSuccess: Payload holds the fetched bytes, Name the stored name
//   - StatusNotFound: URL holds the missing resource
//   - StatusFailure: Kind and Message describe the error
//   - StatusCancelled: no extra fields
type Outcome struct {
	Key     string
	Status  Status
	Payload []byte
	Name    string
	URL     string
	Kind    ErrorKind
	Message string
}

// Succeeded builds a Success outcome.
func Succeeded(key string, payload []byte) Outcome {
	return Outcome{Key: key, Status: StatusSuccess, Payload: payload}
}

// Missing builds a NotFound outcome.
func Missing(key string) Outcome {
	return Outcome{Key: key, Status: StatusNotFound}
}

// Failed builds a Failure outcome.
func Failed(key string, kind ErrorKind, message string) Outcome {
	return Outcome{Key: key, Status: StatusFailure, Kind: kind, Message: message}
}

// Abandoned builds a Cancelled outcome.
func Abandoned(key string) Outcome {
	return Outcome{Key: key, Status: StatusCancelled}
}

// Line renders the outcome as a single human-readable line.
func (o Outcome) Line() string {
	switch o.Status {
	case StatusSuccess:
		return o.Key + " OK"
	case StatusNotFound:
		if o.URL != "" {
			return o.Key + " not found: " + o.URL
		}
		return o.Key + " not found"
	case StatusFailure:
		return fmt.Sprintf("%s error: %s", o.Key, o.Message)
	case StatusCancelled:
		return o.Key + " cancelled"
	default:
		return o.Key + " " + o.Status.String()
	}
}
