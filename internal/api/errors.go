package api

import (
	"errors"
	"fmt"
)

// Kind classifies an API failure. Callers branch on the kind; the message
// carries the operation and identifier for the user.
type Kind int

const (
	// KindTransport covers connection, timeout, and TLS failures.
	KindTransport Kind = iota

	// KindAuth means the server rejected the configured credentials.
	KindAuth

	// KindNotFound means the note id does not exist remotely.
	KindNotFound

	// KindInvalidParent means the target notebook id does not exist
	// (create only).
	KindInvalidParent

	// KindServer covers unexpected statuses and unusable responses.
	KindServer
)

// Error is a failed API operation.
type Error struct {
	Kind    Kind
	Op      string // e.g. "fetch note"
	ID      string // note or notebook id, when known
	Status  int    // HTTP status, 0 for transport failures
	Message string
}

func (e *Error) Error() string {
	subject := e.Op
	if e.ID != "" {
		subject = fmt.Sprintf("%s %s", e.Op, e.ID)
	}

	switch e.Kind {
	case KindAuth:
		return fmt.Sprintf("%s: server rejected credentials (status %d)", subject, e.Status)
	case KindNotFound:
		return fmt.Sprintf("%s: not found (status %d)", subject, e.Status)
	case KindInvalidParent:
		return fmt.Sprintf("%s: notebook not found (status %d)", subject, e.Status)
	case KindTransport:
		return fmt.Sprintf("%s: request failed: %s", subject, e.Message)
	default:
		if e.Message != "" {
			return fmt.Sprintf("%s: unexpected response (status %d): %s", subject, e.Status, e.Message)
		}
		return fmt.Sprintf("%s: unexpected response (status %d)", subject, e.Status)
	}
}

func errorKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// IsAuth reports whether err is a rejected-credentials failure.
func IsAuth(err error) bool { return errorKind(err, KindAuth) }

// IsNotFound reports whether err is a missing-note failure.
func IsNotFound(err error) bool { return errorKind(err, KindNotFound) }

// IsInvalidParent reports whether err is a missing-notebook failure.
func IsInvalidParent(err error) bool { return errorKind(err, KindInvalidParent) }

// IsTransport reports whether err is a connection/TLS failure.
func IsTransport(err error) bool { return errorKind(err, KindTransport) }
