package cli

import (
	"fmt"

	"github.com/RichWolff/joplin-sync/internal/api"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Configuration errors
	ErrConfigMissing = "CONFIG_MISSING"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Server errors
	ErrAuthFailed       = "AUTH_FAILED"
	ErrNoteNotFound     = "NOTE_NOT_FOUND"
	ErrNotebookNotFound = "NOTEBOOK_NOT_FOUND"
	ErrTransportFailed  = "TRANSPORT_FAILED"
	ErrServerError      = "SERVER_ERROR"

	// Document errors
	ErrHeaderMalformed = "HEADER_MALFORMED"
	ErrNoteIDMissing   = "NOTE_ID_MISSING"
	ErrBodyAmbiguous   = "BODY_AMBIGUOUS"
	ErrBodyMissing     = "BODY_MISSING"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"
)

// commandError carries a stable error code alongside the message, so the
// top of the pipeline can emit either a styled message or the JSON
// envelope without each verb caring about the output mode.
type commandError struct {
	code       string
	message    string
	suggestion string
	details    interface{}
}

func (e *commandError) Error() string { return e.message }

// failf builds a coded failure from a format string.
func failf(code, format string, args ...interface{}) error {
	return &commandError{code: code, message: fmt.Sprintf(format, args...)}
}

// failErr wraps an underlying error under a code.
func failErr(code string, err error) error {
	return &commandError{code: code, message: err.Error()}
}

// apiFail maps a typed API failure to its stable CLI code.
func apiFail(err error) error {
	switch {
	case api.IsAuth(err):
		return &commandError{
			code:       ErrAuthFailed,
			message:    err.Error(),
			suggestion: "Check your email and password settings",
		}
	case api.IsNotFound(err):
		return failErr(ErrNoteNotFound, err)
	case api.IsInvalidParent(err):
		return failErr(ErrNotebookNotFound, err)
	case api.IsTransport(err):
		return &commandError{
			code:       ErrTransportFailed,
			message:    err.Error(),
			suggestion: "Check the base URL and that the server is reachable",
		}
	default:
		return failErr(ErrServerError, err)
	}
}
