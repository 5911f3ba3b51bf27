package blogtopdf

import (
	"errors"
	"fmt"
)

// Kind classifies terminal conversion failures so serving layers can
// map them to transport status codes without string matching.
type Kind int

const (
	// KindInternal covers unexpected failures caught at the pipeline
	// boundary. Zero value on purpose: an unclassified error is internal.
	KindInternal Kind = iota

	// KindMissingAddress means no source address was supplied. The
	// pipeline is never invoked and no fetch is attempted.
	KindMissingAddress

	// KindFetchTimeout means the source page did not respond within the
	// fetch timeout. Distinct from KindFetchFailed so callers can map it
	// to a gateway-timeout class.
	KindFetchTimeout

	// KindFetchFailed covers non-timeout network and HTTP status
	// failures while fetching the source page.
	KindFetchFailed

	// KindRenderFailed means both render paths (in-memory and
	// file-based fallback) were exhausted.
	KindRenderFailed
)

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMissingAddress:
		return "missing_address"
	case KindFetchTimeout:
		return "fetch_timeout"
	case KindFetchFailed:
		return "fetch_failed"
	case KindRenderFailed:
		return "render_failed"
	default:
		return "internal_error"
	}
}

// ConversionError is the terminal error type returned by Convert.
// Kind is stable; Message is human-readable diagnostic text.
type ConversionError struct {
	Kind    Kind
	Message string
	Err     error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *ConversionError) Unwrap() error { return e.Err }

// convErr builds a ConversionError wrapping err.
func convErr(kind Kind, err error, format string, args ...any) *ConversionError {
	return &ConversionError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// KindOf extracts the failure kind from err. Any error that is not a
// *ConversionError is classified as internal.
func KindOf(err error) Kind {
	var ce *ConversionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindInternal
}

// Sentinel errors for fetch and render operations.
var (
	ErrMissingAddress = errors.New("no URL provided")
	ErrInvalidAddress = errors.New("address must be an absolute http or https URL")
	ErrFetchTimeout   = errors.New("request timed out while loading the page")
	ErrFetchStatus    = errors.New("unexpected HTTP status")

	// ErrBackendIO marks backend-level I/O failures of the rendering
	// backend (browser connect, page create, content handoff). This
	// class triggers the file-based fallback path; every other render
	// failure is fatal immediately.
	ErrBackendIO = errors.New("rendering backend I/O failure")

	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")
)
