package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBusy         = errors.New("operation already in flight")
)

// BusyError signals that another mutation of the same brochure is in
// flight. Mutations are serialized per brochure; the caller should retry
// once the pending operation settles.
type BusyError struct {
	BrochureID string
}

func (e *BusyError) Error() string {
	return "brochure " + e.BrochureID + " has a pending operation"
}

func (e *BusyError) StatusCode() int { return http.StatusConflict }

func (e *BusyError) Is(target error) bool { return target == ErrBusy }

// RenderError reports a rasterizer failure. It is distinct from
// validation and provider errors: the schema mutation that triggered the
// render is kept, only the exported artifacts are stale.
type RenderError struct {
	Stage string // "html", "rasterize", or "store"
	Err   error
}

func (e *RenderError) Error() string {
	return "render failed at " + e.Stage + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error { return e.Err }

// ProviderError reports a failed outbound call to a generation provider.
// Callers are expected to absorb it through a fallback path; it only
// surfaces when the fallback itself cannot produce a result.
type ProviderError struct {
	Provider  string
	Transient bool // retryable: timeout, 5xx, connection reset
	Err       error
}

func (e *ProviderError) Error() string {
	return "provider " + e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a provider error worth retrying.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Transient
}
