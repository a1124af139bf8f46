package hub

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the status classes callers branch on. A *FetchError
// unwraps to one of these, so errors.Is works across the package boundary.
var (
	ErrNotFound     = errors.New("template not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
	ErrServerError  = errors.New("hub server error")
)

// FetchError reports a failed registry fetch, either a transport failure or
// a non-success HTTP status.
type FetchError struct {
	// URL is the address that was requested.
	URL string

	// StatusCode is the HTTP status, zero when the request never completed.
	StatusCode int

	// Body holds a snippet of the response body for diagnostics.
	Body string

	// Err is the underlying transport error, if any.
	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("failed to fetch %s: status %d: %s", e.URL, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
}

// Unwrap maps the failure to its cause: the transport error when there is
// one, otherwise the sentinel for the status class.
func (e *FetchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}
	if e.StatusCode >= 500 {
		return ErrServerError
	}
	return nil
}

// HTTPStatus returns the response status, zero when the request never
// completed.
func (e *FetchError) HTTPStatus() int { return e.StatusCode }

// RequestURL returns the address that was requested.
func (e *FetchError) RequestURL() string { return e.URL }
