package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Typed errors below unwrap to these where noted.
var (
	// ErrInvalidIdentifier indicates an identifier that could not be parsed
	// into a local path or a hub path. No I/O is attempted for such input.
	ErrInvalidIdentifier = errors.New("invalid template identifier")

	// ErrUnknownKind indicates an unrecognized _type tag in a template
	// description. Wrapped by FormatError.
	ErrUnknownKind = errors.New("unknown template kind")
)

// RetrievalError reports a failure fetching a template from the remote hub.
// The fetch is not retried; callers decide whether to retry resolution.
type RetrievalError struct {
	// URL is the address that was attempted.
	URL string

	// StatusCode is the HTTP status, or zero when the request never
	// completed.
	StatusCode int

	// Err is the underlying transport or hub error.
	Err error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to retrieve template from %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("failed to retrieve template from %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// LoadError reports a failure reading a template from the local filesystem.
type LoadError struct {
	// Path is the file path that was attempted.
	Path string

	// Err is the underlying filesystem error.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load template from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FormatError reports a malformed template description: unparseable
// content, an unknown kind or format tag, bad placeholder syntax, missing
// required keys, or a partial reference cycle.
type FormatError struct {
	// Source is the identifier or path of the offending description.
	Source string

	// Reason describes what is malformed.
	Reason string

	// Err is the underlying parse error, if any.
	Err error
}

func (e *FormatError) Error() string {
	subject := "invalid template"
	if e.Source != "" {
		subject = fmt.Sprintf("invalid template %s", e.Source)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", subject, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", subject, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ValidationError reports a mismatch between the placeholders discovered in
// template text and the declared input variables.
type ValidationError struct {
	// Source is the identifier or path of the offending template.
	Source string

	// Undeclared lists placeholders that appear in the template text but
	// are not declared.
	Undeclared []string

	// Unused lists declared input variables that never appear in the
	// template text. Populated only in strict mode; otherwise unused
	// variables surface as warnings.
	Unused []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Undeclared) > 0 {
		parts = append(parts, fmt.Sprintf("undeclared placeholders: %s", strings.Join(e.Undeclared, ", ")))
	}
	if len(e.Unused) > 0 {
		parts = append(parts, fmt.Sprintf("unused input variables: %s", strings.Join(e.Unused, ", ")))
	}
	if len(parts) == 0 {
		parts = append(parts, "placeholder validation failed")
	}
	subject := "template"
	if e.Source != "" {
		subject = fmt.Sprintf("template %s", e.Source)
	}
	return fmt.Sprintf("%s: %s", subject, strings.Join(parts, "; "))
}

// RenderError reports a failed substitution, either because required
// variables were missing or because the underlying engine rejected the
// values.
type RenderError struct {
	// Missing lists the required variable names absent from the values,
	// sorted.
	Missing []string

	// Err is the underlying engine error, if any.
	Err error
}

func (e *RenderError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("missing template variables: %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("failed to render template: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsRetrieval reports whether err is a RetrievalError.
func IsRetrieval(err error) bool {
	var target *RetrievalError
	return errors.As(err, &target)
}

// IsLoad reports whether err is a LoadError.
func IsLoad(err error) bool {
	var target *LoadError
	return errors.As(err, &target)
}

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsRender reports whether err is a RenderError.
func IsRender(err error) bool {
	var target *RenderError
	return errors.As(err, &target)
}

// IsInvalidIdentifier reports whether err stems from a malformed identifier.
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}
