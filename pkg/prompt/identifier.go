package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Scheme selects between the two identifier forms.
type Scheme string

const (
	// SchemeLocal identifies a template on the local filesystem.
	SchemeLocal Scheme = "local"

	// SchemeHub identifies a template on the remote hub.
	SchemeHub Scheme = "hub"
)

const hubSchemePrefix = "hub"

// Identifier is a parsed template locator. Immutable once parsed; its
// String form is the resolution cache key.
type Identifier struct {
	// Scheme is SchemeLocal or SchemeHub.
	Scheme Scheme

	// Path is the local file path, or the slash-separated hub logical path
	// (organization/.../name).
	Path string

	// Ref pins a hub revision when the identifier used the hub@<ref>://
	// form. Empty means the client's default ref.
	Ref string
}

// ParseIdentifier parses a caller-supplied locator string. Two syntaxes are
// accepted:
//
//	hub://org/.../name[.yaml|.yml|.json]   (optionally hub@<ref>://...)
//	path/to/template.{yaml,yml,json,txt}
//
// Malformed input is rejected before any I/O is attempted; the returned
// error wraps ErrInvalidIdentifier.
func ParseIdentifier(s string) (Identifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Identifier{}, fmt.Errorf("%w: empty identifier", ErrInvalidIdentifier)
	}

	if idx := strings.Index(s, "://"); idx >= 0 {
		return parseHubIdentifier(s[:idx], s[idx+3:])
	}

	if !hasTemplateExt(s) {
		return Identifier{}, fmt.Errorf("%w: local path %q must end in .yaml, .yml, .json, or .txt", ErrInvalidIdentifier, s)
	}

	return Identifier{Scheme: SchemeLocal, Path: filepath.Clean(s)}, nil
}

// parseHubIdentifier validates the scheme tag (with optional @ref pin) and
// the logical path after the separator.
func parseHubIdentifier(scheme, rest string) (Identifier, error) {
	ref := ""
	if at := strings.Index(scheme, "@"); at >= 0 {
		ref = scheme[at+1:]
		scheme = scheme[:at]
		if ref == "" {
			return Identifier{}, fmt.Errorf("%w: empty ref pin", ErrInvalidIdentifier)
		}
	}

	if strings.ToLower(scheme) != hubSchemePrefix {
		return Identifier{}, fmt.Errorf("%w: unknown scheme %q", ErrInvalidIdentifier, scheme)
	}

	segments := strings.Split(rest, "/")
	if len(segments) < 2 {
		return Identifier{}, fmt.Errorf("%w: hub path %q needs at least organization/name", ErrInvalidIdentifier, rest)
	}
	for _, seg := range segments {
		switch seg {
		case "":
			return Identifier{}, fmt.Errorf("%w: hub path %q has an empty segment", ErrInvalidIdentifier, rest)
		case ".", "..":
			return Identifier{}, fmt.Errorf("%w: hub path %q may not contain %q", ErrInvalidIdentifier, rest, seg)
		}
	}

	return Identifier{Scheme: SchemeHub, Path: rest, Ref: ref}, nil
}

// String returns the normalized identifier. Equal templates normalize to
// equal strings, so this is safe as a cache key.
func (id Identifier) String() string {
	if id.Scheme == SchemeHub {
		if id.Ref != "" {
			return fmt.Sprintf("hub@%s://%s", id.Ref, id.Path)
		}
		return "hub://" + id.Path
	}
	return id.Path
}

// IsHub reports whether the identifier names a remote hub template.
func (id Identifier) IsHub() bool { return id.Scheme == SchemeHub }

// fetchPath returns the hub path to request. Paths without a recognized
// structured-template extension get .yaml appended.
func (id Identifier) fetchPath() string {
	switch strings.ToLower(filepath.Ext(id.Path)) {
	case ".yaml", ".yml", ".json":
		return id.Path
	}
	return id.Path + ".yaml"
}

// hasTemplateExt reports whether p ends in a recognized template extension.
func hasTemplateExt(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml", ".json", ".txt":
		return true
	}
	return false
}
