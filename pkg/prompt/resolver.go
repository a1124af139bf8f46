package prompt

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds recursive template nesting: inline partials,
// referenced partials, and few-shot example prompts all count.
const DefaultMaxDepth = 8

// HubFetcher retrieves template content from a remote hub. Implemented by
// hub.Client; any fetch-by-path store fits.
type HubFetcher interface {
	Fetch(ctx context.Context, ref, path string) ([]byte, error)
}

// Resolver turns template identifiers into validated, immutable templates.
// Local identifiers read through a FileLoader; hub identifiers fetch through
// the attached HubFetcher. Successful resolutions are memoized in the
// resolver's cache.
type Resolver struct {
	loader   *FileLoader
	hub      HubFetcher
	cache    *Cache
	strict   bool
	maxDepth int
	logger   zerolog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithBaseDir roots relative local identifiers at dir. Defaults to the
// working directory.
func WithBaseDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.loader = NewFileLoader(dir)
	}
}

// WithHub attaches a remote hub client. Without one, hub identifiers fail
// with a RetrievalError.
func WithHub(hub HubFetcher) ResolverOption {
	return func(r *Resolver) {
		r.hub = hub
	}
}

// WithCache shares an existing cache between resolvers.
func WithCache(cache *Cache) ResolverOption {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithoutCache disables memoization; every Resolve call loads fresh.
func WithoutCache() ResolverOption {
	return func(r *Resolver) {
		r.cache = nil
	}
}

// WithStrict turns declared-but-unused input variables into hard validation
// failures instead of warnings.
func WithStrict(strict bool) ResolverOption {
	return func(r *Resolver) {
		r.strict = strict
	}
}

// WithMaxDepth bounds recursive template nesting. Defaults to
// DefaultMaxDepth.
func WithMaxDepth(depth int) ResolverOption {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a resolver with its own cache, rooted at the working
// directory, with no hub attached.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		loader:   NewFileLoader("."),
		cache:    NewCache(),
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the resolver's cache, nil when caching is disabled.
func (r *Resolver) Cache() *Cache { return r.cache }

// Resolve turns an identifier into a validated template. The identifier is
// parsed before any I/O; failures carry the attempted path or URL and are
// never retried internally. On full success the result is cached under the
// normalized identifier and shared by subsequent calls.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (Template, error) {
	return r.resolve(ctx, identifier, make(map[string]bool), 0)
}

func (r *Resolver) resolve(ctx context.Context, identifier string, visiting map[string]bool, depth int) (Template, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	key := id.String()

	if r.cache != nil {
		if t, ok := r.cache.Get(key); ok {
			r.logger.Debug().Str("identifier", key).Msg("template cache hit")
			return t, nil
		}
	}

	if visiting[key] {
		return nil, &FormatError{Source: key, Reason: "partial reference cycle"}
	}
	if depth > r.maxDepth {
		return nil, &FormatError{Source: key, Reason: fmt.Sprintf("template nesting exceeds maximum depth %d", r.maxDepth)}
	}
	visiting[key] = true
	defer delete(visiting, key)

	var (
		data   []byte
		source string
	)
	if id.IsHub() {
		data, source, err = r.fetchHub(ctx, id)
	} else {
		data, source, err = r.loader.Read(id.Path)
	}
	if err != nil {
		return nil, err
	}

	bctx := buildContext{
		source:   key,
		strict:   r.strict,
		depth:    depth,
		maxDepth: r.maxDepth,
		resolve: func(ref string) (Template, error) {
			return r.resolve(ctx, ref, visiting, depth+1)
		},
		read: r.siblingReader(ctx, id, source),
	}

	var t Template
	if strings.HasSuffix(strings.ToLower(source), ".txt") {
		t, err = buildRaw(string(data), key)
	} else {
		t, err = buildDefinition(data, bctx)
	}
	if err != nil {
		return nil, err
	}

	for _, warning := range t.Warnings() {
		r.logger.Warn().Str("identifier", key).Msg(warning)
	}
	r.logger.Debug().Str("identifier", key).Str("kind", string(t.Kind())).Msg("template resolved")

	if r.cache != nil {
		r.cache.Put(key, t)
	}
	return t, nil
}

// Raw returns the unparsed template source and a syntax hint ("yaml",
// "json", or "text"). Nothing is built or cached.
func (r *Resolver) Raw(ctx context.Context, identifier string) ([]byte, string, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return nil, "", err
	}

	var (
		data   []byte
		source string
	)
	if id.IsHub() {
		data, source, err = r.fetchHub(ctx, id)
	} else {
		data, source, err = r.loader.Read(id.Path)
	}
	if err != nil {
		return nil, "", err
	}
	return data, sourceSyntax(source), nil
}

// fetchHub retrieves the template bytes for a hub identifier, wrapping every
// failure in a RetrievalError. Fetches are not retried.
func (r *Resolver) fetchHub(ctx context.Context, id Identifier) ([]byte, string, error) {
	if r.hub == nil {
		return nil, "", &RetrievalError{URL: id.String(), Err: errors.New("no hub client configured")}
	}

	p := id.fetchPath()
	data, err := r.hub.Fetch(ctx, id.Ref, p)
	if err != nil {
		return nil, "", retrievalError(id.String(), err)
	}
	return data, p, nil
}

// siblingReader returns the callback for files referenced relative to the
// resolved template: template_path, example_prompt_path, and example files.
// Hub templates fetch siblings from the hub; local templates read next to
// the defining file.
func (r *Resolver) siblingReader(ctx context.Context, id Identifier, source string) func(string) ([]byte, string, error) {
	if id.IsHub() {
		base := path.Dir(id.fetchPath())
		return func(rel string) ([]byte, string, error) {
			p := path.Join(base, rel)
			data, err := r.hub.Fetch(ctx, id.Ref, p)
			if err != nil {
				return nil, "", retrievalError(p, err)
			}
			return data, p, nil
		}
	}

	base := filepath.Dir(source)
	return func(rel string) ([]byte, string, error) {
		if filepath.IsAbs(rel) {
			return r.loader.Read(rel)
		}
		return r.loader.Read(filepath.Join(base, rel))
	}
}

// retrievalError wraps a hub failure, lifting the attempted URL and HTTP
// status out of the cause when the client exposes them.
func retrievalError(fallbackURL string, err error) *RetrievalError {
	re := &RetrievalError{URL: fallbackURL, Err: err}

	var withStatus interface{ HTTPStatus() int }
	if errors.As(err, &withStatus) {
		re.StatusCode = withStatus.HTTPStatus()
	}
	var withURL interface{ RequestURL() string }
	if errors.As(err, &withURL) {
		re.URL = withURL.RequestURL()
	}
	return re
}

// sourceSyntax maps a resolved source name to a syntax hint.
func sourceSyntax(source string) string {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "text"
	}
}
