package prompt

import (
	"embed"
	"fmt"
	"path"
	"strings"
)

//go:embed templates
var builtinFS embed.FS

// Builtins returns a fresh registry holding the templates shipped with the
// package, keyed by file name without extension. Each call builds new
// instances; callers own the returned registry.
func Builtins() (*Registry, error) {
	loader := NewEmbedLoader(builtinFS, "templates")
	registry := NewRegistry()

	names, err := loader.Names()
	if err != nil {
		return nil, fmt.Errorf("failed to list built-in templates: %w", err)
	}

	for _, name := range names {
		t, err := loader.Load(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in template %s: %w", name, err)
		}
		key := strings.TrimSuffix(name, path.Ext(name))
		if err := registry.Register(key, t); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
