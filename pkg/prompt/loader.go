package prompt

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileLoader reads template files, resolving relative names against a base
// directory.
type FileLoader struct {
	baseDir string
}

// NewFileLoader creates a file-based template loader rooted at baseDir.
func NewFileLoader(baseDir string) *FileLoader {
	return &FileLoader{baseDir: baseDir}
}

// Resolve returns the path Read will open for name. Absolute names pass
// through unchanged.
func (f *FileLoader) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(f.baseDir, name)
}

// Read loads the named template file. Missing files and permission failures
// surface as a LoadError carrying the resolved path.
func (f *FileLoader) Read(name string) ([]byte, string, error) {
	p := f.Resolve(name)

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, "", &LoadError{Path: p, Err: err}
	}
	return data, p, nil
}

// Load reads and builds the named template without a resolver. Sibling
// files (template_path, example files) work; partial references by
// identifier do not, and hub identifiers are not understood here.
func (f *FileLoader) Load(name string) (Template, error) {
	data, p, err := f.Read(name)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(p), ".txt") {
		return buildRaw(string(data), p)
	}

	dir := filepath.Dir(p)
	ctx := buildContext{
		source:   p,
		maxDepth: DefaultMaxDepth,
		read: func(rel string) ([]byte, string, error) {
			if filepath.IsAbs(rel) {
				return f.Read(rel)
			}
			return f.Read(filepath.Join(dir, rel))
		},
	}
	return buildDefinition(data, ctx)
}

// EmbedLoader reads template files from an embedded filesystem.
type EmbedLoader struct {
	fsys   embed.FS
	prefix string
}

// NewEmbedLoader creates a loader over embedded files under prefix.
func NewEmbedLoader(fsys embed.FS, prefix string) *EmbedLoader {
	return &EmbedLoader{fsys: fsys, prefix: prefix}
}

// Read loads the named embedded file.
func (e *EmbedLoader) Read(name string) ([]byte, string, error) {
	p := path.Join(e.prefix, name)

	data, err := e.fsys.ReadFile(p)
	if err != nil {
		return nil, "", &LoadError{Path: p, Err: err}
	}
	return data, p, nil
}

// Load reads and builds the named embedded template. Like FileLoader.Load,
// inline definitions and sibling files work; identifier references do not.
func (e *EmbedLoader) Load(name string) (Template, error) {
	data, p, err := e.Read(name)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(strings.ToLower(p), ".txt") {
		return buildRaw(string(data), p)
	}

	dir := path.Dir(p)
	ctx := buildContext{
		source:   p,
		maxDepth: DefaultMaxDepth,
		read: func(rel string) ([]byte, string, error) {
			sibling := path.Join(dir, rel)
			data, err := e.fsys.ReadFile(sibling)
			if err != nil {
				return nil, "", &LoadError{Path: sibling, Err: err}
			}
			return data, sibling, nil
		},
	}
	return buildDefinition(data, ctx)
}

// Names lists the template files under the loader's prefix, relative to it.
func (e *EmbedLoader) Names() ([]string, error) {
	var names []string

	err := fs.WalkDir(e.fsys, e.prefix, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasTemplateExt(p) {
			return nil
		}
		rel, err := filepath.Rel(e.prefix, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}
