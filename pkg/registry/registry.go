// pkg/registry/registry.go
package registry

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed deps
var builtin embed.FS

// ErrNoBackendEntry indicates an index entry has no name for a backend
var ErrNoBackendEntry = errors.New("no entry for backend")

// Entry represents a single deps/<name>/index.toml file
type Entry struct {
	Name     string            `toml:"name"`
	Libs     []string          `toml:"libs"`
	Backends map[string]string `toml:"backends"`
}

// Registry maps canonical dependency names to host package names
type Registry struct {
	sources []fs.FS
}

// New creates a Registry that consults <cacheDir>/deps before the
// built-in index
func New(cacheDir string) *Registry {
	r := Default()
	depsDir := filepath.Join(cacheDir, "deps")
	if info, err := os.Stat(depsDir); err == nil && info.IsDir() {
		r.sources = append([]fs.FS{os.DirFS(depsDir)}, r.sources...)
	}
	return r
}

// Default returns a Registry backed by the built-in index only
func Default() *Registry {
	sub, err := fs.Sub(builtin, "deps")
	if err != nil {
		panic(err)
	}
	return &Registry{sources: []fs.FS{sub}}
}

// Resolve takes a canonical package name and a backend,
// returns the backend-specific package name.
// e.g. Resolve("libpng", "apt") -> "libpng-dev"
func (r *Registry) Resolve(name string, backend string) (string, error) {
	entry, err := r.Load(name)
	if err != nil {
		return "", err
	}

	pkgName, ok := entry.Backends[backend]
	if !ok {
		return "", fmt.Errorf("registry: package '%s': %w '%s'", name, ErrNoBackendEntry, backend)
	}

	return pkgName, nil
}

// Load reads and parses deps/<name>/index.toml. Tap-qualified names
// (homebrew/dupes/tcl-tk) are looked up by their last element.
func (r *Registry) Load(name string) (*Entry, error) {
	key := path.Base(name)
	file := path.Join(key, "index.toml")

	for _, src := range r.sources {
		data, err := fs.ReadFile(src, file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("registry: reading '%s': %w", name, err)
		}

		var entry Entry
		if _, err := toml.Decode(string(data), &entry); err != nil {
			return nil, fmt.Errorf("registry: failed to parse '%s': %w", name, err)
		}
		return &entry, nil
	}

	return nil, fmt.Errorf("registry: package '%s': %w", name, ErrPackageNotFound)
}

// ErrPackageNotFound indicates the index has no entry for a name
var ErrPackageNotFound = errors.New("not found")
