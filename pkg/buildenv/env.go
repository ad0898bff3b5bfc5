// pkg/buildenv/env.go
package buildenv

import (
	"os"
	"path/filepath"
	"strings"
)

// New creates an environment for root and the given dependency prefixes
func New(root string, prefixes ...string) *Environment {
	return &Environment{
		Root:     root,
		Prefixes: prefixes,
		Layout:   KegLayout(),
	}
}

// prefixes returns the dependency prefixes followed by the root
func (e *Environment) prefixes() []string {
	all := make([]string, 0, len(e.Prefixes)+1)
	all = append(all, e.Prefixes...)
	if e.Root != "" {
		all = append(all, e.Root)
	}
	return all
}

// existing joins every prefix with every relative dir and keeps the
// directories that exist
func (e *Environment) existing(rel []string) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, prefix := range e.prefixes() {
		for _, r := range rel {
			dir := filepath.Join(prefix, r)
			if seen[dir] || !dirExists(dir) {
				continue
			}
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// LibraryPaths returns library directories in search order
func (e *Environment) LibraryPaths() []string { return e.existing(e.Layout.Libraries) }

// IncludePaths returns include directories in search order
func (e *Environment) IncludePaths() []string { return e.existing(e.Layout.Includes) }

// PkgConfigPaths returns pkg-config directories in search order
func (e *Environment) PkgConfigPaths() []string { return e.existing(e.Layout.PkgConfig) }

// BinaryPaths returns executable directories in search order
func (e *Environment) BinaryPaths() []string { return e.existing(e.Layout.Binaries) }

// CompilerFlags returns -I and -L flags for every prefix
func (e *Environment) CompilerFlags() CompilerFlags {
	var flags CompilerFlags
	for _, dir := range e.IncludePaths() {
		flags.IncludeFlags = append(flags.IncludeFlags, "-I"+dir)
	}
	for _, dir := range e.LibraryPaths() {
		flags.LibraryFlags = append(flags.LibraryFlags, "-L"+dir)
	}
	return flags
}

// Environ returns base with the search paths prepended to PATH,
// PKG_CONFIG_PATH, CPATH and LIBRARY_PATH, and the compiler flags put
// in front of CFLAGS and LDFLAGS
func (e *Environment) Environ(base []string) []string {
	env := append([]string(nil), base...)
	env = Prepend(env, "PATH", e.BinaryPaths()...)
	env = Prepend(env, "PKG_CONFIG_PATH", e.PkgConfigPaths()...)
	env = Prepend(env, "CPATH", e.IncludePaths()...)
	env = Prepend(env, "LIBRARY_PATH", e.LibraryPaths()...)

	flags := e.CompilerFlags()
	env = prependFlags(env, "CFLAGS", flags.CFlags())
	env = prependFlags(env, "LDFLAGS", flags.LDFlags())
	return env
}

// Prepend returns a copy of env with dirs placed in front of the
// list-valued variable key
func Prepend(env []string, key string, dirs ...string) []string {
	out := make([]string, 0, len(env)+1)
	if len(dirs) == 0 {
		return append(out, env...)
	}

	value := strings.Join(dirs, string(os.PathListSeparator))
	if current, ok := Lookup(env, key); ok && current != "" {
		value += string(os.PathListSeparator) + current
	}

	for _, kv := range env {
		if !strings.HasPrefix(kv, key+"=") {
			out = append(out, kv)
		}
	}
	return append(out, key+"="+value)
}

// prependFlags puts flags in front of the space-separated variable key
func prependFlags(env []string, key, flags string) []string {
	if flags == "" {
		return env
	}
	value := flags
	if current, ok := Lookup(env, key); ok && current != "" {
		value += " " + current
	}

	out := make([]string, 0, len(env)+1)
	for _, kv := range env {
		if !strings.HasPrefix(kv, key+"=") {
			out = append(out, kv)
		}
	}
	return append(out, key+"="+value)
}

// Lookup returns the value of key in env
func Lookup(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(env[i], key+"="); ok {
			return v, true
		}
	}
	return "", false
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
