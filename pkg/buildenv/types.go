// pkg/buildenv/types.go
package buildenv

import "strings"

// Layout defines where files live inside a prefix
type Layout struct {
	Libraries []string // Relative paths to library directories
	Includes  []string // Relative paths to include directories
	PkgConfig []string // Relative paths to pkg-config directories
	Binaries  []string // Relative paths to binary directories
}

// Library represents a found library file
type Library struct {
	Name     string // Library name (e.g., "png")
	Path     string // Absolute path to library file
	Type     string // Extension: ".so", ".a", ".dylib"
	IsStatic bool   // True for .a files
}

// Environment is the set of prefixes a build searches
type Environment struct {
	Root     string   // install root (e.g., /usr/local)
	Prefixes []string // dependency prefixes, searched before Root
	Layout   Layout
}

// CompilerFlags holds compiler and linker flags
type CompilerFlags struct {
	IncludeFlags []string // -I flags
	LibraryFlags []string // -L flags
}

// CFlags joins the include flags
func (f CompilerFlags) CFlags() string {
	return strings.Join(f.IncludeFlags, " ")
}

// LDFlags joins the library flags
func (f CompilerFlags) LDFlags() string {
	return strings.Join(f.LibraryFlags, " ")
}
