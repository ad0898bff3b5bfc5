// pkg/buildenv/layout.go
package buildenv

import (
	"path/filepath"
	"runtime"
)

// KegLayout is the directory structure of an install prefix
func KegLayout() Layout {
	return Layout{
		Libraries: []string{"lib"},
		Includes:  []string{"include"},
		PkgConfig: []string{
			filepath.Join("lib", "pkgconfig"),
			filepath.Join("share", "pkgconfig"),
		},
		Binaries: []string{"bin", "sbin"},
	}
}

// LibraryExtensions returns file extensions to look for based on OS
func LibraryExtensions() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{".dylib", ".a"}
	default:
		return []string{".so", ".a"}
	}
}
