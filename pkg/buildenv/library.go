// pkg/buildenv/library.go
package buildenv

import "path/filepath"

// FindLibrary searches for a library by name.
// Returns the first match found in library search paths
func (e *Environment) FindLibrary(name string) *Library {
	for _, dir := range e.LibraryPaths() {
		for _, ext := range LibraryExtensions() {
			// lib{name}{ext}, e.g. libpng.so
			filename := "lib" + name + ext
			fullPath := filepath.Join(dir, filename)
			if fileExists(fullPath) {
				return &Library{Name: name, Path: fullPath, Type: ext, IsStatic: ext == ".a"}
			}

			// versioned, e.g. libpng16.so.16 or libfreetype.6.dylib
			matches, _ := filepath.Glob(filepath.Join(dir, "lib"+name+"*"+ext+"*"))
			if len(matches) > 0 {
				return &Library{Name: name, Path: matches[0], Type: ext, IsStatic: ext == ".a"}
			}
		}
	}
	return nil
}

// HasLibrary checks if a library exists in the environment
func (e *Environment) HasLibrary(name string) bool {
	return e.FindLibrary(name) != nil
}
