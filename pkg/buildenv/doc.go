// pkg/buildenv/doc.go
package buildenv

/*
Package buildenv derives the environment a formula builds in.

It handles:
  - Discovering bin, lib, include and pkg-config directories under the
    install root and under each dependency prefix
  - Generating compiler and linker flags
  - Finding specific libraries within those prefixes
  - Prepending search paths to a process environment

Basic Usage:

    env := buildenv.New("/usr/local", "/usr/local/Cellar/freetype/2.5.0")

    // Environment for build commands
    vars := env.Environ(os.Environ())

    // Find a specific library
    if lib := env.FindLibrary("png"); lib != nil {
        fmt.Printf("Found: %s at %s\n", lib.Name, lib.Path)
    }

    // Compiler flags
    flags := env.CompilerFlags()
    fmt.Println(flags.CFlags()) // -I/usr/local/Cellar/freetype/2.5.0/include ...

Dependency prefixes are searched before the install root so a keg-only
dependency wins over whatever happens to be linked into the root.
*/
