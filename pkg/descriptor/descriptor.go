// pkg/descriptor/descriptor.go
package descriptor

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Activation controls when a dependency is part of a build
type Activation int

const (
	// Required dependencies are always selected
	Required Activation = iota
	// Recommended dependencies are selected unless built --without them
	Recommended
	// Optional dependencies are selected only when built --with them
	Optional
)

var activationNames = map[Activation]string{
	Required:    "required",
	Recommended: "recommended",
	Optional:    "optional",
}

// ParseActivation parses "required", "recommended" or "optional".
// An empty string means required.
func ParseActivation(s string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "required":
		return Required, nil
	case "recommended":
		return Recommended, nil
	case "optional":
		return Optional, nil
	}
	return Required, fmt.Errorf("unknown activation %q", s)
}

func (a Activation) String() string {
	if name, ok := activationNames[a]; ok {
		return name
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler
func (a Activation) MarshalText() ([]byte, error) {
	if _, ok := activationNames[a]; !ok {
		return nil, fmt.Errorf("unknown activation %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Activation) UnmarshalText(text []byte) error {
	parsed, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Descriptor is the static metadata of a package: where to fetch it, how to
// verify it and what it depends on.
type Descriptor struct {
	Name         string       `yaml:"name" toml:"name"`
	Version      string       `yaml:"version,omitempty" toml:"version"`
	Description  string       `yaml:"description,omitempty" toml:"description"`
	Homepage     string       `yaml:"homepage" toml:"homepage"`
	License      string       `yaml:"license,omitempty" toml:"license"`
	URL          string       `yaml:"url" toml:"url"`
	Checksum     string       `yaml:"checksum" toml:"checksum"`
	Head         string       `yaml:"head,omitempty" toml:"head"`
	Options      []Option     `yaml:"options,omitempty" toml:"options"`
	Dependencies []Dependency `yaml:"dependencies,omitempty" toml:"dependencies"`
	Resources    []Resource   `yaml:"resources,omitempty" toml:"resources"`
	Patches      []Patch      `yaml:"patches,omitempty" toml:"patches"`
}

// Dependency is one entry of a descriptor's dependency list
type Dependency struct {
	Name        string          `yaml:"name" toml:"name"`
	Activation  Activation      `yaml:"activation,omitempty" toml:"activation"`
	Build       bool            `yaml:"build,omitempty" toml:"build"`             // only needed while building
	Requirement bool            `yaml:"requirement,omitempty" toml:"requirement"` // checked by a probe, not installed
	When        map[string]bool `yaml:"when,omitempty" toml:"when"`               // option -> required value
	Options     []string        `yaml:"options,omitempty" toml:"options"`         // options forwarded to the dependency
}

// OptionName is the build option that toggles a recommended or optional
// dependency, e.g. "tcl-tk" for "homebrew/dupes/tcl-tk".
func (d Dependency) OptionName() string {
	return path.Base(d.Name)
}

// Resource is an auxiliary download staged during install
type Resource struct {
	Name     string `yaml:"name" toml:"name"`
	URL      string `yaml:"url" toml:"url"`
	Checksum string `yaml:"checksum" toml:"checksum"`
	Module   string `yaml:"module,omitempty" toml:"module"` // importable module that satisfies the resource
}

// Patch is a diff applied to the source tree before install
type Patch struct {
	URL      string `yaml:"url" toml:"url"`
	Checksum string `yaml:"checksum,omitempty" toml:"checksum"`
	Head     bool   `yaml:"head,omitempty" toml:"head"` // also apply to head builds
}

// Resource looks up a resource by name
func (d *Descriptor) Resource(name string) (Resource, bool) {
	for _, r := range d.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// PatchesFor returns the patches that apply to a stable or head build
func (d *Descriptor) PatchesFor(head bool) []Patch {
	var out []Patch
	for _, p := range d.Patches {
		if head && !p.Head {
			continue
		}
		out = append(out, p)
	}
	return out
}

var versionPattern = regexp.MustCompile(`-v?(\d+(?:\.\d+)+[a-z0-9]*)(?:\.tar\.(?:gz|xz|bz2|zst)|\.tgz|\.zip)$`)

// GuessVersion extracts a version from a source URL such as
// ".../matplotlib-1.3.1.tar.gz". It returns "" when none is found.
func GuessVersion(url string) string {
	m := versionPattern.FindStringSubmatch(path.Base(url))
	if m == nil {
		return ""
	}
	return m[1]
}

func (d *Descriptor) normalize() {
	if d.Version == "" {
		d.Version = GuessVersion(d.URL)
	}
}
