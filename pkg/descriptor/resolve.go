// pkg/descriptor/resolve.go
package descriptor

// Resolve selects the dependencies that apply to a build with the given
// options. It is a pure function of its inputs; declaration order is kept.
// opts should come from ResolveOptions so that defaults are present.
func Resolve(d *Descriptor, opts BuildOptions) []Dependency {
	var out []Dependency
	for _, dep := range d.Dependencies {
		if !dep.Matches(opts) {
			continue
		}
		if dep.Activation != Required && !opts.With(dep.OptionName()) {
			continue
		}
		out = append(out, dep.clone())
	}
	return out
}

// Matches reports whether every When constraint holds for opts
func (d Dependency) Matches(opts BuildOptions) bool {
	for name, want := range d.When {
		if opts.With(name) != want {
			return false
		}
	}
	return true
}

// Requirements returns the resolved dependencies checked by probes
func Requirements(deps []Dependency) []Dependency {
	var out []Dependency
	for _, dep := range deps {
		if dep.Requirement {
			out = append(out, dep)
		}
	}
	return out
}

// Formulae returns the resolved dependencies that are installed packages
func Formulae(deps []Dependency) []Dependency {
	var out []Dependency
	for _, dep := range deps {
		if !dep.Requirement {
			out = append(out, dep)
		}
	}
	return out
}

func (d Dependency) clone() Dependency {
	c := d
	if d.When != nil {
		c.When = make(map[string]bool, len(d.When))
		for k, v := range d.When {
			c.When[k] = v
		}
	}
	if d.Options != nil {
		c.Options = append([]string(nil), d.Options...)
	}
	return c
}
