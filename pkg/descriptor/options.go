// pkg/descriptor/options.go
package descriptor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnknownOption indicates a requested option is not offered by the descriptor
	ErrUnknownOption = errors.New("unknown option")

	// ErrConflictingOptions indicates an option was both enabled and disabled
	ErrConflictingOptions = errors.New("conflicting options")

	// ErrWrongSwitch indicates a without- name passed to --with, or a with-
	// name passed to --without
	ErrWrongSwitch = errors.New("option name does not match switch")
)

// Option is a named boolean build switch
type Option struct {
	Name        string `yaml:"name" toml:"name"`
	Description string `yaml:"description,omitempty" toml:"description"`
	Default     bool   `yaml:"default,omitempty" toml:"default"`
}

// Flag renders the option the way a user would toggle it away from its default
func (o Option) Flag() string {
	if o.Default {
		return "--without-" + o.Name
	}
	return "--with-" + o.Name
}

// BuildOptions maps option names to their resolved values
type BuildOptions map[string]bool

// With reports whether an option is enabled
func (o BuildOptions) With(name string) bool {
	name, err := optionName(name, "with-", "without-")
	return err == nil && o[name]
}

// Enabled returns the enabled option names, sorted
func (o BuildOptions) Enabled() []string {
	var names []string
	for name, on := range o {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy
func (o BuildOptions) Clone() BuildOptions {
	out := make(BuildOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// AvailableOptions lists declared options followed by the options derived
// from recommended (default on) and optional (default off) dependencies.
func (d *Descriptor) AvailableOptions() []Option {
	seen := make(map[string]bool)
	var out []Option

	for _, o := range d.Options {
		if seen[o.Name] {
			continue
		}
		seen[o.Name] = true
		out = append(out, o)
	}

	for _, dep := range d.Dependencies {
		if dep.Activation == Required {
			continue
		}
		name := dep.OptionName()
		if seen[name] {
			continue
		}
		seen[name] = true

		o := Option{Name: name, Default: dep.Activation == Recommended}
		if o.Default {
			o.Description = fmt.Sprintf("Build without %s support", name)
		} else {
			o.Description = fmt.Sprintf("Build with %s support", name)
		}
		out = append(out, o)
	}

	return out
}

// ResolveOptions starts from every option's default and applies the
// requested --with and --without switches.
func (d *Descriptor) ResolveOptions(with, without []string) (BuildOptions, error) {
	opts := make(BuildOptions)
	for _, o := range d.AvailableOptions() {
		opts[o.Name] = o.Default
	}

	enabled := make(map[string]bool)
	for _, raw := range with {
		name, err := optionName(raw, "with-", "without-")
		if err != nil {
			return nil, fmt.Errorf("%s: --with %s: %w", d.Name, raw, err)
		}
		if _, ok := opts[name]; !ok {
			return nil, fmt.Errorf("%s: --with-%s: %w", d.Name, name, ErrUnknownOption)
		}
		enabled[name] = true
		opts[name] = true
	}

	for _, raw := range without {
		name, err := optionName(raw, "without-", "with-")
		if err != nil {
			return nil, fmt.Errorf("%s: --without %s: %w", d.Name, raw, err)
		}
		if _, ok := opts[name]; !ok {
			return nil, fmt.Errorf("%s: --without-%s: %w", d.Name, name, ErrUnknownOption)
		}
		if enabled[name] {
			return nil, fmt.Errorf("%s: %s: %w", d.Name, name, ErrConflictingOptions)
		}
		opts[name] = false
	}

	return opts, nil
}

// optionName strips a leading "--" and the prefix matching the switch.
// The opposite switch's prefix is rejected.
func optionName(raw, prefix, opposite string) (string, error) {
	name := strings.TrimPrefix(raw, "--")
	if strings.HasPrefix(name, opposite) {
		return "", ErrWrongSwitch
	}
	return strings.TrimPrefix(name, prefix), nil
}
