// pkg/descriptor/validate.go
package descriptor

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/github/go-spdx/v2/spdxexp"
	"zombiezen.com/go/nix"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid descriptor")

// Validate checks the fields the engine relies on. All problems are
// reported together.
func Validate(d *Descriptor) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalid)
	}

	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: %s: %s", ErrInvalid, d.Name, fmt.Sprintf(format, args...)))
	}

	if d.Name == "" {
		fail("name is required")
	}
	if d.Version == "" {
		fail("version is required and could not be guessed from %q", d.URL)
	}
	if err := checkURL(d.URL); err != nil {
		fail("url: %v", err)
	}
	if _, err := nix.ParseHash(d.Checksum); err != nil {
		fail("checksum: %v", err)
	}
	if d.Head != "" {
		if err := checkURL(d.Head); err != nil {
			fail("head: %v", err)
		}
	}
	if d.License != "" {
		if ok, invalid := spdxexp.ValidateLicenses([]string{d.License}); !ok {
			fail("license: not a valid SPDX expression: %v", invalid)
		}
	}

	options := make(map[string]bool)
	for _, o := range d.AvailableOptions() {
		options[o.Name] = true
	}

	for _, dep := range d.Dependencies {
		if dep.Name == "" {
			fail("dependency with empty name")
			continue
		}
		if _, ok := activationNames[dep.Activation]; !ok {
			fail("dependency %s: unknown activation %d", dep.Name, int(dep.Activation))
		}
		for name := range dep.When {
			if !options[name] {
				fail("dependency %s: condition on unknown option %q", dep.Name, name)
			}
		}
	}

	seen := make(map[string]bool)
	for _, r := range d.Resources {
		if r.Name == "" {
			fail("resource with empty name")
			continue
		}
		if seen[r.Name] {
			fail("resource %s declared twice", r.Name)
		}
		seen[r.Name] = true
		if err := checkURL(r.URL); err != nil {
			fail("resource %s: url: %v", r.Name, err)
		}
		if _, err := nix.ParseHash(r.Checksum); err != nil {
			fail("resource %s: checksum: %v", r.Name, err)
		}
	}

	for _, p := range d.Patches {
		if err := checkURL(p.URL); err != nil {
			fail("patch: url: %v", err)
		}
		if p.Checksum != "" {
			if _, err := nix.ParseHash(p.Checksum); err != nil {
				fail("patch %s: checksum: %v", p.URL, err)
			}
		}
	}

	return errors.Join(errs...)
}

func checkURL(raw string) error {
	if raw == "" {
		return errors.New("empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "git", "ssh":
		if u.Host == "" {
			return fmt.Errorf("missing host in %q", raw)
		}
	case "file":
	default:
		return fmt.Errorf("unsupported scheme in %q", raw)
	}
	return nil
}
