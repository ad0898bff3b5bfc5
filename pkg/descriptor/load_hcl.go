// pkg/descriptor/load_hcl.go
package descriptor

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclFile is the top-level structure of a .hcl descriptor:
//
//	package "name" {
//	  url      = "..."
//	  checksum = "sha256:..."
//	  depends_on "numpy" { when = { python3 = true } }
//	  resource "pyparsing" { url = "..." checksum = "..." }
//	}
type hclFile struct {
	Packages []*hclPackage `hcl:"package,block"`
}

type hclPackage struct {
	Name         string           `hcl:"name,label"`
	Version      string           `hcl:"version,optional"`
	Description  string           `hcl:"description,optional"`
	Homepage     string           `hcl:"homepage,optional"`
	License      string           `hcl:"license,optional"`
	URL          string           `hcl:"url"`
	Checksum     string           `hcl:"checksum,optional"`
	Head         string           `hcl:"head,optional"`
	Options      []*hclOption     `hcl:"option,block"`
	Dependencies []*hclDependency `hcl:"depends_on,block"`
	Resources    []*hclResource   `hcl:"resource,block"`
	Patches      []*hclPatch      `hcl:"patch,block"`
}

type hclOption struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Default     bool   `hcl:"default,optional"`
}

type hclDependency struct {
	Name        string          `hcl:"name,label"`
	Activation  string          `hcl:"activation,optional"`
	Build       bool            `hcl:"build,optional"`
	Requirement bool            `hcl:"requirement,optional"`
	When        map[string]bool `hcl:"when,optional"`
	Options     []string        `hcl:"options,optional"`
}

type hclResource struct {
	Name     string `hcl:"name,label"`
	URL      string `hcl:"url"`
	Checksum string `hcl:"checksum,optional"`
	Module   string `hcl:"module,optional"`
}

type hclPatch struct {
	URL      string `hcl:"url"`
	Checksum string `hcl:"checksum,optional"`
	Head     bool   `hcl:"head,optional"`
}

func decodeHCL(data []byte, filename string) (*Descriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if len(parsed.Packages) != 1 {
		return nil, fmt.Errorf("%s: %w", filename, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Expected exactly one \"package\" block",
			Detail:   fmt.Sprintf("Found %d package blocks.", len(parsed.Packages)),
		}})
	}

	return parsed.Packages[0].toDescriptor()
}

func (p *hclPackage) toDescriptor() (*Descriptor, error) {
	d := &Descriptor{
		Name:        p.Name,
		Version:     p.Version,
		Description: p.Description,
		Homepage:    p.Homepage,
		License:     p.License,
		URL:         p.URL,
		Checksum:    p.Checksum,
		Head:        p.Head,
	}

	for _, o := range p.Options {
		d.Options = append(d.Options, Option{Name: o.Name, Description: o.Description, Default: o.Default})
	}

	for _, dep := range p.Dependencies {
		activation, err := ParseActivation(dep.Activation)
		if err != nil {
			return nil, fmt.Errorf("%s: depends_on %q: %w", p.Name, dep.Name, err)
		}
		d.Dependencies = append(d.Dependencies, Dependency{
			Name:        dep.Name,
			Activation:  activation,
			Build:       dep.Build,
			Requirement: dep.Requirement,
			When:        dep.When,
			Options:     dep.Options,
		})
	}

	for _, r := range p.Resources {
		d.Resources = append(d.Resources, Resource{Name: r.Name, URL: r.URL, Checksum: r.Checksum, Module: r.Module})
	}

	for _, patch := range p.Patches {
		d.Patches = append(d.Patches, Patch{URL: patch.URL, Checksum: patch.Checksum, Head: patch.Head})
	}

	return d, nil
}
