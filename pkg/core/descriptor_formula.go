package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/probe"
)

// ErrNoInstallRoutine indicates a formula loaded from a descriptor file,
// which carries metadata but no build hooks
var ErrNoInstallRoutine = errors.New("descriptor has no install routine")

// DescriptorFormula is a Formula backed only by a descriptor file. It can
// be inspected, resolved and fetched but not built or tested.
type DescriptorFormula struct {
	desc *descriptor.Descriptor
	path string
}

// LoadDescriptorFormula reads a YAML, TOML or HCL descriptor file
func LoadDescriptorFormula(path string) (*DescriptorFormula, error) {
	d, err := descriptor.Load(path)
	if err != nil {
		return nil, err
	}
	return &DescriptorFormula{desc: d, path: path}, nil
}

// Path returns the file the descriptor was loaded from
func (f *DescriptorFormula) Path() string { return f.path }

func (f *DescriptorFormula) Descriptor() *descriptor.Descriptor { return f.desc }

func (f *DescriptorFormula) Probes(b *Build) []probe.Probe { return nil }

func (f *DescriptorFormula) Install(ctx context.Context, b *Build) error {
	return fmt.Errorf("%s: %w", f.path, ErrNoInstallRoutine)
}

func (f *DescriptorFormula) Caveats(b *Build) string { return "" }

func (f *DescriptorFormula) Test(ctx context.Context, b *Build) error {
	return fmt.Errorf("%s: %w", f.path, ErrNoInstallRoutine)
}
