// pkg/core/formula.go
package core

import (
	"context"

	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/probe"
)

// Formula is a buildable package: a static descriptor plus the hooks
// that build, describe and test it
type Formula interface {
	// Descriptor returns the package metadata
	Descriptor() *descriptor.Descriptor

	// Probes returns the requirement checks for the resolved build
	Probes(b *Build) []probe.Probe

	// Install builds the unpacked source in b.SourceDir into b.Prefix
	Install(ctx context.Context, b *Build) error

	// Caveats returns post-install advice (may be empty)
	Caveats(b *Build) string

	// Test exercises an installed build
	Test(ctx context.Context, b *Build) error
}
