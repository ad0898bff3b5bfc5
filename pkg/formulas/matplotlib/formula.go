// Package matplotlib builds the matplotlib Python plotting library.
package matplotlib

import (
	_ "embed"
	"sync"

	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/descriptor"
)

//go:embed matplotlib.yaml
var descriptorYAML []byte

var (
	loadOnce sync.Once
	loaded   *descriptor.Descriptor
	loadErr  error
)

// Formula is the matplotlib recipe
type Formula struct {
	desc *descriptor.Descriptor
}

var _ core.Formula = (*Formula)(nil)

// New returns the matplotlib formula. It panics if the embedded
// descriptor does not parse, which is a build defect.
func New() *Formula {
	loadOnce.Do(func() {
		loaded, loadErr = descriptor.Parse(descriptorYAML, descriptor.FormatYAML)
	})
	if loadErr != nil {
		panic("matplotlib: embedded descriptor: " + loadErr.Error())
	}
	return &Formula{desc: loaded}
}

// Descriptor returns the package metadata
func (f *Formula) Descriptor() *descriptor.Descriptor {
	return f.desc
}
