// pkg/registry/formulas.go
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arc-language/ubrew/pkg/core"
)

// ErrFormulaNotFound indicates no formula is registered under a name
var ErrFormulaNotFound = errors.New("formula not found")

// Formulas holds the formulae the tool can build
type Formulas struct {
	byName map[string]core.Formula
}

// NewFormulas creates a formula set
func NewFormulas(formulas ...core.Formula) *Formulas {
	f := &Formulas{byName: make(map[string]core.Formula)}
	for _, formula := range formulas {
		f.Register(formula)
	}
	return f
}

// Register adds a formula, replacing any formula of the same name
func (f *Formulas) Register(formula core.Formula) {
	f.byName[formula.Descriptor().Name] = formula
}

// Get looks a formula up by name
func (f *Formulas) Get(name string) (core.Formula, error) {
	formula, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormulaNotFound, name)
	}
	return formula, nil
}

// Available returns registered formula names, sorted
func (f *Formulas) Available() []string {
	names := make([]string, 0, len(f.byName))
	for name := range f.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
