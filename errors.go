// errors.go
package ubrew

import (
	"errors"
	"fmt"

	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/fetch"
	"github.com/arc-language/ubrew/pkg/install"
	"github.com/arc-language/ubrew/pkg/registry"
)

var (
	// ErrFormulaNotFound indicates no formula is registered under a name
	ErrFormulaNotFound = registry.ErrFormulaNotFound

	// ErrInvalidFormula indicates a formula descriptor failed validation
	ErrInvalidFormula = descriptor.ErrInvalid

	// ErrNoInstallRoutine indicates a build of a descriptor-only formula
	ErrNoInstallRoutine = core.ErrNoInstallRoutine

	// ErrUnknownOption indicates a build option the formula does not declare
	ErrUnknownOption = descriptor.ErrUnknownOption

	// ErrHashMismatch indicates a checksum verification failure
	ErrHashMismatch = fetch.ErrChecksumMismatch

	// ErrNoHead indicates a head build of a formula without a head URL
	ErrNoHead = install.ErrNoHead

	// ErrPlatformNotSupported indicates the platform is not supported
	ErrPlatformNotSupported = errors.New("platform not supported")
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op, pkg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Package: pkg, Err: err}
}
