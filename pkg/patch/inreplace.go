// pkg/patch/inreplace.go
package patch

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNoMatch indicates a substitution's pattern was not found
	ErrNoMatch = errors.New("pattern not found")

	// ErrMultipleMatches indicates a substitution's pattern matched more than once
	ErrMultipleMatches = errors.New("pattern matched more than once")
)

// Substitution replaces one exact literal occurrence of Old with New
type Substitution struct {
	Old string
	New string
}

// Apply applies each substitution in order. Every Old must occur exactly
// once in the content at the time its substitution is applied.
func Apply(content string, subs ...Substitution) (string, error) {
	for _, s := range subs {
		if s.Old == "" {
			return "", fmt.Errorf("empty pattern: %w", ErrNoMatch)
		}
		switch n := strings.Count(content, s.Old); n {
		case 0:
			return "", fmt.Errorf("%q: %w", s.Old, ErrNoMatch)
		case 1:
			content = strings.Replace(content, s.Old, s.New, 1)
		default:
			return "", fmt.Errorf("%q (%d times): %w", s.Old, n, ErrMultipleMatches)
		}
	}
	return content, nil
}

// ApplyFile applies substitutions to a file in place, keeping its mode.
// The file is left untouched when any substitution fails.
func ApplyFile(path string, subs ...Substitution) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inreplace %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("inreplace %s: %w", path, err)
	}

	out, err := Apply(string(data), subs...)
	if err != nil {
		return fmt.Errorf("inreplace %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("inreplace %s: %w", path, err)
	}
	return nil
}
