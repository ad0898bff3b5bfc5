// Package shelltest provides a recording shell.Runner for tests.
package shelltest

import (
	"context"
	"fmt"
	"strings"

	"github.com/arc-language/ubrew/pkg/shell"
)

// Recorder records every Run call and answers queries from canned tables.
// Commands are keyed by their space-joined argv.
type Recorder struct {
	Commands []shell.Command // Run calls, in order
	Queries  []shell.Command // Output and Quiet calls, in order

	Fail    map[string]int    // argv key -> exit code returned by Run
	Outputs map[string]string // argv key -> stdout returned by Output
	Succeed map[string]bool   // argv key -> result of Quiet
}

// New returns an empty Recorder
func New() *Recorder {
	return &Recorder{
		Fail:    make(map[string]int),
		Outputs: make(map[string]string),
		Succeed: make(map[string]bool),
	}
}

// Key renders argv the way the Recorder tables are keyed
func Key(argv ...string) string {
	return strings.Join(argv, " ")
}

// Run records the command and fails if it is listed in Fail
func (r *Recorder) Run(ctx context.Context, c shell.Command) error {
	r.Commands = append(r.Commands, c)
	if code, ok := r.Fail[Key(c.Argv()...)]; ok {
		return &shell.ExitError{Command: c.String(), Code: code}
	}
	return nil
}

// Output returns the canned stdout, or an exit error when none is set
func (r *Recorder) Output(ctx context.Context, c shell.Command) (string, error) {
	r.Queries = append(r.Queries, c)
	out, ok := r.Outputs[Key(c.Argv()...)]
	if !ok {
		return "", &shell.ExitError{Command: c.String(), Code: 127, Stderr: fmt.Sprintf("%s: not found", c.Name)}
	}
	return out, nil
}

// Quiet returns the canned result (false when unset)
func (r *Recorder) Quiet(ctx context.Context, c shell.Command) bool {
	r.Queries = append(r.Queries, c)
	return r.Succeed[Key(c.Argv()...)]
}

// Lines returns the recorded Run calls as argv keys
func (r *Recorder) Lines() []string {
	lines := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		lines = append(lines, Key(c.Argv()...))
	}
	return lines
}
