// pkg/shell/runner.go
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"mvdan.cc/sh/v3/syntax"
)

// Command describes one external process invocation
type Command struct {
	Name string   // Executable name or path
	Args []string // Arguments, not including Name
	Dir  string   // Working directory (current directory if empty)
	Env  []string // Full environment in KEY=VALUE form (inherits os.Environ() if nil)
}

// Cmd is a shorthand for a Command with no directory or environment
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// Argv returns the program name followed by its arguments
func (c Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// String renders the command as a copy-pasteable shell line
func (c Command) String() string {
	words := make([]string, 0, len(c.Args)+1)
	for _, w := range c.Argv() {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			q = fmt.Sprintf("%q", w)
		}
		words = append(words, q)
	}
	return strings.Join(words, " ")
}

// Runner executes external commands.
//
// Run streams output and fails with *ExitError on a non-zero exit. Output
// returns trimmed stdout. Quiet reports whether the command ran and exited
// zero; a missing executable is simply false.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) (string, error)
	Quiet(ctx context.Context, cmd Command) bool
}

// ExitError is returned when a command exits with a non-zero status
type ExitError struct {
	Command string
	Code    int
	Stderr  string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command failed with exit status %d: %s: %s", e.Code, e.Command, e.Stderr)
	}
	return fmt.Sprintf("command failed with exit status %d: %s", e.Code, e.Command)
}

// ExecRunner runs commands on the host with os/exec
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.SugaredLogger
}

// NewExecRunner creates a runner that streams to the process stdout/stderr
func NewExecRunner(logger *zap.SugaredLogger) *ExecRunner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Run executes the command and waits for it to finish
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	r.Logger.Debugf("Exec: [%s]", c)

	cmd := r.command(ctx, c)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	return wrapExit(c, cmd.Run(), "")
}

// Output executes the command and returns its trimmed stdout
func (r *ExecRunner) Output(ctx context.Context, c Command) (string, error) {
	r.Logger.Debugf("Exec (output): [%s]", c)

	var stderr bytes.Buffer
	cmd := r.command(ctx, c)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", wrapExit(c, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// Quiet executes the command with all output discarded
func (r *ExecRunner) Quiet(ctx context.Context, c Command) bool {
	cmd := r.command(ctx, c)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	err := cmd.Run()
	r.Logger.Debugf("Exec (quiet): [%s] ok=%v", c, err == nil)
	return err == nil
}

func (r *ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Env != nil {
		cmd.Env = c.Env
	}
	return cmd
}

func wrapExit(c Command, err error, stderr string) error {
	if err == nil {
		return nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return &ExitError{Command: c.String(), Code: ee.ExitCode(), Stderr: stderr}
	}
	return fmt.Errorf("running %s: %w", c.Name, err)
}
