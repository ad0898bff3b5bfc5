// Package install drives a formula through its build lifecycle.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arc-language/ubrew/pkg/buildenv"
	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/fetch"
	"github.com/arc-language/ubrew/pkg/platform"
	"github.com/arc-language/ubrew/pkg/probe"
	"github.com/arc-language/ubrew/pkg/python"
	"github.com/arc-language/ubrew/pkg/receipt"
	"github.com/arc-language/ubrew/pkg/shell"
	"go.uber.org/zap"
)

// ErrNoHead indicates a head build of a formula without a head URL
var ErrNoHead = errors.New("formula has no head URL")

// Config configures an Installer
type Config struct {
	Root         string            // install root; kegs go to <Root>/Cellar
	Runner       shell.Runner      // executes build commands
	Stager       *fetch.Stager     // fetches and unpacks sources
	Host         *platform.Host    // detected host
	Interpreters map[string]string // runtime name -> executable override
	Installed    func(name string) bool

	// DependencyPrefix returns the install prefix of a dependency
	DependencyPrefix func(name string) (string, bool)
	// Libraries lists the library names a dependency provides
	Libraries func(name string) []string

	Env       []string  // base environment (os.Environ() if nil)
	DryRunOut io.Writer // where dry-run commands are printed (stdout if nil)
	Logger    *zap.SugaredLogger
}

// Request selects how a formula is built
type Request struct {
	With    []string
	Without []string
	Head    bool
	DryRun  bool
}

// Report summarizes an install
type Report struct {
	Prefix       string
	Dependencies []descriptor.Dependency
	Advisories   []probe.Report // failed requirement probes
	Warnings     []string
	Caveats      string
	Receipt      *receipt.Receipt
}

// Installer runs formulae through validate, resolve, probe, stage,
// patch, install and receipt
type Installer struct {
	cfg    Config
	logger *zap.SugaredLogger
}

// New creates an Installer
func New(cfg Config) *Installer {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Host == nil {
		cfg.Host = &platform.Host{}
	}
	if cfg.Env == nil {
		cfg.Env = os.Environ()
	}
	return &Installer{cfg: cfg, logger: cfg.Logger}
}

// KegPrefix returns <root>/Cellar/<name>/<version>, with HEAD as the
// version of head builds
func KegPrefix(root string, d *descriptor.Descriptor, head bool) string {
	version := d.Version
	if head {
		version = "HEAD"
	}
	return filepath.Join(root, "Cellar", d.Name, version)
}

// Prepare validates the formula and resolves a build for req. Nothing is
// fetched or run.
func (i *Installer) Prepare(f core.Formula, req Request) (*core.Build, []string, error) {
	d := f.Descriptor()
	if err := descriptor.Validate(d); err != nil {
		return nil, nil, err
	}
	if req.Head && d.Head == "" {
		return nil, nil, fmt.Errorf("%s: %w", d.Name, ErrNoHead)
	}

	opts, err := d.ResolveOptions(req.With, req.Without)
	if err != nil {
		return nil, nil, err
	}
	deps := descriptor.Resolve(d, opts)

	prefixes, warnings := i.dependencyPrefixes(deps)

	runner := i.cfg.Runner
	if req.DryRun {
		dry := shell.NewDryRunRunner(runner)
		if i.cfg.DryRunOut != nil {
			dry.Out = i.cfg.DryRunOut
		}
		runner = dry
	}

	search := buildenv.New(i.cfg.Root, prefixes...)
	b := &core.Build{
		Descriptor:   d,
		Options:      opts,
		Dependencies: deps,
		Head:         req.Head,
		Root:         i.cfg.Root,
		Prefix:       KegPrefix(i.cfg.Root, d, req.Head),
		Host:         i.cfg.Host,
		Runner:       runner,
		Env:          search.Environ(i.cfg.Env),
		Search:       search,
		Stager:       i.cfg.Stager,
		Runtimes:     python.Configured(opts, i.cfg.Interpreters),
		Libraries:    i.cfg.Libraries,
		Installed:    i.cfg.Installed,
		Logger:       i.logger,
	}
	return b, warnings, nil
}

// dependencyPrefixes collects the configured prefixes of resolved
// formula dependencies and a warning for each one without a prefix
func (i *Installer) dependencyPrefixes(deps []descriptor.Dependency) ([]string, []string) {
	var prefixes, warnings []string
	for _, dep := range descriptor.Formulae(deps) {
		name := filepath.Base(dep.Name)
		if i.cfg.DependencyPrefix != nil {
			if p, ok := i.cfg.DependencyPrefix(name); ok {
				prefixes = append(prefixes, p)
				continue
			}
		}
		if i.cfg.Installed != nil && i.cfg.Installed(name) {
			continue
		}
		kind := "dependency"
		if dep.Build {
			kind = "build dependency"
		}
		warnings = append(warnings, fmt.Sprintf("%s %s has no install prefix; assuming it is on the default search path", kind, dep.Name))
	}
	return prefixes, warnings
}

// Check runs the formula's requirement probes. Failures are advisory.
func (i *Installer) Check(ctx context.Context, f core.Formula, b *core.Build) []probe.Report {
	env := probe.NewHostEnvironment(b.Runner)
	env.Env = b.Env
	return probe.CheckAll(ctx, env, f.Probes(b)...)
}

// Install builds and installs a formula
func (i *Installer) Install(ctx context.Context, f core.Formula, req Request) (*Report, error) {
	d := f.Descriptor()
	i.logger.Infof("Starting install for formula: %s", d.Name)

	i.logger.Infof("Step 1: Resolving build...")
	b, warnings, err := i.Prepare(f, req)
	if err != nil {
		return nil, err
	}
	i.logger.Infof("  ✓ %s %s, options %v", d.Name, d.Version, b.Options.Enabled())
	i.logger.Infof("    Prefix: %s", b.Prefix)

	report := &Report{
		Prefix:       b.Prefix,
		Dependencies: b.Dependencies,
		Warnings:     warnings,
	}
	for _, w := range warnings {
		i.logger.Warnf("  ⚠️  %s", w)
	}

	i.logger.Infof("Step 2: Checking requirements...")
	report.Advisories = probe.Failed(i.Check(ctx, f, b))
	for _, a := range report.Advisories {
		i.logger.Warnf("  ⚠️  %s", a)
	}

	i.logger.Infof("Step 3: Detecting interpreters...")
	b.Runtimes, err = python.Detect(ctx, b.Runner, b.Runtimes)
	if err != nil {
		return nil, err
	}
	for _, rt := range b.Runtimes {
		i.logger.Infof("  ✓ %s", rt)
	}

	i.logger.Infof("Step 4: Staging source...")
	err = i.stage(ctx, b, func(dir string) error {
		b.SourceDir = dir
		i.logger.Infof("  ✓ Source in %s", dir)

		i.logger.Infof("Step 5: Applying patches...")
		if err := i.applyPatches(ctx, b); err != nil {
			return err
		}

		i.logger.Infof("Step 6: Installing...")
		if err := f.Install(ctx, b); err != nil {
			return err
		}
		i.logger.Infof("  ✓ Install complete")
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec := newReceipt(b)
	report.Receipt = rec
	if req.DryRun {
		i.logger.Infof("Step 7: Skipping receipt (dry run)")
	} else {
		i.logger.Infof("Step 7: Writing receipt...")
		if err := receipt.Write(b.Prefix, rec); err != nil {
			return nil, err
		}
	}

	report.Caveats = f.Caveats(b)
	return report, nil
}

func (i *Installer) stage(ctx context.Context, b *core.Build, fn func(dir string) error) error {
	d := b.Descriptor
	if b.Head {
		if err := b.Stager.StageHead(ctx, d.Name, d.Head, fn); err != nil {
			return fmt.Errorf("staging %s head: %w", d.Name, err)
		}
		return nil
	}
	return b.Stager.StageURL(ctx, d.Name, d.URL, d.Checksum, fn)
}

func (i *Installer) applyPatches(ctx context.Context, b *core.Build) error {
	patches := b.Descriptor.PatchesFor(b.Head)
	if len(patches) == 0 {
		i.logger.Infof("  No patches")
		return nil
	}

	for n, p := range patches {
		file, err := b.Stager.Fetcher.Fetch(ctx, b.Descriptor.Name+"-patch-"+strconv.Itoa(n+1), p.URL, p.Checksum)
		if err != nil {
			return fmt.Errorf("fetching patch %s: %w", p.URL, err)
		}
		if err := b.System(ctx, b.SourceDir, b.Env, "patch", "-p1", "-i", file); err != nil {
			return fmt.Errorf("applying patch %s: %w", p.URL, err)
		}
		i.logger.Infof("  ✓ Applied %s", p.URL)
	}
	return nil
}

func newReceipt(b *core.Build) *receipt.Receipt {
	d := b.Descriptor
	version := d.Version
	if b.Head {
		version = "HEAD"
	}

	r := receipt.New(d.Name, version)
	r.Head = b.Head
	r.Options = b.Options.Enabled()
	for _, dep := range b.Dependencies {
		r.Dependencies = append(r.Dependencies, dep.Name)
	}
	for _, rt := range b.Runtimes {
		r.Runtimes = append(r.Runtimes, rt.Dir())
	}
	r.Source = receipt.Source{URL: d.URL, Checksum: d.Checksum}
	if b.Head {
		r.Source = receipt.Source{URL: d.Head}
	}
	r.AddFiles(b.Records...)
	return r
}

// Doctor runs the requirement probes for a build without installing
func (i *Installer) Doctor(ctx context.Context, f core.Formula, req Request) ([]probe.Report, error) {
	b, _, err := i.Prepare(f, req)
	if err != nil {
		return nil, err
	}
	return i.Check(ctx, f, b), nil
}

// Caveats returns the formula's caveats for a build
func (i *Installer) Caveats(f core.Formula, req Request) (string, error) {
	b, _, err := i.Prepare(f, req)
	if err != nil {
		return "", err
	}
	return f.Caveats(b), nil
}

// Test runs the formula's test hook against each configured runtime
func (i *Installer) Test(ctx context.Context, f core.Formula, req Request) error {
	b, _, err := i.Prepare(f, req)
	if err != nil {
		return err
	}
	b.Runtimes, err = python.Detect(ctx, b.Runner, b.Runtimes)
	if err != nil {
		return err
	}
	i.logger.Infof("Testing %s (this takes a while)", b.Descriptor.Name)
	return f.Test(ctx, b)
}

// Fetch downloads and verifies the source and every resource and patch
// without building. It returns the cached paths in fetch order.
func (i *Installer) Fetch(ctx context.Context, f core.Formula) ([]string, error) {
	d := f.Descriptor()
	if err := descriptor.Validate(d); err != nil {
		return nil, err
	}

	fetcher := i.cfg.Stager.Fetcher
	var paths []string
	get := func(name, url, checksum string) error {
		p, err := fetcher.Fetch(ctx, name, url, checksum)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", name, err)
		}
		i.logger.Infof("  ✓ %s", p)
		paths = append(paths, p)
		return nil
	}

	if err := get(d.Name, d.URL, d.Checksum); err != nil {
		return nil, err
	}
	for _, r := range d.Resources {
		if err := get(r.Name, r.URL, r.Checksum); err != nil {
			return nil, err
		}
	}
	for n, p := range d.Patches {
		if err := get(d.Name+"-patch-"+strconv.Itoa(n+1), p.URL, p.Checksum); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
