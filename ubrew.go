// ubrew.go
package ubrew

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/fetch"
	"github.com/arc-language/ubrew/pkg/formulas/matplotlib"
	"github.com/arc-language/ubrew/pkg/index"
	"github.com/arc-language/ubrew/pkg/install"
	"github.com/arc-language/ubrew/pkg/platform"
	"github.com/arc-language/ubrew/pkg/probe"
	"github.com/arc-language/ubrew/pkg/receipt"
	"github.com/arc-language/ubrew/pkg/registry"
	"github.com/arc-language/ubrew/pkg/shell"
	"go.uber.org/zap"
)

// Re-export types for convenience
type (
	Config     = core.Config
	Formula    = core.Formula
	Descriptor = descriptor.Descriptor
	Dependency = descriptor.Dependency
	Option     = descriptor.Option
	Request    = install.Request
	Report     = install.Report
	Receipt    = receipt.Receipt
	Host       = platform.Host
	// RegistryEntry is the host package naming for a dependency
	RegistryEntry = registry.Entry
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Manager builds formulae into an install root
type Manager struct {
	config    *core.Config
	host      *platform.Host
	formulas  *registry.Formulas
	deps      *registry.Registry
	installer *install.Installer
	fetcher   *fetch.Fetcher
	logger    *zap.SugaredLogger
}

// Options tunes a Manager beyond what Config holds
type Options struct {
	Logger *zap.SugaredLogger
	Runner shell.Runner   // defaults to an exec runner
	Host   *platform.Host // detected when nil
	Extra  []core.Formula // additional formulae
}

// NewManager creates a Manager with the built-in formulae
func NewManager(ctx context.Context, config *Config, opts *Options) (*Manager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if opts == nil {
		opts = &Options{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// Ensure CachePath is set
	if config.CachePath == "" {
		config.CachePath = core.DefaultConfig().CachePath
	}

	runner := opts.Runner
	if runner == nil {
		runner = shell.NewExecRunner(logger)
	}

	host := opts.Host
	if host == nil {
		h, err := platform.NewDetector(runner).Detect(ctx)
		if err != nil {
			return nil, wrap("detect platform", "", fmt.Errorf("%w: %v", ErrPlatformNotSupported, err))
		}
		host = h
	}
	logger.Debugf("Host: %s", host)

	fetchOpts := []fetch.Option{fetch.WithLogger(logger)}
	if config.Progress {
		fetchOpts = append(fetchOpts, fetch.WithProgress(os.Stderr))
	}
	fetcher := fetch.NewFetcher(config.CachePath, fetchOpts...)

	stager := fetch.NewStager(fetcher, "", logger)
	if config.Progress {
		stager.Progress = os.Stderr
	}

	m := &Manager{
		config:   config,
		host:     host,
		formulas: registry.NewFormulas(append([]core.Formula{matplotlib.New()}, opts.Extra...)...),
		deps:     registry.New(config.CachePath),
		fetcher:  fetcher,
		logger:   logger,
	}

	m.installer = install.New(install.Config{
		Root:             config.Prefix,
		Runner:           runner,
		Stager:           stager,
		Host:             host,
		Interpreters:     config.Interpreters,
		Installed:        m.isInstalled,
		DependencyPrefix: config.DependencyPrefix,
		Libraries:        m.libraries,
		Logger:           logger,
	})

	return m, nil
}

// isInstalled reports whether a formula is listed in the config or has a
// keg with a receipt under the install root
func (m *Manager) isInstalled(name string) bool {
	if m.config.IsInstalled(name) {
		return true
	}
	kegs, _ := filepath.Glob(filepath.Join(m.config.Prefix, "Cellar", name, "*", receipt.FileName))
	return len(kegs) > 0
}

// libraries returns the library names the dependency index lists for a
// dependency
func (m *Manager) libraries(name string) []string {
	entry, err := m.GetRegistryEntry(name)
	if err != nil {
		return nil
	}
	return entry.Libs
}

// Formula looks up a formula by name. A path to a YAML, TOML or HCL
// descriptor file loads a descriptor-only formula instead.
func (m *Manager) Formula(name string) (core.Formula, error) {
	if isDescriptorFile(name) {
		f, err := core.LoadDescriptorFormula(name)
		if err != nil {
			return nil, wrap("load", name, err)
		}
		m.logger.Debugf("Loaded descriptor %s from %s", f.Descriptor().Name, name)
		return f, nil
	}

	f, err := m.formulas.Get(name)
	if err != nil {
		return nil, wrap("lookup", name, err)
	}
	return f, nil
}

func isDescriptorFile(name string) bool {
	if _, err := descriptor.FormatFromPath(name); err != nil {
		return false
	}
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

// buildable returns the formula for name unless it is descriptor-only
func (m *Manager) buildable(op, name string) (core.Formula, error) {
	f, err := m.Formula(name)
	if err != nil {
		return nil, err
	}
	if _, ok := f.(*core.DescriptorFormula); ok {
		return nil, wrap(op, name, ErrNoInstallRoutine)
	}
	return f, nil
}

// Formulae returns the names of every available formula
func (m *Manager) Formulae() []string {
	return m.formulas.Available()
}

// Info returns a formula's descriptor
func (m *Manager) Info(name string) (*Descriptor, error) {
	f, err := m.Formula(name)
	if err != nil {
		return nil, err
	}
	return f.Descriptor(), nil
}

// Options returns the build options a formula accepts
func (m *Manager) Options(name string) ([]Option, error) {
	d, err := m.Info(name)
	if err != nil {
		return nil, err
	}
	return d.AvailableOptions(), nil
}

// Dependencies resolves a formula's dependencies for the given switches
func (m *Manager) Dependencies(name string, with, without []string) ([]Dependency, error) {
	d, err := m.Info(name)
	if err != nil {
		return nil, err
	}
	opts, err := d.ResolveOptions(with, without)
	if err != nil {
		return nil, wrap("resolve", name, err)
	}
	return descriptor.Resolve(d, opts), nil
}

// BackendName maps a dependency to a host package manager's name for it.
// An empty backend means the host's preferred package manager.
func (m *Manager) BackendName(dep, backend string) (string, error) {
	if backend == "" {
		backend = m.host.Preferred
	}
	if backend == "" {
		return "", wrap("resolve", dep, fmt.Errorf("no package manager detected; pass a backend"))
	}
	name, err := m.deps.Resolve(dep, backend)
	if err != nil {
		return "", wrap("resolve", dep, err)
	}
	m.logger.Debugf("Resolved '%s' -> '%s' (%s)", dep, name, backend)
	return name, nil
}

// GetRegistryEntry retrieves the dependency index entry for a name
func (m *Manager) GetRegistryEntry(name string) (*RegistryEntry, error) {
	return m.deps.Load(name)
}

// Doctor runs a formula's requirement probes
func (m *Manager) Doctor(ctx context.Context, name string, req Request) ([]probe.Report, error) {
	f, err := m.Formula(name)
	if err != nil {
		return nil, err
	}
	reports, err := m.installer.Doctor(ctx, f, req)
	return reports, wrap("doctor", name, err)
}

// Fetch downloads and verifies a formula's source, resources and patches
func (m *Manager) Fetch(ctx context.Context, name string) ([]string, error) {
	f, err := m.Formula(name)
	if err != nil {
		return nil, err
	}
	paths, err := m.installer.Fetch(ctx, f)
	return paths, wrap("fetch", name, err)
}

// Install builds and installs a formula
func (m *Manager) Install(ctx context.Context, name string, req Request) (*Report, error) {
	f, err := m.buildable("install", name)
	if err != nil {
		return nil, err
	}
	report, err := m.installer.Install(ctx, f, req)
	if err != nil {
		return nil, wrap("install", name, err)
	}
	return report, nil
}

// Caveats returns a formula's post-install advice
func (m *Manager) Caveats(name string, req Request) (string, error) {
	f, err := m.Formula(name)
	if err != nil {
		return "", err
	}
	s, err := m.installer.Caveats(f, req)
	return s, wrap("caveats", name, err)
}

// Test runs a formula's test hook
func (m *Manager) Test(ctx context.Context, name string, req Request) error {
	f, err := m.buildable("test", name)
	if err != nil {
		return err
	}
	return wrap("test", name, m.installer.Test(ctx, f, req))
}

// List returns the receipts of installed kegs
func (m *Manager) List() ([]*Receipt, error) {
	receipts, err := receipt.List(m.config.Prefix)
	return receipts, wrap("list", "", err)
}

// Update refreshes the dependency index from a git repository. Empty
// arguments select the default repository and its index directory.
func (m *Manager) Update(ctx context.Context, repoURL, indexDir string) error {
	opts := index.Options{RepoURL: repoURL, IndexDir: indexDir, Logger: m.logger}
	if m.config.Progress {
		opts.Progress = os.Stderr
	}
	if err := index.Sync(ctx, m.config.CachePath, opts); err != nil {
		return wrap("update", "", err)
	}
	m.deps = registry.New(m.config.CachePath)
	return nil
}

// Host returns the detected host
func (m *Manager) Host() *Host {
	return m.host
}

// Config returns the active configuration
func (m *Manager) Config() *Config {
	return m.config
}
