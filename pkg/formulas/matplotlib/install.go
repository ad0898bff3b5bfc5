package matplotlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arc-language/ubrew/pkg/buildenv"
	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/patch"
	"github.com/arc-language/ubrew/pkg/probe"
	"github.com/arc-language/ubrew/pkg/python"
	"github.com/arc-language/ubrew/pkg/receipt"
)

const (
	darwinBasedir    = "'darwin': ['/usr/local/', '/usr', '/usr/X11', '/opt/local'],"
	systemFrameworks = "'/System/Library/Frameworks/',"
	recordFile       = "installed.txt"
)

// extra setup.py arguments per resource
var resourceArgs = map[string][]string{
	"python-dateutil": {"--single-version-externally-managed", "--record=" + recordFile},
}

// Install points setupext.py at the install root, then installs the
// helper resources and matplotlib for each configured runtime
func (f *Formula) Install(ctx context.Context, b *core.Build) error {
	setupext := filepath.Join(b.SourceDir, "setupext.py")

	subs := []patch.Substitution{{
		Old: darwinBasedir,
		New: fmt.Sprintf("'darwin': ['%s', '/usr', '/usr/X11', '/opt/local'],", b.Root),
	}}
	if b.Host != nil && b.Host.NeedsSDKFrameworks() {
		subs = append(subs, patch.Substitution{
			Old: systemFrameworks,
			New: fmt.Sprintf("'%s/System/Library/Frameworks',", b.Host.SDKPath),
		})
	}
	if err := patch.ApplyFile(setupext, subs...); err != nil {
		return fmt.Errorf("patching setupext.py: %w", err)
	}

	return python.Each(b.Runtimes, func(rt python.Runtime) error {
		return f.installFor(ctx, b, rt)
	})
}

func (f *Formula) installFor(ctx context.Context, b *core.Build, rt python.Runtime) error {
	env := buildenv.Prepend(b.Env, "PYTHONPATH", rt.SitePackages(b.Prefix))
	prefixArg := "--prefix=" + b.Prefix

	host := probe.NewHostEnvironment(b.Runner)
	host.Env = env

	for _, res := range f.desc.Resources {
		if res.Module != "" && host.ModuleImportable(ctx, rt.Executable, res.Module) {
			b.Logger.Infof("  %s already importable by %s, skipping", res.Module, rt.Executable)
			continue
		}

		args := append([]string{"setup.py", "install", prefixArg}, resourceArgs[res.Name]...)
		err := b.Stager.Stage(ctx, res, func(dir string) error {
			if err := b.System(ctx, dir, env, rt.Executable, args...); err != nil {
				return err
			}
			collectRecord(b, dir)
			return nil
		})
		if err != nil {
			return fmt.Errorf("installing resource %s: %w", res.Name, err)
		}
	}

	err := b.System(ctx, b.SourceDir, env, rt.Executable,
		"setup.py", "install", prefixArg, "--record="+recordFile, "--single-version-externally-managed")
	if err != nil {
		return err
	}
	collectRecord(b, b.SourceDir)
	return nil
}

// collectRecord adds the files listed in dir's record to the build
func collectRecord(b *core.Build, dir string) {
	path := filepath.Join(dir, recordFile)
	if _, err := os.Stat(path); err != nil {
		return
	}
	files, err := receipt.ParseRecord(path)
	if err != nil {
		b.Logger.Warnf("Reading %s: %v", path, err)
		return
	}
	b.Records = append(b.Records, files...)
	// the next runtime writes its own record
	_ = os.Remove(path)
}
