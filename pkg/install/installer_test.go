package install

import (
	"archive/tar"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arc-language/ubrew/pkg/core"
	"github.com/arc-language/ubrew/pkg/descriptor"
	"github.com/arc-language/ubrew/pkg/fetch"
	"github.com/arc-language/ubrew/pkg/probe"
	"github.com/arc-language/ubrew/pkg/receipt"
	"github.com/arc-language/ubrew/pkg/shell/shelltest"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const versionQuery = "python -c import sys; print('%d.%d' % sys.version_info[:2])"

type fakeFormula struct {
	desc       *descriptor.Descriptor
	probes     []probe.Probe
	installErr error
	build      *core.Build
}

func (f *fakeFormula) Descriptor() *descriptor.Descriptor { return f.desc }

func (f *fakeFormula) Probes(b *core.Build) []probe.Probe { return f.probes }

func (f *fakeFormula) Install(ctx context.Context, b *core.Build) error {
	f.build = b
	if err := b.System(ctx, b.SourceDir, b.Env, "make", "install"); err != nil {
		return err
	}
	b.Records = append(b.Records, filepath.Join(b.Prefix, "bin", "hello"))
	return f.installErr
}

func (f *fakeFormula) Caveats(b *core.Build) string { return "caveat for " + b.Descriptor.Name }

func (f *fakeFormula) Test(ctx context.Context, b *core.Build) error {
	return b.System(ctx, "", b.Env, "hello", "--version")
}

func tarball(t *testing.T) (string, string) {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	body := []byte("all:\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "hello-1.0/Makefile", Mode: 0644, Size: int64(len(body)), Typeflag: tar.TypeReg}))
	_, err := tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())

	path := filepath.Join(t.TempDir(), "hello-1.0.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	sum := sha256.Sum256(buf.Bytes())
	return path, "sha256:" + hex.EncodeToString(sum[:])
}

func newFormula(t *testing.T) *fakeFormula {
	t.Helper()
	src, checksum := tarball(t)
	diff := filepath.Join(t.TempDir(), "fix.diff")
	require.NoError(t, os.WriteFile(diff, []byte("--- a/Makefile\n+++ b/Makefile\n"), 0644))

	return &fakeFormula{desc: &descriptor.Descriptor{
		Name:     "hello",
		Version:  "1.0",
		URL:      "file://" + src,
		Checksum: checksum,
		Dependencies: []descriptor.Dependency{
			{Name: "pkg-config", Build: true},
			{Name: "python", Activation: descriptor.Recommended, Requirement: true},
			{Name: "zlib"},
		},
		Patches: []descriptor.Patch{{URL: "file://" + diff}},
	}}
}

func newInstaller(t *testing.T, rec *shelltest.Recorder) (*Installer, string) {
	t.Helper()
	root := t.TempDir()
	stager := fetch.NewStager(fetch.NewFetcher(t.TempDir()), t.TempDir(), nil)
	return New(Config{
		Root:   root,
		Runner: rec,
		Stager: stager,
		Env:    []string{"PATH=/usr/bin:/bin"},
	}), root
}

func TestInstall(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	f := newFormula(t)
	inst, root := newInstaller(t, rec)

	report, err := inst.Install(context.Background(), f, Request{})
	require.NoError(t, err)

	prefix := filepath.Join(root, "Cellar", "hello", "1.0")
	require.Equal(t, prefix, report.Prefix)
	require.Equal(t, "caveat for hello", report.Caveats)
	require.Len(t, report.Dependencies, 3)
	require.Empty(t, report.Advisories)
	require.Len(t, report.Warnings, 2, "pkg-config and zlib have no prefix")

	diff := f.desc.Patches[0].URL[len("file://"):]
	require.Equal(t, []string{"patch -p1 -i " + diff, "make install"}, rec.Lines())
	require.Equal(t, "hello-1.0", filepath.Base(rec.Commands[0].Dir))
	require.Equal(t, rec.Commands[0].Dir, rec.Commands[1].Dir)

	got, err := receipt.Read(prefix)
	require.NoError(t, err)
	require.Equal(t, "hello", got.Name)
	require.Equal(t, "1.0", got.Version)
	require.Equal(t, []string{"python"}, got.Options)
	require.Equal(t, []string{"pkg-config", "python", "zlib"}, got.Dependencies)
	require.Equal(t, []string{"python2.7"}, got.Runtimes)
	require.Equal(t, []string{filepath.Join(prefix, "bin", "hello")}, got.Files)
	require.Equal(t, f.desc.Checksum, got.Source.Checksum)
}

func TestInstallUsesDependencyPrefixes(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	f := newFormula(t)

	zlib := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(zlib, "include"), 0755))

	inst, _ := newInstaller(t, rec)
	inst.cfg.DependencyPrefix = (&core.Config{Dependencies: map[string]string{"zlib": zlib}}).DependencyPrefix
	inst.cfg.Installed = func(name string) bool { return name == "pkg-config" }

	report, err := inst.Install(context.Background(), f, Request{})
	require.NoError(t, err)
	require.Empty(t, report.Warnings)
	require.Contains(t, f.build.Env, "CPATH="+filepath.Join(zlib, "include"))
}

func TestInstallReportsAdvisoriesWithoutFailing(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	f := newFormula(t)
	f.probes = []probe.Probe{
		probe.Func{ProbeName: "ok", Fn: func(context.Context, probe.Environment) probe.Result { return probe.Result{OK: true} }},
		probe.Func{ProbeName: "tex", Fn: func(context.Context, probe.Environment) probe.Result {
			return probe.Result{Advisory: "LaTeX not found."}
		}},
	}
	inst, _ := newInstaller(t, rec)

	report, err := inst.Install(context.Background(), f, Request{})
	require.NoError(t, err)
	require.Len(t, report.Advisories, 1)
	require.Equal(t, "tex", report.Advisories[0].Name)
	require.Contains(t, rec.Lines(), "make install")
}

func TestInstallDryRun(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	f := newFormula(t)
	inst, root := newInstaller(t, rec)
	var out bytes.Buffer
	inst.cfg.DryRunOut = &out

	report, err := inst.Install(context.Background(), f, Request{DryRun: true})
	require.NoError(t, err)
	require.Empty(t, rec.Commands, "dry run executes nothing")
	require.Contains(t, out.String(), "==> (cd ")
	require.Contains(t, out.String(), "make install")
	require.NotNil(t, report.Receipt)

	_, statErr := os.Stat(filepath.Join(root, "Cellar", "hello", "1.0", receipt.FileName))
	require.True(t, os.IsNotExist(statErr))
}

func TestInstallFailure(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	rec.Fail["make install"] = 2
	f := newFormula(t)
	inst, root := newInstaller(t, rec)

	_, err := inst.Install(context.Background(), f, Request{})
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(root, "Cellar", "hello", "1.0", receipt.FileName))
	require.True(t, os.IsNotExist(statErr))
}

func TestInstallMissingInterpreter(t *testing.T) {
	f := newFormula(t)
	inst, _ := newInstaller(t, shelltest.New())

	_, err := inst.Install(context.Background(), f, Request{})
	require.Error(t, err)
	require.Nil(t, f.build, "install routine must not run")
}

func TestPrepareErrors(t *testing.T) {
	inst, _ := newInstaller(t, shelltest.New())

	_, _, err := inst.Prepare(newFormula(t), Request{Head: true})
	require.True(t, errors.Is(err, ErrNoHead))

	_, _, err = inst.Prepare(newFormula(t), Request{With: []string{"cairo"}})
	require.True(t, errors.Is(err, descriptor.ErrUnknownOption))

	bad := newFormula(t)
	bad.desc.Checksum = ""
	_, _, err = inst.Prepare(bad, Request{})
	require.True(t, errors.Is(err, descriptor.ErrInvalid))
}

func TestPrepareWithoutRecommended(t *testing.T) {
	inst, _ := newInstaller(t, shelltest.New())

	b, _, err := inst.Prepare(newFormula(t), Request{Without: []string{"python"}})
	require.NoError(t, err)
	require.Empty(t, b.Runtimes)
	require.Len(t, b.Dependencies, 2)
}

func TestKegPrefix(t *testing.T) {
	d := &descriptor.Descriptor{Name: "matplotlib", Version: "1.3.1"}
	require.Equal(t, filepath.Join("/usr/local", "Cellar", "matplotlib", "1.3.1"), KegPrefix("/usr/local", d, false))
	require.Equal(t, filepath.Join("/usr/local", "Cellar", "matplotlib", "HEAD"), KegPrefix("/usr/local", d, true))
}

func TestTestHook(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	inst, _ := newInstaller(t, rec)

	require.NoError(t, inst.Test(context.Background(), newFormula(t), Request{}))
	require.Equal(t, []string{"hello --version"}, rec.Lines())
}

func TestDoctorAndCaveats(t *testing.T) {
	f := newFormula(t)
	f.probes = []probe.Probe{probe.Func{ProbeName: "tex", Fn: func(context.Context, probe.Environment) probe.Result {
		return probe.Result{Advisory: "LaTeX not found."}
	}}}
	inst, _ := newInstaller(t, shelltest.New())

	reports, err := inst.Doctor(context.Background(), f, Request{})
	require.NoError(t, err)
	require.Len(t, probe.Failed(reports), 1)

	caveats, err := inst.Caveats(f, Request{})
	require.NoError(t, err)
	require.Equal(t, "caveat for hello", caveats)
}

func TestFetch(t *testing.T) {
	f := newFormula(t)
	inst, _ := newInstaller(t, shelltest.New())

	paths, err := inst.Fetch(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.Equal(t, f.desc.URL[len("file://"):], paths[0])
}

// headRepo creates a local git repository with one commit and returns its
// file:// URL
func headRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Makefile"), []byte("all:\n"), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("Makefile")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "ubrew", Email: "ubrew@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return "file://" + dir
}

func TestInstallHead(t *testing.T) {
	rec := shelltest.New()
	rec.Outputs[versionQuery] = "2.7"
	f := newFormula(t)
	f.desc.Head = headRepo(t)
	inst, root := newInstaller(t, rec)

	report, err := inst.Install(context.Background(), f, Request{Head: true})
	require.NoError(t, err)

	prefix := filepath.Join(root, "Cellar", "hello", "HEAD")
	require.Equal(t, prefix, report.Prefix)
	require.Equal(t, []string{"make install"}, rec.Lines(), "patches apply to stable builds only")
	require.True(t, strings.HasPrefix(filepath.Base(rec.Commands[0].Dir), "hello-head-"))

	got, err := receipt.Read(prefix)
	require.NoError(t, err)
	require.Equal(t, "HEAD", got.Version)
	require.True(t, got.Head)
	require.Equal(t, f.desc.Head, got.Source.URL)
	require.Empty(t, got.Source.Checksum)

	_, statErr := os.Stat(f.build.SourceDir)
	require.True(t, os.IsNotExist(statErr), "checkout should be removed after the build")
}
