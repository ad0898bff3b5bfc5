package patch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const setupext = `import os
basedir_map = {
    'win32': ['win32_static',],
    'darwin': ['/usr/local/', '/usr', '/usr/X11', '/opt/local'],
    'sunos5': [os.getenv('MPLIB_BASE') or '/usr/local',],
}
`

func TestApplyDarwinBasedir(t *testing.T) {
	sub := Substitution{
		Old: "'darwin': ['/usr/local/', '/usr', '/usr/X11', '/opt/local'],",
		New: "'darwin': ['/custom/prefix', '/usr', '/usr/X11', '/opt/local'],",
	}

	out, err := Apply(setupext, sub)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out, "'darwin': ['/custom/prefix', '/usr', '/usr/X11', '/opt/local'],"))
	require.NotContains(t, out, "/usr/local/'")

	inLines := strings.Split(setupext, "\n")
	outLines := strings.Split(out, "\n")
	require.Len(t, outLines, len(inLines))
	for i := range inLines {
		if strings.Contains(inLines[i], "'darwin'") {
			continue
		}
		require.Equal(t, inLines[i], outLines[i])
	}
}

func TestApplyNoMatch(t *testing.T) {
	_, err := Apply(setupext, Substitution{Old: "'/System/Library/Frameworks/',", New: "x"})
	require.True(t, errors.Is(err, ErrNoMatch))
}

func TestApplyMultipleMatches(t *testing.T) {
	_, err := Apply("a a", Substitution{Old: "a", New: "b"})
	require.True(t, errors.Is(err, ErrMultipleMatches))
}

func TestApplyEmptyPattern(t *testing.T) {
	_, err := Apply("abc", Substitution{Old: "", New: "b"})
	require.True(t, errors.Is(err, ErrNoMatch))
}

func TestApplySequential(t *testing.T) {
	out, err := Apply("one two", Substitution{Old: "one", New: "three"}, Substitution{Old: "three two", New: "done"})
	require.NoError(t, err)
	require.Equal(t, "done", out)
}

func TestApplyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setupext.py")
	require.NoError(t, os.WriteFile(path, []byte(setupext), 0o640))

	err := ApplyFile(path, Substitution{
		Old: "'/usr/local/', '/usr'",
		New: "'/opt/ubrew', '/usr'",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "'darwin': ['/opt/ubrew', '/usr', '/usr/X11', '/opt/local'],")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestApplyFileLeavesFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setupext.py")
	require.NoError(t, os.WriteFile(path, []byte(setupext), 0o644))

	err := ApplyFile(path,
		Substitution{Old: "'win32'", New: "'nt'"},
		Substitution{Old: "missing", New: "x"},
	)
	require.True(t, errors.Is(err, ErrNoMatch))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, setupext, string(data))
}
