package receipt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "Cellar", "matplotlib", "1.3.1")

	r := New("matplotlib", "1.3.1")
	r.Options = []string{"python"}
	r.Dependencies = []string{"pkg-config", "freetype", "libpng", "numpy"}
	r.Runtimes = []string{"python2.7"}
	r.Source = Source{URL: "https://example.com/matplotlib-1.3.1.tar.gz", Checksum: "sha1:8578afc86424392591c0ee03f7613ffa9b6f68ee"}
	r.AddFiles("/usr/local/lib/python2.7/site-packages/matplotlib/__init__.py")

	require.NoError(t, Write(prefix, r))

	got, err := Read(prefix)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(t.TempDir())
	require.Error(t, err)
}

func TestList(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Write(filepath.Join(root, "Cellar", "matplotlib", "HEAD"), New("matplotlib", "HEAD")))
	require.NoError(t, Write(filepath.Join(root, "Cellar", "matplotlib", "1.3.1"), New("matplotlib", "1.3.1")))
	require.NoError(t, Write(filepath.Join(root, "Cellar", "freetype", "2.5.0"), New("freetype", "2.5.0")))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Cellar", "broken", "1.0"), 0755))

	receipts, err := List(root)
	require.NoError(t, err)
	require.Len(t, receipts, 3)
	require.Equal(t, "freetype", receipts[0].Name)
	require.Equal(t, "1.3.1", receipts[1].Version)
	require.Equal(t, "HEAD", receipts[2].Version)
}

func TestAddFilesDeduplicates(t *testing.T) {
	r := New("matplotlib", "1.3.1")
	r.AddFiles("a", "b")
	r.AddFiles("b", "c")
	require.Equal(t, []string{"a", "b", "c"}, r.Files)
}

func TestParseRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installed.txt")
	require.NoError(t, os.WriteFile(path, []byte("/p/lib/a.py\n\n  /p/lib/b.py  \n"), 0644))

	files, err := ParseRecord(path)
	require.NoError(t, err)
	require.Equal(t, []string{"/p/lib/a.py", "/p/lib/b.py"}, files)
}
