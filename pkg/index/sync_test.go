package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arc-language/ubrew/pkg/registry"
	"github.com/stretchr/testify/require"
)

func writeEntry(t *testing.T, root, name, body string) {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(IndexDir), name)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.toml"), []byte(body), 0644))
}

func TestInstallReplacesDeps(t *testing.T) {
	cache := t.TempDir()
	stale := filepath.Join(cache, "deps", "stale")
	require.NoError(t, os.MkdirAll(stale, 0755))

	checkout := t.TempDir()
	writeEntry(t, checkout, "wxwidgets", "name = \"wxwidgets\"\n\n[backends]\napt = \"libwxgtk3.0-dev\"\n")

	n, err := Install(checkout, IndexDir, cache)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoDirExists(t, filepath.Join(cache, "deps", "stale"))
	require.NoDirExists(t, filepath.Join(cache, "deps.new"))

	name, err := registry.New(cache).Resolve("wxwidgets", "apt")
	require.NoError(t, err)
	require.Equal(t, "libwxgtk3.0-dev", name)
}

func TestInstallWithoutDeps(t *testing.T) {
	_, err := Install(t.TempDir(), IndexDir, t.TempDir())
	require.Error(t, err)
}

func TestInstallFromRepositoryLayout(t *testing.T) {
	cache := t.TempDir()
	n, err := Install(filepath.Join("..", ".."), IndexDir, cache)
	require.NoError(t, err)
	require.Greater(t, n, 10)

	name, err := registry.New(cache).Resolve("freetype", "apt")
	require.NoError(t, err)
	require.Equal(t, "libfreetype6-dev", name)
}

func TestInstallCustomIndexDir(t *testing.T) {
	checkout := t.TempDir()
	dir := filepath.Join(checkout, "index", "wxwidgets")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.toml"), []byte("name = \"wxwidgets\"\n"), 0644))

	n, err := Install(checkout, "index", t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
