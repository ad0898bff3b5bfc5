package buildenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0755))
	}
}

func TestSearchOrder(t *testing.T) {
	root := t.TempDir()
	dep := t.TempDir()
	mkdirs(t, root, "bin", "lib", "include")
	mkdirs(t, dep, "bin", "lib/pkgconfig", "include")

	env := New(root, dep)

	require.Equal(t, []string{filepath.Join(dep, "bin"), filepath.Join(root, "bin")}, env.BinaryPaths())
	require.Equal(t, []string{filepath.Join(dep, "lib", "pkgconfig")}, env.PkgConfigPaths())

	flags := env.CompilerFlags()
	require.Equal(t, "-I"+filepath.Join(dep, "include")+" -I"+filepath.Join(root, "include"), flags.CFlags())
	require.Equal(t, "-L"+filepath.Join(dep, "lib")+" -L"+filepath.Join(root, "lib"), flags.LDFlags())
}

func TestEnviron(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "bin", "lib", "include")

	sep := string(os.PathListSeparator)
	env := New(root).Environ([]string{"PATH=/usr/bin" + sep + "/bin", "HOME=/home/me"})

	path, ok := Lookup(env, "PATH")
	require.True(t, ok)
	require.Equal(t, filepath.Join(root, "bin")+sep+"/usr/bin"+sep+"/bin", path)

	cpath, _ := Lookup(env, "CPATH")
	require.Equal(t, filepath.Join(root, "include"), cpath)

	_, ok = Lookup(env, "PKG_CONFIG_PATH")
	require.False(t, ok, "no pkg-config dirs exist")

	home, _ := Lookup(env, "HOME")
	require.Equal(t, "/home/me", home)

	cflags, _ := Lookup(env, "CFLAGS")
	require.Equal(t, "-I"+filepath.Join(root, "include"), cflags)
	ldflags, _ := Lookup(env, "LDFLAGS")
	require.Equal(t, "-L"+filepath.Join(root, "lib"), ldflags)
}

func TestEnvironKeepsExistingFlags(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "include")

	env := New(root).Environ([]string{"CFLAGS=-O2", "LDFLAGS=-s"})

	cflags, _ := Lookup(env, "CFLAGS")
	require.Equal(t, "-I"+filepath.Join(root, "include")+" -O2", cflags)
	ldflags, _ := Lookup(env, "LDFLAGS")
	require.Equal(t, "-s", ldflags, "no lib dir exists")
}

func TestPrependDoesNotMutate(t *testing.T) {
	base := []string{"PYTHONPATH=/a"}
	got := Prepend(base, "PYTHONPATH", "/b")

	require.Equal(t, []string{"PYTHONPATH=/a"}, base)
	v, _ := Lookup(got, "PYTHONPATH")
	require.True(t, strings.HasPrefix(v, "/b"))
	require.True(t, strings.HasSuffix(v, "/a"))
}

func TestFindLibrary(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "lib")
	ext := LibraryExtensions()[0]
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "libpng16"+ext), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "lib", "libfreetype.a"), nil, 0644))

	env := New(root)

	png := env.FindLibrary("png")
	require.NotNil(t, png)
	require.Equal(t, ext, png.Type)
	require.False(t, png.IsStatic)

	ft := env.FindLibrary("freetype")
	require.NotNil(t, ft)
	require.True(t, ft.IsStatic)

	require.False(t, env.HasLibrary("cairo"))
}
