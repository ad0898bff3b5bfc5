package descriptor

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestLoadFormatsAgree(t *testing.T) {
	want, err := Load(filepath.Join("testdata", "matplotlib.yaml"))
	require.NoError(t, err)

	for _, name := range []string{"matplotlib.toml", "matplotlib.hcl"} {
		got, err := Load(filepath.Join("testdata", name))
		require.NoError(t, err, name)

		if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("%s mismatch (-yaml +%s):\n%s", name, name, diff)
		}
	}
}

func TestLoadFixture(t *testing.T) {
	d, err := Load(filepath.Join("testdata", "matplotlib.yaml"))
	require.NoError(t, err)

	require.Equal(t, "matplotlib", d.Name)
	require.Equal(t, "1.3.1", d.Version)
	require.Equal(t, "https://github.com/matplotlib/matplotlib.git", d.Head)
	require.Len(t, d.Dependencies, 18)
	require.Equal(t, Recommended, d.Dependencies[1].Activation)
	require.True(t, d.Dependencies[0].Build)

	r, ok := d.Resource("python-dateutil")
	require.True(t, ok)
	require.Equal(t, "dateutil", r.Module)

	_, ok = d.Resource("six")
	require.False(t, ok)

	require.Len(t, d.PatchesFor(false), 1)
	require.Empty(t, d.PatchesFor(true))
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), Format("json"))
	require.Error(t, err)

	_, err = FormatFromPath("matplotlib.rb")
	require.Error(t, err)
}

func TestParseHCLRequiresSinglePackage(t *testing.T) {
	src := `
package "a" { url = "https://example.com/a-1.0.tar.gz" }
package "b" { url = "https://example.com/b-1.0.tar.gz" }
`
	_, err := Parse([]byte(src), FormatHCL)
	require.Error(t, err)
}

func TestParseHCLBadActivation(t *testing.T) {
	src := `
package "a" {
  url = "https://example.com/a-1.0.tar.gz"
  depends_on "b" { activation = "sometimes" }
}
`
	_, err := Parse([]byte(src), FormatHCL)
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	want, err := Load(filepath.Join("testdata", "matplotlib.yaml"))
	require.NoError(t, err)

	data, err := Marshal(want)
	require.NoError(t, err)
	require.Contains(t, string(data), "activation: recommended")

	got, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, got, cmpopts.EquateEmpty()))
}

func TestGuessVersion(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://example.com/matplotlib-1.3.1.tar.gz", "1.3.1"},
		{"https://example.com/pyparsing-2.0.1.tar.gz", "2.0.1"},
		{"https://example.com/python-dateutil-2.2.tar.gz", "2.2"},
		{"https://example.com/foo-v10.4.tar.xz", "10.4"},
		{"https://example.com/bar-1.2.3rc1.zip", "1.2.3rc1"},
		{"https://github.com/matplotlib/matplotlib.git", ""},
		{"https://example.com/pull/2623.diff", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, GuessVersion(c.url), c.url)
	}
}
