package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"info", "options", "deps", "doctor", "fetch", "install", "caveats", "test", "list", "update", "version"} {
		require.True(t, names[want], "missing command %s", want)
	}
}

func TestBuildFlags(t *testing.T) {
	var with, without []string
	cmd := &cobra.Command{Use: "x"}
	buildFlags(cmd, &with, &without)

	require.NoError(t, cmd.ParseFlags([]string{"--with", "python3,cairo", "--without=python", "--with", "tex"}))
	require.Equal(t, []string{"python3", "cairo", "tex"}, with)
	require.Equal(t, []string{"python"}, without)
}

func TestNewLogger(t *testing.T) {
	require.NotNil(t, newLogger(false))
	require.NotNil(t, newLogger(true))
}
