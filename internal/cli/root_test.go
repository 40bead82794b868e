package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "resym", cmd.Use)
	assert.Contains(t, cmd.Long, "recompilation")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"match", "list", "export"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)
}

func TestMatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	matchCmd, _, err := cmd.Find([]string{"match"})
	require.NoError(t, err)

	configFlag := matchCmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "resym.yml", configFlag.DefValue)

	require.NotNil(t, matchCmd.Flags().Lookup("target"))
	require.NotNil(t, matchCmd.Flags().Lookup("json"))
	require.NotNil(t, matchCmd.Flags().Lookup("sqlite"))
}

func TestListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	require.NotNil(t, listCmd.Flags().Lookup("kind"))
	require.NotNil(t, listCmd.Flags().Lookup("matched"))

	stringsFlag := listCmd.Flags().Lookup("unmatched-strings")
	require.NotNil(t, stringsFlag)
	assert.Equal(t, "false", stringsFlag.DefValue)
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)

	outFlag := exportCmd.Flags().Lookup("out")
	require.NotNil(t, outFlag)
	assert.Equal(t, "", outFlag.DefValue)
}
