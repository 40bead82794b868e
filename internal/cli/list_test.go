package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execList(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"list"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestListCommand(t *testing.T) {
	cfgPath := writeProject(t, "")

	out, err := execList(t, "--config", cfgPath, "--target", "LEGO1")
	require.NoError(t, err)

	assert.Contains(t, out, "_malloc", "unmatched original rows are listed")
	assert.Contains(t, out, "Pizza::Pizza")
	assert.Contains(t, out, "g_pizzaCount")
	assert.Contains(t, out, `"Act2"`, "string values are quoted")
}

func TestListCommandMatchedFunctions(t *testing.T) {
	cfgPath := writeProject(t, "")

	out, err := execList(t, "--config", cfgPath, "--target", "LEGO1", "--matched", "--kind", "function")
	require.NoError(t, err)

	assert.Contains(t, out, "Pizza::Eat")
	assert.NotContains(t, out, "_malloc")
	assert.NotContains(t, out, "g_pizzaCount")
}

func TestListCommandKindFilter(t *testing.T) {
	cfgPath := writeProject(t, "")

	out, err := execList(t, "--config", cfgPath, "--target", "LEGO1", "--kind", "string")
	require.NoError(t, err)

	assert.Contains(t, out, `"Helicopter"`)
	assert.Contains(t, out, `"Act2"`)
	assert.NotContains(t, out, "Pizza::Eat")
}

func TestListCommandUnmatchedStrings(t *testing.T) {
	cfgPath := writeProject(t, "")

	out, err := execList(t, "--config", cfgPath, "--target", "LEGO1", "--unmatched-strings")
	require.NoError(t, err)

	assert.Equal(t, "\"Act2\"\n", out)
}

func TestListCommandBadKind(t *testing.T) {
	cfgPath := writeProject(t, "")

	_, err := execList(t, "--config", cfgPath, "--target", "LEGO1", "--kind", "bogus")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown symbol kind")
}
