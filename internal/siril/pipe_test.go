package siril

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.ssf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScriptCommands_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeScript(t, `############################################
# Calibrate a single night of light frames #
############################################
requires 1.2.0

cd lights
convert light -out=../process
cd ../process

calibrate light -dark=../masters/dark_stacked -flat=../masters/pp_flat_stacked -cfa -equalize_cfa

`)

	commands, err := scriptCommands(path)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"requires 1.2.0",
		"cd lights",
		"convert light -out=../process",
		"cd ../process",
		"calibrate light -dark=../masters/dark_stacked -flat=../masters/pp_flat_stacked -cfa -equalize_cfa",
	}, commands)
}

func TestScriptCommands_TrimsWhitespace(t *testing.T) {
	path := writeScript(t, "  stack pp_light rej 3 3 -norm=addscale\t\n")

	commands, err := scriptCommands(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"stack pp_light rej 3 3 -norm=addscale"}, commands)
}

func TestScriptCommands_MissingFile(t *testing.T) {
	_, err := scriptCommands(filepath.Join(t.TempDir(), "absent.ssf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read script")
}

func TestNewPipeClient_Defaults(t *testing.T) {
	c := NewPipeClient("")
	assert.Equal(t, "siril", c.binary)
	assert.Equal(t, []string{"-p"}, c.args)
}

func TestNewPipeClient_Options(t *testing.T) {
	c := NewPipeClient("/opt/siril/bin/siril", WithArgs("-d", "/tmp"))
	assert.Equal(t, "/opt/siril/bin/siril", c.binary)
	assert.Equal(t, []string{"-p", "-d", "/tmp"}, c.args)
}

func TestPipeClient_SendBeforeOpenFails(t *testing.T) {
	c := NewPipeClient("siril")
	err := c.ChangeDirectory(context.Background(), "/data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session not open")
}

func TestPipeClient_CloseWithoutOpenIsNoop(t *testing.T) {
	c := NewPipeClient("siril")
	assert.NoError(t, c.Close())
}
