package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNewThenRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "success.yaml")

	_, err := execute(t, "new", path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "new", path)
	assert.Error(t, err, "refuses to overwrite")

	out, err := execute(t, "run", "-v", path)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS "+path)
	assert.Contains(t, out, "payout")
}

func TestRunFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: broken\nsteps:\n  - action: fund\n    caller: \"0x00000000000000000000000000000000000000a1\"\n    amount: \"10\"\n"), 0o644))

	out, err := execute(t, "run", path)
	assert.Error(t, err)
	assert.Contains(t, out, "FAIL "+path)
}
