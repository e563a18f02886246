//go:build unix

package kernel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, body string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), mode))
	return path
}

func TestNewPlatformCompiler(t *testing.T) {
	toolDir := t.TempDir()
	writeScript(t, toolDir, "mex2ker_linux_64bit", "exit 0\n", 0755)
	writeScript(t, toolDir, "mex2ker_mac_64bit", "exit 0\n", 0644)

	c, err := NewPlatformCompiler(toolDir, "linux")
	require.NoError(t, err)
	assert.Equal(t, "mex2ker_linux_64bit", c.Name())
	assert.True(t, filepath.IsAbs(c.Path()))

	_, err = NewPlatformCompiler(toolDir, "plan9")
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)

	_, err = NewPlatformCompiler(toolDir, "darwin")
	assert.Error(t, err, "non-executable binary must be rejected")

	_, err = NewPlatformCompiler(toolDir, "windows")
	assert.Error(t, err, "missing binary must be rejected")
}

func TestBinaryCompilerRunsInWorkDir(t *testing.T) {
	script := writeScript(t, t.TempDir(), "mex2ker", `
while [ $# -gt 0 ]; do
  if [ "$1" = "-output" ]; then out="$2"; fi
  shift
done
test -f quaternion.moc || exit 9
cat quaternion.moc > "$out"
`, 0755)
	c, err := NewBinaryCompiler(script)
	require.NoError(t, err)

	wd, err := NewWorkDir(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "a b", "kernel.ck")

	conv := NewConverter(c, wd, nil)
	require.NoError(t, conv.Convert(context.Background(), sampleQuats(), juice, out))

	moc, _ := NewExporter().Export(sampleQuats(), juice)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, moc, string(data))
}

func TestBinaryCompilerExitStatus(t *testing.T) {
	script := writeScript(t, t.TempDir(), "mex2ker", "exit 3\n", 0755)
	c, err := NewBinaryCompiler(script)
	require.NoError(t, err)

	code, err := c.Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	wd, err := NewWorkDir(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	err = NewConverter(c, wd, nil).Convert(context.Background(), sampleQuats(), juice, filepath.Join(t.TempDir(), "k.ck"))
	var toolErr *ExternalToolFailure
	require.True(t, errors.As(err, &toolErr))
	assert.Equal(t, 3, toolErr.Code)
	assert.Equal(t, "kernel compiler mex2ker returned error value: 3", toolErr.Error())
}

func TestBinaryCompilerCancelled(t *testing.T) {
	script := writeScript(t, t.TempDir(), "mex2ker", "sleep 30\n", 0755)
	c, err := NewBinaryCompiler(script)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	code, err := c.Run(ctx, t.TempDir())
	assert.Equal(t, -1, code)
	assert.ErrorIs(t, err, context.Canceled)
}
