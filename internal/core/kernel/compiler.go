package kernel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// KernelCompiler runs the external MOC-to-CK compiler inside dir and returns
// its exit status. A non-nil error means the process could not be started or
// was aborted; a non-zero status alone is not an error at this level.
type KernelCompiler interface {
	Name() string
	Run(ctx context.Context, dir string, args ...string) (int, error)
}

// binaryNames lists the compiler build shipped for each GOOS.
var binaryNames = map[string]string{
	"windows": "mex2ker_win_32bit.exe",
	"linux":   "mex2ker_linux_64bit",
	"darwin":  "mex2ker_mac_64bit",
}

// BinaryCompiler runs a compiler executable.
type BinaryCompiler struct {
	path string
}

// NewPlatformCompiler resolves the compiler binary for goos inside toolDir.
// It is meant to be called once at startup.
func NewPlatformCompiler(toolDir, goos string) (*BinaryCompiler, error) {
	name, ok := binaryNames[goos]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
	return NewBinaryCompiler(filepath.Join(toolDir, name))
}

// NewBinaryCompiler wraps an explicit compiler path.
func NewBinaryCompiler(path string) (*BinaryCompiler, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve compiler path %s: %w", path, err)
	}
	if err := checkExecutable(abs); err != nil {
		return nil, fmt.Errorf("kernel compiler %s is not usable: %w", abs, err)
	}
	return &BinaryCompiler{path: abs}, nil
}

// Name returns the executable's base name.
func (c *BinaryCompiler) Name() string {
	return filepath.Base(c.path)
}

// Path returns the absolute executable path.
func (c *BinaryCompiler) Path() string {
	return c.path
}

// Run executes the compiler with dir as its working directory. The caller's
// own working directory is never touched.
func (c *BinaryCompiler) Run(ctx context.Context, dir string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	util.LogDebugf("Exec %s %s (dir %s)", c.path, strings.Join(args, " "), dir)
	err := cmd.Run()
	if output.Len() > 0 {
		util.LogDebugf("%s output:\n%s", c.Name(), output.String())
	}

	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
