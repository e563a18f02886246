package commands

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/kernel"
	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// newKernelConverter builds a converter from the loaded configuration. The
// returned cleanup removes an isolated work dir.
func newKernelConverter() (*kernel.Converter, func(), error) {
	var (
		compiler *kernel.BinaryCompiler
		err      error
	)
	if cfg.CompilerPath != "" {
		compiler, err = kernel.NewBinaryCompiler(cfg.CompilerPath)
	} else {
		compiler, err = kernel.NewPlatformCompiler(cfg.ToolDir, runtime.GOOS)
	}
	if err != nil {
		return nil, nil, err
	}

	var workDir *kernel.WorkDir
	cleanup := func() {}
	if cfg.IsolatedWorkDir {
		workDir, err = kernel.NewTempWorkDir(cfg.WorkDir)
		if err == nil {
			cleanup = func() {
				if err := workDir.Remove(); err != nil {
					util.LogWarnf("Failed to remove work dir %s: %v", workDir.Path(), err)
				}
			}
		}
	} else {
		workDir, err = kernel.NewWorkDir(cfg.WorkDir)
	}
	if err != nil {
		return nil, nil, err
	}

	exporter := &kernel.Exporter{BlockSize: cfg.BlockSize, CreationDate: cfg.CreationDate}
	util.LogDebug("Kernel compiler ready",
		util.F("compiler", compiler.Path()), util.F("workdir", workDir.Path()), util.F("blockSize", cfg.BlockSize))
	return kernel.NewConverter(compiler, workDir, exporter), cleanup, nil
}

// exportOnly writes the MOC and setup texts next to outputPath without
// running the compiler.
func exportOnly(quats []model.TimedQuaternion, id model.KernelIdentity, outputPath string) ([]string, error) {
	if err := id.Validate(); err != nil {
		return nil, &kernel.ConversionError{Stage: "identity", Err: err}
	}
	if len(quats) == 0 {
		return nil, &kernel.ConversionError{Stage: "export", Err: kernel.ErrNoQuaternions}
	}

	exporter := &kernel.Exporter{BlockSize: cfg.BlockSize, CreationDate: cfg.CreationDate}
	moc, setup := exporter.Export(quats, id)

	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	if err := util.EnsureDir(filepath.Dir(base)); err != nil {
		return nil, &kernel.ConversionError{Stage: "stage", Path: base, Err: err}
	}
	written := []string{base + ".moc", base + ".setup"}
	for i, text := range []string{moc, setup} {
		if err := os.WriteFile(written[i], []byte(text), 0644); err != nil {
			return nil, &kernel.ConversionError{Stage: "stage", Path: written[i], Err: err}
		}
	}
	util.LogInfof("Wrote compiler inputs %s and %s", written[0], written[1])
	return written, nil
}

// commandContext bounds a compiler run by timeout; zero means no limit.
func commandContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// defaultOutput names the kernel after input inside the configured output dir.
func defaultOutput(input string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".ck"
	return filepath.Join(cfg.OutputDir, name)
}
