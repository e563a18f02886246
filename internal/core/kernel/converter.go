package kernel

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

const (
	MOCFileName   = "quaternion.moc"
	SetupFileName = "quaternion.setup"

	// tempOutputName is used when the requested output path contains a space,
	// which the compiler cannot parse.
	tempOutputName = "temp_ck_file.ck"
)

// Converter stages compiler inputs in a WorkDir, runs the compiler and places
// the resulting CK kernel at the requested path.
type Converter struct {
	compiler KernelCompiler
	workDir  *WorkDir
	exporter *Exporter
}

// NewConverter wires a converter. A nil exporter uses NewExporter().
func NewConverter(compiler KernelCompiler, workDir *WorkDir, exporter *Exporter) *Converter {
	if exporter == nil {
		exporter = NewExporter()
	}
	return &Converter{
		compiler: compiler,
		workDir:  workDir,
		exporter: exporter,
	}
}

// Convert compiles quats into a CK kernel at outputPath. Conversions sharing a
// work dir run one at a time. Cancelling ctx kills the compiler.
func (c *Converter) Convert(ctx context.Context, quats []model.TimedQuaternion, id model.KernelIdentity, outputPath string) error {
	if err := id.Validate(); err != nil {
		return &ConversionError{Stage: "identity", Err: err}
	}
	if len(quats) == 0 {
		return &ConversionError{Stage: "export", Err: ErrNoQuaternions}
	}

	finalPath, err := filepath.Abs(outputPath)
	if err != nil {
		return &ConversionError{Stage: "stage", Path: outputPath, Err: err}
	}
	if err := util.EnsureDir(filepath.Dir(finalPath)); err != nil {
		return &ConversionError{Stage: "stage", Path: finalPath, Err: err}
	}

	release := c.workDir.Acquire()
	defer release()

	start := time.Now()
	util.LogInfo("Staging kernel compiler inputs",
		util.F("object", id.Label), util.F("quaternions", len(quats)),
		util.F("blocks", c.exporter.Blocks(len(quats))), util.F("workdir", c.workDir.Path()))

	mocPath := c.workDir.Join(MOCFileName)
	if err := writeStaged(mocPath, func(w io.Writer) error {
		return c.exporter.WriteMOC(w, quats, id)
	}); err != nil {
		return &ConversionError{Stage: "stage", Path: mocPath, Err: err}
	}
	setupPath := c.workDir.Join(SetupFileName)
	if err := writeStaged(setupPath, func(w io.Writer) error {
		return c.exporter.WriteSetup(w, id)
	}); err != nil {
		return &ConversionError{Stage: "stage", Path: setupPath, Err: err}
	}

	toolOutput := finalPath
	sanitized := strings.Contains(finalPath, " ")
	if sanitized {
		toolOutput = tempOutputName
		util.LogInfof("Space in output CK path. Creating temporary file: %s", c.workDir.Join(tempOutputName))
		removeQuietly(c.workDir.Join(tempOutputName))
	}
	removeQuietly(finalPath)

	code, err := c.compiler.Run(ctx, c.workDir.Path(),
		"-input", MOCFileName,
		"-setup", SetupFileName,
		"-output", toolOutput)
	if err != nil {
		if ctx.Err() != nil {
			return &ExternalToolFailure{Tool: c.compiler.Name(), Code: -1, Err: err}
		}
		return &ConversionError{Stage: "invoke", Err: err}
	}
	if code != 0 {
		return &ExternalToolFailure{Tool: c.compiler.Name(), Code: code}
	}

	if sanitized {
		tempPath := c.workDir.Join(tempOutputName)
		util.LogInfof("Moving file %q to %q", tempPath, finalPath)
		if err := moveFile(tempPath, finalPath); err != nil {
			return &ConversionError{Stage: "relocate", Path: finalPath, Err: err}
		}
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return &ConversionError{Stage: "verify", Path: finalPath, Err: err}
	}

	util.LogInfo("Kernel written",
		util.F("path", finalPath), util.F("bytes", info.Size()), util.F("duration", time.Since(start)))
	return nil
}

func writeStaged(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := write(bw); err != nil {
		file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// removeQuietly deletes a possibly absent file; failures are only logged.
func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		util.LogDebugf("Could not remove %s: %v", path, err)
	}
}

// moveFile renames src to dst, copying when they live on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	in.Close()
	return os.Remove(src)
}
