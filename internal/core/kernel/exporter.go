// Package kernel turns timed quaternions into the text inputs of the external
// attitude-kernel compiler and drives that compiler.
package kernel

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
)

const (
	// DefaultBlockSize caps the number of quaternions per META block.
	DefaultBlockSize = 500000
	// DefaultCreationDate is stamped into every block header.
	DefaultCreationDate = "2016-10-07T17:00:00"

	mocVersionHeader = "ESOC_TOS_GFI_ATTITUDE_FILE_VERSION = 1.0"
	nominalSCLKRate  = "0.152587890625D-4"
)

// Exporter renders MOC and setup text. Output depends only on its inputs.
type Exporter struct {
	BlockSize    int
	CreationDate string
}

// NewExporter returns an exporter with the compiler's default settings.
func NewExporter() *Exporter {
	return &Exporter{
		BlockSize:    DefaultBlockSize,
		CreationDate: DefaultCreationDate,
	}
}

func (e *Exporter) blockSize() int {
	if e.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return e.BlockSize
}

// Blocks returns how many META blocks n quaternions are split into.
func (e *Exporter) Blocks(n int) int {
	size := e.blockSize()
	return (n + size - 1) / size
}

// Export returns the MOC and setup documents.
func (e *Exporter) Export(quats []model.TimedQuaternion, id model.KernelIdentity) (string, string) {
	var moc, setup strings.Builder
	moc.Grow(64 + len(quats)*64)
	// strings.Builder never returns write errors
	_ = e.WriteMOC(&moc, quats, id)
	_ = e.WriteSetup(&setup, id)
	return moc.String(), setup.String()
}

// WriteMOC streams the MOC document to w. An empty sequence yields the
// version header only.
func (e *Exporter) WriteMOC(w io.Writer, quats []model.TimedQuaternion, id model.KernelIdentity) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, mocVersionHeader)

	size := e.blockSize()
	for start := 0; start < len(quats); start += size {
		end := start + size
		if end > len(quats) {
			end = len(quats)
		}
		e.writeBlock(bw, quats[start:end], id)
	}
	return bw.Flush()
}

func (e *Exporter) writeBlock(bw *bufio.Writer, block []model.TimedQuaternion, id model.KernelIdentity) {
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "META_START")
	fmt.Fprintf(bw, "OBJECT_NAME          = %s\n", id.Label)
	fmt.Fprintf(bw, "OBJECT_ID            = %d\n", id.ID)
	fmt.Fprintln(bw, "REF_FRAME            = EME2000")
	fmt.Fprintln(bw, "TIME_SYSTEM          = TDB")
	fmt.Fprintf(bw, "START_TIME           = %s\n", block[0].TDB)
	fmt.Fprintf(bw, "STOP_TIME            = %s\n", block[len(block)-1].TDB)
	fmt.Fprintf(bw, "CREATION_DATE        = %s\n", e.CreationDate)
	fmt.Fprintln(bw, "FILE_TYPE            = ATTITUDE FILE")
	fmt.Fprintln(bw, "VARIABLES_NUMBER     = 4")
	fmt.Fprintln(bw, "DERIVATIVES_FLAG     = 0")
	fmt.Fprintln(bw, "META_STOP")

	for _, q := range block {
		fmt.Fprintf(bw, "%s %.6f %.6f %.6f %.6f\n", q.TDB, q.Axis1, q.Axis2, q.Axis3, q.Value)
	}
}

// WriteSetup streams the compiler directive block to w.
func (e *Exporter) WriteSetup(w io.Writer, id model.KernelIdentity) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, `\begindata`)
	fmt.Fprintf(bw, "LEAPSECONDS_FILE     = '%s'\n", id.LeapsecondFile)
	fmt.Fprintf(bw, "SCLK_KERNEL          = '%s'\n", id.ClockFile)
	fmt.Fprintln(bw, "INTERPOLATION_DEGREE = 9")
	fmt.Fprintln(bw, "INTERPOLATION_METHOD = 'LAGRANGE'")
	fmt.Fprintf(bw, "NOMINAL_SCLK_RATE    = %s\n", nominalSCLKRate)
	fmt.Fprintln(bw, "APPEND_TO_OUTPUT     = 'NO'")
	fmt.Fprintf(bw, "STRING_MAPPING       = ( 'EME2000', 'J2000', '%s', '%s'  )\n", id.Label, id.Label)
	fmt.Fprintf(bw, "NAIF_BODY_NAME       = '%s'\n", id.Label)
	fmt.Fprintf(bw, "NAIF_BODY_CODE       = %d\n", id.BodyCode())
	fmt.Fprintln(bw, `\begintext`)
	return bw.Flush()
}
