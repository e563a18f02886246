package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned when no compiler binary exists for the OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform for kernel compiler")
	// ErrNoQuaternions is returned when asked to compile an empty attitude sequence.
	ErrNoQuaternions = errors.New("no quaternions to convert")
)

// ExternalToolFailure reports a compiler run that did not succeed. Code is the
// process exit status, or -1 when the run was aborted (Err is then set).
type ExternalToolFailure struct {
	Tool string
	Code int
	Err  error
}

func (e *ExternalToolFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("kernel compiler %s aborted: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("kernel compiler %s returned error value: %d", e.Tool, e.Code)
}

func (e *ExternalToolFailure) Unwrap() error {
	return e.Err
}

// ConversionError wraps I/O failures around the compiler run. Stage is one of
// identity, export, stage, invoke, relocate or verify.
type ConversionError struct {
	Stage string
	Path  string
	Err   error
}

func (e *ConversionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("kernel conversion failed at %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("kernel conversion failed at %s (%s): %v", e.Stage, e.Path, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
