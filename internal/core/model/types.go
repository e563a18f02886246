package model

import (
	"fmt"
	"time"
)

// TimedQuaternion is one attitude sample ready for the MOC exporter.
// TDB is already formatted in the kernel compiler's time layout; UTC is kept
// for reporting only.
type TimedQuaternion struct {
	TDB   string
	UTC   time.Time
	Value float64 // scalar component
	Axis1 float64
	Axis2 float64
	Axis3 float64
}

// KernelIdentity names the physical object a kernel belongs to.
type KernelIdentity struct {
	Label          string `mapstructure:"label" yaml:"label"`
	ID             int32  `mapstructure:"id" yaml:"id"`
	LeapsecondFile string `mapstructure:"leapseconds" yaml:"leapseconds"`
	ClockFile      string `mapstructure:"sclk" yaml:"sclk"`
}

// BodyCode returns the NAIF-style body code, -{ID}000.
func (k KernelIdentity) BodyCode() int64 {
	return -int64(k.ID) * 1000
}

// Validate reports identities the kernel compiler would reject.
func (k KernelIdentity) Validate() error {
	if k.Label == "" {
		return fmt.Errorf("kernel identity has no label")
	}
	if k.ID <= 0 {
		return fmt.Errorf("kernel identity %s has non-positive id %d", k.Label, k.ID)
	}
	if k.LeapsecondFile == "" || k.ClockFile == "" {
		return fmt.Errorf("kernel identity %s is missing leapseconds or clock kernel", k.Label)
	}
	return nil
}

// ExperimentModeEntry is one row of the experiment-modes section of a timeline dump.
type ExperimentModeEntry struct {
	UTC        time.Time
	Instrument string
	Mode       string
}

// ModeSensorMap maps instrument -> mode -> sensor.
type ModeSensorMap map[string]map[string]string

// Sensor returns the sensor switched on by mode, if the mode is known for instrument.
func (m ModeSensorMap) Sensor(instrument, mode string) (string, bool) {
	modes, ok := m[instrument]
	if !ok {
		return "", false
	}
	sensor, ok := modes[mode]
	return sensor, ok
}

// ObservationInterval is a closed ON span of one sensor.
type ObservationInterval struct {
	Instrument string
	Sensor     string
	Start      time.Time
	End        time.Time
}

// Duration of the interval.
func (o ObservationInterval) Duration() time.Duration {
	return o.End.Sub(o.Start)
}
