package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKernelIdentityBodyCode(t *testing.T) {
	assert.Equal(t, int64(-28000), KernelIdentity{ID: 28}.BodyCode())
	assert.Equal(t, int64(-281000), KernelIdentity{ID: 281}.BodyCode())
}

func TestKernelIdentityValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      KernelIdentity
		wantErr bool
	}{
		{"complete", KernelIdentity{Label: "JUICE", ID: 28, LeapsecondFile: "naif0011.tls", ClockFile: "juice.tsc"}, false},
		{"no label", KernelIdentity{ID: 28, LeapsecondFile: "a", ClockFile: "b"}, true},
		{"zero id", KernelIdentity{Label: "JUICE", LeapsecondFile: "a", ClockFile: "b"}, true},
		{"no clock", KernelIdentity{Label: "JUICE", ID: 28, LeapsecondFile: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModeSensorMapLookup(t *testing.T) {
	m := ModeSensorMap{"JANUS": {"M1": "S1"}}

	sensor, ok := m.Sensor("JANUS", "M1")
	assert.True(t, ok)
	assert.Equal(t, "S1", sensor)

	_, ok = m.Sensor("JANUS", "OFF")
	assert.False(t, ok)
	_, ok = m.Sensor("MAJIS", "M1")
	assert.False(t, ok)
}

func TestObservationsAccessors(t *testing.T) {
	t0 := time.Date(2031, 7, 2, 10, 0, 0, 0, time.UTC)
	iv := func(inst, sensor string, start, end int) ObservationInterval {
		return ObservationInterval{
			Instrument: inst, Sensor: sensor,
			Start: t0.Add(time.Duration(start) * time.Minute),
			End:   t0.Add(time.Duration(end) * time.Minute),
		}
	}
	obs := Observations{Instruments: []InstrumentObservations{
		{Instrument: "JANUS", Sensors: []SensorIntervals{
			{Sensor: "S1", Intervals: []ObservationInterval{iv("JANUS", "S1", 0, 5), iv("JANUS", "S1", 10, 12)}},
			{Sensor: "S2", Intervals: []ObservationInterval{iv("JANUS", "S2", 5, 10)}},
		}},
		{Instrument: "MAJIS", Sensors: []SensorIntervals{
			{Sensor: "VIS", Intervals: []ObservationInterval{iv("MAJIS", "VIS", 1, 2)}},
		}},
	}}

	assert.Len(t, obs.Intervals("JANUS", "S1"), 2)
	assert.Nil(t, obs.Intervals("JANUS", "S9"))
	assert.Equal(t, 4, obs.Count())

	all := obs.All()
	assert.Equal(t, []string{"S1", "S1", "S2", "VIS"}, []string{all[0].Sensor, all[1].Sensor, all[2].Sensor, all[3].Sensor})
	assert.Equal(t, 5*time.Minute, all[0].Duration())

	_, ok := obs.Instrument("RIME")
	assert.False(t, ok)
}
