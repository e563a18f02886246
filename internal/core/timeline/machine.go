package timeline

import (
	"io"
	"sort"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// instrumentMachine tracks one instrument, OFF or ON(sensor).
type instrumentMachine struct {
	instrument string
	modes      map[string]string
	on         bool
	sensor     string
	start      time.Time
	out        model.InstrumentObservations
}

// step applies one entry. In ON every entry closes the open interval; a
// recognised mode then reopens at the same instant with its own sensor.
func (m *instrumentMachine) step(e model.ExperimentModeEntry) {
	sensor, recognised := m.modes[e.Mode]

	if !m.on {
		if recognised {
			m.on, m.sensor, m.start = true, sensor, e.UTC
		}
		return
	}

	m.close(e.UTC)
	if recognised {
		m.sensor, m.start = sensor, e.UTC
	} else {
		m.on = false
	}
}

func (m *instrumentMachine) close(end time.Time) {
	interval := model.ObservationInterval{
		Instrument: m.instrument,
		Sensor:     m.sensor,
		Start:      m.start,
		End:        end,
	}
	for i := range m.out.Sensors {
		if m.out.Sensors[i].Sensor == m.sensor {
			m.out.Sensors[i].Intervals = append(m.out.Sensors[i].Intervals, interval)
			return
		}
	}
	m.out.Sensors = append(m.out.Sensors, model.SensorIntervals{
		Sensor:    m.sensor,
		Intervals: []model.ObservationInterval{interval},
	})
}

// Derive runs one state machine per instrument over entries, which are
// expected in chronological order. An interval still open when the entries
// run out is dropped. Instruments without any closed interval are omitted;
// the rest keep the order of instruments, repeated names counting once. An empty instruments list means
// every instrument of modes, sorted by name.
func Derive(entries []model.ExperimentModeEntry, instruments []string, modes model.ModeSensorMap) model.Observations {
	if len(instruments) == 0 {
		instruments = Instruments(modes)
	}

	var obs model.Observations
	seen := make(map[string]bool, len(instruments))
	for _, name := range instruments {
		if seen[name] {
			continue
		}
		seen[name] = true
		m := &instrumentMachine{
			instrument: name,
			modes:      modes[name],
			out:        model.InstrumentObservations{Instrument: name},
		}
		for _, e := range entries {
			if e.Instrument == name {
				m.step(e)
			}
		}
		if m.on {
			util.LogDebugf("%s still on %s at end of timeline, open interval from %s dropped",
				name, m.sensor, m.start.Format(time.RFC3339))
		}
		if len(m.out.Sensors) > 0 {
			obs.Instruments = append(obs.Instruments, m.out)
		}
	}
	return obs
}

// Instruments returns the instruments of modes sorted by name.
func Instruments(modes model.ModeSensorMap) []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseAndDerive parses a dump and derives its observation intervals.
func ParseAndDerive(r io.Reader, instruments []string, modes model.ModeSensorMap) (model.Observations, error) {
	entries, err := ParseExperimentModes(r)
	if err != nil {
		return model.Observations{}, err
	}
	obs := Derive(entries, instruments, modes)
	util.LogInfo("Observation intervals derived",
		util.F("entries", len(entries)), util.F("instruments", len(obs.Instruments)), util.F("intervals", obs.Count()))
	return obs, nil
}
