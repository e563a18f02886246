package model

// SensorIntervals holds the intervals of one sensor in insertion order.
type SensorIntervals struct {
	Sensor    string
	Intervals []ObservationInterval
}

// InstrumentObservations groups the sensors of one instrument, in the order
// each sensor was first switched on.
type InstrumentObservations struct {
	Instrument string
	Sensors    []SensorIntervals
}

// Observations is the ordered result of deriving intervals from a timeline.
// It is built from slices only so that rendering it never depends on map order.
type Observations struct {
	Instruments []InstrumentObservations
}

// Intervals returns the intervals recorded for (instrument, sensor), or nil.
func (o Observations) Intervals(instrument, sensor string) []ObservationInterval {
	for _, inst := range o.Instruments {
		if inst.Instrument != instrument {
			continue
		}
		for _, s := range inst.Sensors {
			if s.Sensor == sensor {
				return s.Intervals
			}
		}
	}
	return nil
}

// Instrument returns the observations for one instrument.
func (o Observations) Instrument(name string) (InstrumentObservations, bool) {
	for _, inst := range o.Instruments {
		if inst.Instrument == name {
			return inst, true
		}
	}
	return InstrumentObservations{}, false
}

// All flattens the observations in instrument, sensor, insertion order.
func (o Observations) All() []ObservationInterval {
	var out []ObservationInterval
	for _, inst := range o.Instruments {
		for _, s := range inst.Sensors {
			out = append(out, s.Intervals...)
		}
	}
	return out
}

// Count returns the total number of intervals.
func (o Observations) Count() int {
	n := 0
	for _, inst := range o.Instruments {
		for _, s := range inst.Sensors {
			n += len(s.Intervals)
		}
	}
	return n
}
