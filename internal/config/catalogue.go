package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"gopkg.in/yaml.v3"
)

// DefaultColor is used for sensors without a configured footprint colour.
var DefaultColor = [3]float64{0.5, 0.5, 0.5}

// InstrumentEntry describes one instrument of the catalogue.
type InstrumentEntry struct {
	// Modes maps a mode string to the sensor it switches on.
	Modes  map[string]string     `yaml:"modes"`
	Colors map[string][3]float64 `yaml:"colors,omitempty"`
}

// Catalogue is the mode-sensor configuration:
//
//	instruments:
//	  JANUS:
//	    modes: {JAN_M1: NAC, JAN_M2: WAC}
//	    colors: {NAC: [0.2, 0.8, 0.2]}
type Catalogue struct {
	Instruments map[string]InstrumentEntry `yaml:"instruments"`
}

// LoadCatalogue reads a catalogue file.
func LoadCatalogue(path string) (*Catalogue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mode sensor catalogue: %w", err)
	}
	return ParseCatalogue(data)
}

// ParseCatalogue decodes catalogue YAML. Unknown keys are rejected.
func ParseCatalogue(data []byte) (*Catalogue, error) {
	var c Catalogue
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse mode sensor catalogue: %w", err)
	}
	if len(c.Instruments) == 0 {
		return nil, fmt.Errorf("mode sensor catalogue lists no instruments")
	}
	for name, inst := range c.Instruments {
		if len(inst.Modes) == 0 {
			return nil, fmt.Errorf("instrument %s has no modes", name)
		}
		for mode, sensor := range inst.Modes {
			if sensor == "" {
				return nil, fmt.Errorf("instrument %s mode %s has no sensor", name, mode)
			}
		}
	}
	return &c, nil
}

// ModeSensors returns the instrument -> mode -> sensor map.
func (c *Catalogue) ModeSensors() model.ModeSensorMap {
	m := make(model.ModeSensorMap, len(c.Instruments))
	for name, inst := range c.Instruments {
		modes := make(map[string]string, len(inst.Modes))
		for mode, sensor := range inst.Modes {
			modes[mode] = sensor
		}
		m[name] = modes
	}
	return m
}

// InstrumentNames returns the catalogue instruments sorted by name.
func (c *Catalogue) InstrumentNames() []string {
	names := make([]string, 0, len(c.Instruments))
	for name := range c.Instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Color returns the footprint colour of a sensor, grey when unset.
func (c *Catalogue) Color(instrument, sensor string) [3]float64 {
	if inst, ok := c.Instruments[instrument]; ok {
		if color, ok := inst.Colors[sensor]; ok {
			return color
		}
	}
	return DefaultColor
}
