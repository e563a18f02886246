package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
)

// ObservationTimeLayout is how Cosmographia catalogues spell instants.
const ObservationTimeLayout = "2006-01-02 15:04:05.000 UTC"

// ColorFunc picks the footprint colour of a sensor.
type ColorFunc func(instrument, sensor string) [3]float64

type observationCatalog struct {
	Version string            `json:"version"`
	Name    string            `json:"name"`
	Items   []observationItem `json:"items"`
}

type observationItem struct {
	Class           string              `json:"class"`
	Name            string              `json:"name"`
	StartTime       string              `json:"startTime"`
	EndTime         string              `json:"endTime"`
	Center          string              `json:"center"`
	TrajectoryFrame frameRef            `json:"trajectoryFrame"`
	BodyFrame       frameRef            `json:"bodyFrame"`
	Geometry        observationGeometry `json:"geometry"`
}

type frameRef struct {
	Type string `json:"type"`
	Body string `json:"body"`
}

type observationGeometry struct {
	Type                    string             `json:"type"`
	Sensor                  string             `json:"sensor"`
	Groups                  []observationGroup `json:"groups"`
	FootprintColor          [3]float64         `json:"footprintColor"`
	FootprintOpacity        float64            `json:"footprintOpacity"`
	ShowResWithColor        bool               `json:"showResWithColor"`
	SideDivisions           int                `json:"sideDivisions"`
	AlongTrackDivisions     int                `json:"alongTrackDivisions"`
	ShadowVolumeScaleFactor float64            `json:"shadowVolumeScaleFactor"`
	FillInObservations      bool               `json:"fillInObservations"`
}

type observationGroup struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	ObsRate   int    `json:"obsRate"`
}

// ObservationWriter writes one Cosmographia observation catalogue per
// (instrument, sensor).
type ObservationWriter struct {
	Spacecraft string
	Target     string
	Colors     ColorFunc
}

// NewObservationWriter uses JUICE observing Callisto with grey footprints.
func NewObservationWriter() *ObservationWriter {
	return &ObservationWriter{Spacecraft: "JUICE", Target: "CALLISTO"}
}

// FileName is the catalogue file name of a sensor.
func (w *ObservationWriter) FileName(instrument, sensor string) string {
	return fmt.Sprintf("%s_GEN_OBS_%s_%s.json", w.Spacecraft, instrument, sensor)
}

// Write creates dir if needed and returns the files written, in
// observation order. Sensors without intervals produce no file, and
// catalogues left in dir by an earlier Write for such sensors are removed.
func (w *ObservationWriter) Write(dir string, obs model.Observations) ([]string, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create observation folder: %w", err)
	}

	var written []string
	for _, inst := range obs.Instruments {
		for _, s := range inst.Sensors {
			if len(s.Intervals) == 0 {
				continue
			}
			data, err := w.Render(inst.Instrument, s)
			if err != nil {
				return written, fmt.Errorf("failed to render observations for %s %s: %w", inst.Instrument, s.Sensor, err)
			}
			path := filepath.Join(dir, w.FileName(inst.Instrument, s.Sensor))
			if err := os.WriteFile(path, data, 0644); err != nil {
				return written, fmt.Errorf("failed to write observation file: %w", err)
			}
			util.LogDebugf("Wrote %d observations to %s", len(s.Intervals), path)
			written = append(written, path)
		}
	}
	if err := w.removeStale(dir, written); err != nil {
		return written, err
	}
	util.LogInfof("Wrote %d observation files to %s", len(written), dir)
	return written, nil
}

// removeStale deletes this spacecraft's catalogues in dir that are not in keep.
func (w *ObservationWriter) removeStale(dir string, keep []string) error {
	existing, err := filepath.Glob(filepath.Join(dir, w.FileName("*", "*")))
	if err != nil {
		return fmt.Errorf("failed to list observation files: %w", err)
	}
	kept := make(map[string]bool, len(keep))
	for _, path := range keep {
		kept[path] = true
	}
	for _, path := range existing {
		if kept[path] {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale observation file: %w", err)
		}
		util.LogInfof("Removed stale observation file %s", path)
	}
	return nil
}

// Render builds the catalogue JSON of one sensor.
func (w *ObservationWriter) Render(instrument string, s model.SensorIntervals) ([]byte, error) {
	color := [3]float64{0.5, 0.5, 0.5}
	if w.Colors != nil {
		color = w.Colors(instrument, s.Sensor)
	}

	groups := make([]observationGroup, 0, len(s.Intervals))
	for _, iv := range s.Intervals {
		groups = append(groups, observationGroup{
			StartTime: formatObservationTime(iv.Start),
			EndTime:   formatObservationTime(iv.End),
		})
	}

	sensorName := fmt.Sprintf("%s_%s_%s", w.Spacecraft, instrument, s.Sensor)
	catalog := observationCatalog{
		Version: "1.0",
		Name:    fmt.Sprintf("%s_GEN_OBS_%s_%s", w.Spacecraft, instrument, s.Sensor),
		Items: []observationItem{{
			Class:           "observation",
			Name:            sensorName + "_OBS",
			StartTime:       formatObservationTime(s.Intervals[0].Start),
			EndTime:         formatObservationTime(s.Intervals[len(s.Intervals)-1].End),
			Center:          w.Target,
			TrajectoryFrame: frameRef{Type: "BodyFixed", Body: w.Target},
			BodyFrame:       frameRef{Type: "BodyFixed", Body: w.Target},
			Geometry: observationGeometry{
				Type:                    "Observations",
				Sensor:                  sensorName,
				Groups:                  groups,
				FootprintColor:          color,
				FootprintOpacity:        0.4,
				SideDivisions:           125,
				AlongTrackDivisions:     500,
				ShadowVolumeScaleFactor: 1.75,
			},
		}},
	}
	return sonic.ConfigStd.MarshalIndent(catalog, "", "  ")
}

func formatObservationTime(t time.Time) string {
	return t.UTC().Format(ObservationTimeLayout)
}
