package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("", "linux")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".go-mapps-cosmo", "tools"), cfg.ToolDir)
	assert.Equal(t, filepath.Join(home, ".go-mapps-cosmo", "data"), cfg.WorkDir)
	assert.Equal(t, "2016-10-07T17:00:00", cfg.CreationDate)
	assert.Equal(t, 500000, cfg.BlockSize)
	assert.Equal(t, 10*time.Minute, cfg.Timeout)
	assert.Empty(t, cfg.CompilerPath)
	assert.Equal(t, SpacecraftIdentity("linux"), cfg.Spacecraft)
	assert.Equal(t, PanelIdentity("linux"), cfg.Panel)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
toolDir: /opt/mex2ker
workDir: /tmp/mex2ker-data
creationDate: "2031-01-01T00:00:00"
timeout: 30s
spacecraft:
  label: JUICE_TEST
  id: 99
`)
	t.Setenv("MAPPSCOSMO_BLOCKSIZE", "1000")
	t.Setenv("MAPPSCOSMO_PANEL_ID", "991")

	cfg, err := Load(path, "linux")
	require.NoError(t, err)

	assert.Equal(t, "/opt/mex2ker", cfg.ToolDir)
	assert.Equal(t, "/tmp/mex2ker-data", cfg.WorkDir)
	assert.Equal(t, "2031-01-01T00:00:00", cfg.CreationDate)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 1000, cfg.BlockSize)
	assert.Equal(t, model.KernelIdentity{
		Label:          "JUICE_TEST",
		ID:             99,
		LeapsecondFile: "naif0011.tls",
		ClockFile:      "juice_fict_20160326.tsc",
	}, cfg.Spacecraft)
	assert.Equal(t, int32(991), cfg.Panel.ID)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"), "linux")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	bad := writeFile(t, dir, "bad.yaml", "creationDate: yesterday\n")
	_, err = Load(bad, "linux")
	assert.ErrorContains(t, err, "creationDate")

	noID := writeFile(t, dir, "noid.yaml", "panel:\n  id: 0\n")
	_, err = Load(noID, "linux")
	assert.ErrorContains(t, err, "panel")

	broken := writeFile(t, dir, "broken.yaml", "toolDir: [unterminated\n")
	_, err = Load(broken, "linux")
	assert.Error(t, err)
}

func TestIdentities(t *testing.T) {
	sc := SpacecraftIdentity("windows")
	assert.Equal(t, "naif0011.tls.win", sc.LeapsecondFile)
	assert.Equal(t, "juice_fict_20160326.tsc.win", sc.ClockFile)
	assert.Equal(t, int64(-28000), SpacecraftIdentity("darwin").BodyCode())

	panel := PanelIdentity("linux")
	assert.Equal(t, "JUICE_SOLAR_ARRAY", panel.Label)
	assert.NoError(t, panel.Validate())
}

const catalogueYAML = `
instruments:
  JANUS:
    modes:
      JAN_M1: NAC
      JAN_M2: WAC
    colors:
      NAC: [0.2, 0.8, 0.2]
  MAJIS:
    modes:
      MAJ_VIS: VIS
`

func TestParseCatalogue(t *testing.T) {
	c, err := ParseCatalogue([]byte(catalogueYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"JANUS", "MAJIS"}, c.InstrumentNames())
	assert.Equal(t, model.ModeSensorMap{
		"JANUS": {"JAN_M1": "NAC", "JAN_M2": "WAC"},
		"MAJIS": {"MAJ_VIS": "VIS"},
	}, c.ModeSensors())

	assert.Equal(t, [3]float64{0.2, 0.8, 0.2}, c.Color("JANUS", "NAC"))
	assert.Equal(t, DefaultColor, c.Color("JANUS", "WAC"))
	assert.Equal(t, DefaultColor, c.Color("RIME", "ANY"))
}

func TestParseCatalogueErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"no instruments", "instruments: {}\n"},
		{"instrument without modes", "instruments:\n  JANUS: {}\n"},
		{"empty sensor", "instruments:\n  JANUS:\n    modes:\n      M1: \"\"\n"},
		{"unknown key", "instruments:\n  JANUS:\n    modes: {M1: S1}\n    boresight: X\n"},
		{"not yaml", "instruments: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalogue([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogue(t *testing.T) {
	path := writeFile(t, t.TempDir(), "modes.yaml", catalogueYAML)
	c, err := LoadCatalogue(path)
	require.NoError(t, err)
	assert.Len(t, c.Instruments, 2)

	_, err = LoadCatalogue(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadLeapSeconds(t *testing.T) {
	table, err := LoadLeapSeconds("")
	require.NoError(t, err)
	assert.Equal(t, 28, table.Len())

	path := writeFile(t, t.TempDir(), "leap.yaml", "boundaries:\n  - 2033-01-01\n  - 2036-07-01\n")
	table, err = LoadLeapSeconds(path)
	require.NoError(t, err)
	assert.Equal(t, 30, table.Len())

	n, err := table.Count(time.Date(2037, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 39, n)

	_, err = ParseLeapSeconds([]byte("boundaries: [2010-01-01]\n"))
	assert.Error(t, err, "boundaries must follow the built-in table")

	_, err = ParseLeapSeconds([]byte("boundaries: [01/01/2040]\n"))
	assert.Error(t, err)
}
