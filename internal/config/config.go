// Package config loads application settings with viper and the domain data
// files (mode-sensor catalogue, leap second additions) from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/penwyp/go-mapps-cosmo/internal/core/model"
	"github.com/penwyp/go-mapps-cosmo/internal/util"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFile = "~/.go-mapps-cosmo/config.yaml"
	EnvPrefix         = "MAPPSCOSMO"
)

// Config holds everything the commands need beyond their flags.
type Config struct {
	ToolDir         string               `mapstructure:"toolDir"`
	CompilerPath    string               `mapstructure:"compilerPath"`
	WorkDir         string               `mapstructure:"workDir"`
	IsolatedWorkDir bool                 `mapstructure:"isolatedWorkDir"`
	OutputDir       string               `mapstructure:"outputDir"`
	CreationDate    string               `mapstructure:"creationDate"`
	BlockSize       int                  `mapstructure:"blockSize"`
	Timeout         time.Duration        `mapstructure:"timeout"`
	ModeSensorsFile string               `mapstructure:"modeSensorsFile"`
	LeapSecondsFile string               `mapstructure:"leapSecondsFile"`
	Spacecraft      model.KernelIdentity `mapstructure:"spacecraft"`
	Panel           model.KernelIdentity `mapstructure:"panel"`
}

// SpacecraftIdentity is the JUICE kernel identity. The compiler build for
// windows needs its own copies of the leap second and clock kernels.
func SpacecraftIdentity(goos string) model.KernelIdentity {
	id := model.KernelIdentity{
		Label:          "JUICE",
		ID:             28,
		LeapsecondFile: "naif0011.tls",
		ClockFile:      "juice_fict_20160326.tsc",
	}
	if goos == "windows" {
		id.LeapsecondFile += ".win"
		id.ClockFile += ".win"
	}
	return id
}

// PanelIdentity is the identity the solar array kernel is compiled under.
func PanelIdentity(goos string) model.KernelIdentity {
	id := SpacecraftIdentity(goos)
	id.Label = "JUICE_SOLAR_ARRAY"
	id.ID = 281
	return id
}

func setDefaults(v *viper.Viper, goos string) {
	v.SetDefault("toolDir", "~/.go-mapps-cosmo/tools")
	v.SetDefault("compilerPath", "")
	v.SetDefault("workDir", "~/.go-mapps-cosmo/data")
	v.SetDefault("isolatedWorkDir", false)
	v.SetDefault("outputDir", ".")
	v.SetDefault("creationDate", "2016-10-07T17:00:00")
	v.SetDefault("blockSize", 500000)
	v.SetDefault("timeout", "10m")
	v.SetDefault("modeSensorsFile", "~/.go-mapps-cosmo/mode_sensors.yaml")
	v.SetDefault("leapSecondsFile", "")

	for key, id := range map[string]model.KernelIdentity{
		"spacecraft": SpacecraftIdentity(goos),
		"panel":      PanelIdentity(goos),
	} {
		v.SetDefault(key+".label", id.Label)
		v.SetDefault(key+".id", id.ID)
		v.SetDefault(key+".leapseconds", id.LeapsecondFile)
		v.SetDefault(key+".sclk", id.ClockFile)
	}
}

// Load reads the YAML config at path. An empty path means DefaultConfigFile,
// which may be absent; an explicit path must exist. Environment variables
// prefixed with MAPPSCOSMO_ override file values (MAPPSCOSMO_TOOLDIR,
// MAPPSCOSMO_SPACECRAFT_ID, ...).
func Load(path, goos string) (*Config, error) {
	v := viper.New()
	setDefaults(v, goos)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	path = util.ExpandPath(path)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if explicit || !isNotExist(err) {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		util.LogDebugf("No config file at %s, using defaults", path)
	} else {
		util.LogDebugf("Loaded config from %s", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

func (c *Config) expandPaths() {
	for _, p := range []*string{&c.ToolDir, &c.CompilerPath, &c.WorkDir, &c.OutputDir, &c.ModeSensorsFile, &c.LeapSecondsFile} {
		if *p != "" {
			*p = filepath.Clean(util.ExpandPath(*p))
		}
	}
}

// Validate checks values that would only fail deep inside a conversion.
func (c *Config) Validate() error {
	if _, err := time.Parse("2006-01-02T15:04:05", c.CreationDate); err != nil {
		return fmt.Errorf("invalid creationDate %q: %w", c.CreationDate, err)
	}
	if c.BlockSize <= 0 {
		return fmt.Errorf("blockSize must be positive, got %d", c.BlockSize)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if err := c.Spacecraft.Validate(); err != nil {
		return fmt.Errorf("spacecraft: %w", err)
	}
	if err := c.Panel.Validate(); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}
