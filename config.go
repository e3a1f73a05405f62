package solarkit

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// maxTargetFPS bounds the pacing rate so the per-tick interval,
// time.Second/fps, never truncates to zero.
const maxTargetFPS = 1000000

var (
	// ErrBadFPS is returned when the target frame rate is not positive
	// or beyond what the pacing ticker can represent.
	ErrBadFPS = errors.New("solarkit: target fps out of range")
	// ErrBadMode is returned for an unrecognized visualization mode.
	ErrBadMode = errors.New("solarkit: unknown visualization mode")
)

// RunConfig is the caller-supplied configuration of one run. It is plain
// data: derived quantities (ordering, horizon, step size) live in the
// RunContext built from it.
type RunConfig struct {
	SystemName string   `yaml:"system_name" mapstructure:"system_name"`
	DataPath   string   `yaml:"data" mapstructure:"data"`
	Bodies     []string `yaml:"bodies" mapstructure:"bodies"`
	Mode       Mode     `yaml:"-" mapstructure:"-"`
	ModeName   string   `yaml:"mode" mapstructure:"mode"`
	ThreeD     bool     `yaml:"three_d" mapstructure:"three_d"`
	TargetFPS  int      `yaml:"target_fps" mapstructure:"target_fps"`
	OutputDir  string   `yaml:"output_dir" mapstructure:"output_dir"`
}

// DefaultRunConfig returns the configuration used when a scenario file
// leaves a field unset.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		SystemName: "Solar System",
		DataPath:   "planet_data.csv",
		Mode:       OrbitsOnly,
		ModeName:   OrbitsOnly.String(),
		TargetFPS:  30,
		OutputDir:  "figures",
	}
}

// ParseMode maps a scenario-file mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "orbits", "":
		return OrbitsOnly, nil
	case "animate", "animated-orbits":
		return AnimatedOrbits, nil
	case "spinograph":
		return Spinograph, nil
	case "animated-spinograph":
		return AnimatedSpinograph, nil
	}
	return OrbitsOnly, fmt.Errorf("%w (%q)", ErrBadMode, s)
}

// Projection returns the projection selected by the ThreeD switch.
func (c RunConfig) Projection() Projection {
	if c.ThreeD {
		return Inclined
	}
	return Flat
}

// Validate checks the configuration before any computation is attempted.
func (c RunConfig) Validate() error {
	if c.TargetFPS <= 0 || c.TargetFPS > maxTargetFPS {
		return fmt.Errorf("%w (%d)", ErrBadFPS, c.TargetFPS)
	}
	return nil
}

// LoadRunConfig reads a scenario file (TOML or YAML, decided by the file
// extension) into a RunConfig, filling unset fields from the defaults.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("scenario %s: %w", path, err)
	}
	v.SetDefault("system_name", cfg.SystemName)
	v.SetDefault("data", cfg.DataPath)
	v.SetDefault("mode", cfg.ModeName)
	v.SetDefault("target_fps", cfg.TargetFPS)
	v.SetDefault("output_dir", cfg.OutputDir)
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("scenario %s: %w", path, err)
	}
	mode, err := ParseMode(cfg.ModeName)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = mode
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the parent directory if
// needed. Used to seed a scenario file for editing.
func (c RunConfig) Save(path string) error {
	c.ModeName = c.Mode.String()
	out, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, out, 0644)
}
