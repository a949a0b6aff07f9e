// Package config loads the airlock shell configuration: door tuning,
// the doors to spawn, paint groups and logging.
//
// Configuration comes from a single YAML file named on the command line.
// Values missing from the file keep their defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"airlock/pkg/game/entities"
)

var (
	// ErrUnknownGroup is returned when a door names an undefined paint group
	ErrUnknownGroup = errors.New("unknown paint group")
	// ErrUnknownStyle is returned when a door names a style its group lacks
	ErrUnknownStyle = errors.New("unknown paint style")
)

// Config is the master configuration
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Airlock is the tuning shared by every spawned door.
	Airlock AirlockConfig `yaml:"airlock"`

	// Doors lists the doors spawned at startup. A file that sets doors
	// replaces the default list.
	Doors []DoorConfig `yaml:"doors"`

	// PaintGroups maps group -> style -> skin path. Groups in the file are
	// added to the built-in ones; a group defined in both is replaced.
	PaintGroups map[string]map[string]string `yaml:"paint_groups"`
}

// AirlockConfig tunes door timing and interlock behaviour
type AirlockConfig struct {
	AutoCloseDelay         time.Duration `yaml:"auto_close_delay"`
	AutoCloseDelayModifier float64       `yaml:"auto_close_delay_modifier"`
	PoweredPryModifier     float64       `yaml:"powered_pry_modifier"`
	KeepOpenIfClicked      bool          `yaml:"keep_open_if_clicked"`
	OpenPanelVisible       bool          `yaml:"open_panel_visible"`

	OpenDuration  time.Duration `yaml:"open_duration"`
	CloseDuration time.Duration `yaml:"close_duration"`
	DenyDuration  time.Duration `yaml:"deny_duration"`
	PryTime       time.Duration `yaml:"pry_time"`
}

// DoorConfig describes one door to spawn
type DoorConfig struct {
	Name      string `yaml:"name"`
	Group     string `yaml:"group"`
	Style     string `yaml:"style"`
	Powered   bool   `yaml:"powered"`
	Bolted    bool   `yaml:"bolted"`
	WirePanel bool   `yaml:"wire_panel"`
}

// Default returns the stock configuration
func Default() *Config {
	a := entities.NewAirlock()
	return &Config{
		LogLevel: "info",
		Airlock: AirlockConfig{
			AutoCloseDelay:         a.AutoCloseDelay,
			AutoCloseDelayModifier: a.AutoCloseDelayModifier,
			PoweredPryModifier:     a.PoweredPryModifier,
			KeepOpenIfClicked:      a.KeepOpenIfClicked,
			OpenPanelVisible:       a.OpenPanelVisible,
			OpenDuration:           a.OpenDuration,
			CloseDuration:          a.CloseDuration,
			DenyDuration:           a.DenyDuration,
			PryTime:                a.PryTime,
		},
		Doors: []DoorConfig{
			{Name: "airlock", Group: "Standard", Style: "Basic", Powered: true, WirePanel: true},
		},
		PaintGroups: map[string]map[string]string{
			"Standard": {
				"Basic":       "Structures/Doors/Airlocks/Standard/basic.rsi",
				"Command":     "Structures/Doors/Airlocks/Standard/command.rsi",
				"Engineering": "Structures/Doors/Airlocks/Standard/engineering.rsi",
				"External":    "Structures/Doors/Airlocks/Standard/external.rsi",
				"Medical":     "Structures/Doors/Airlocks/Standard/medical.rsi",
				"Security":    "Structures/Doors/Airlocks/Standard/security.rsi",
			},
			"Glass": {
				"Basic":       "Structures/Doors/Airlocks/Glass/glass.rsi",
				"Engineering": "Structures/Doors/Airlocks/Glass/engineering.rsi",
				"Medical":     "Structures/Doors/Airlocks/Glass/medical.rsi",
			},
		},
	}
}

// Load reads path over the defaults and validates the result
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for errors. Every problem is reported.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	a := c.Airlock
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"airlock.auto_close_delay", a.AutoCloseDelay},
		{"airlock.open_duration", a.OpenDuration},
		{"airlock.close_duration", a.CloseDuration},
		{"airlock.deny_duration", a.DenyDuration},
		{"airlock.pry_time", a.PryTime},
	}
	for _, d := range durations {
		if d.d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %s", d.name, d.d))
		}
	}
	if a.AutoCloseDelayModifier <= 0 {
		errs = append(errs, fmt.Errorf("airlock.auto_close_delay_modifier must be positive, got %v", a.AutoCloseDelayModifier))
	}
	if a.PoweredPryModifier <= 0 {
		errs = append(errs, fmt.Errorf("airlock.powered_pry_modifier must be positive, got %v", a.PoweredPryModifier))
	}

	names := make(map[string]bool, len(c.Doors))
	for i, d := range c.Doors {
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("doors[%d].name is required", i))
		} else if names[d.Name] {
			errs = append(errs, fmt.Errorf("doors[%d]: duplicate name %q", i, d.Name))
		}
		names[d.Name] = true

		styles, ok := c.PaintGroups[d.Group]
		if !ok {
			errs = append(errs, fmt.Errorf("door %q: %w %q", d.Name, ErrUnknownGroup, d.Group))
			continue
		}
		if _, ok := styles[d.Style]; !ok {
			errs = append(errs, fmt.Errorf("door %q: %w %q in group %q", d.Name, ErrUnknownStyle, d.Style, d.Group))
		}
	}

	return errors.Join(errs...)
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// NewAirlock builds an airlock component with this tuning
func (a AirlockConfig) NewAirlock() *entities.Airlock {
	door := entities.NewAirlock()
	door.AutoCloseDelay = a.AutoCloseDelay
	door.AutoCloseDelayModifier = a.AutoCloseDelayModifier
	door.PoweredPryModifier = a.PoweredPryModifier
	door.KeepOpenIfClicked = a.KeepOpenIfClicked
	door.OpenPanelVisible = a.OpenPanelVisible
	door.OpenDuration = a.OpenDuration
	door.CloseDuration = a.CloseDuration
	door.DenyDuration = a.DenyDuration
	door.PryTime = a.PryTime
	return door
}
