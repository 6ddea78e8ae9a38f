// Package config loads folio settings from defaults, a TOML file and the
// environment, and watches the file for live changes
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/folio/appearance"
	"github.com/lixenwraith/folio/audio"
	"github.com/lixenwraith/folio/capability"
	"github.com/lixenwraith/folio/physics"
	"github.com/lixenwraith/folio/scroll"
	"github.com/lixenwraith/folio/terminal"
)

// ErrConfig marks invalid configuration values
var ErrConfig = errors.New("invalid config")

// Pointer selects how the capability gate decides
type Pointer struct {
	// Policy is auto, fine or coarse
	Policy string `toml:"policy"`
}

// Spring parameters for pointer smoothing
type Spring struct {
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`
	Mass      float64 `toml:"mass"`
	RestSpeed float64 `toml:"rest_speed"`
	RestDelta float64 `toml:"rest_delta"`
}

// Scroll smoothing parameters
type Scroll struct {
	Lerp            float64 `toml:"lerp"`
	WheelMultiplier float64 `toml:"wheel_multiplier"`
	TouchMultiplier float64 `toml:"touch_multiplier"`
	DurationMS      int     `toml:"duration_ms"`
}

// Audio cue settings
type Audio struct {
	Enabled      bool    `toml:"enabled"`
	Muted        bool    `toml:"muted"`
	SampleRate   int     `toml:"sample_rate"`
	MasterVolume float64 `toml:"master_volume"`
	HoverVolume  float64 `toml:"hover_volume"`
	ClickVolume  float64 `toml:"click_volume"`
}

// Frame loop settings
type Frame struct {
	Rate int `toml:"rate"`
}

// Render settings
type Render struct {
	// ColorMode is auto, 256 or truecolor
	ColorMode  string  `toml:"color_mode"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
}

// Inspect configures the HTTP state inspector
type Inspect struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Config is the complete folio configuration
type Config struct {
	Pointer Pointer `toml:"pointer"`
	Spring  Spring  `toml:"spring"`
	Scroll  Scroll  `toml:"scroll"`
	Audio   Audio   `toml:"audio"`
	Frame   Frame   `toml:"frame"`
	Render  Render  `toml:"render"`
	Inspect Inspect `toml:"inspect"`
}

// Default returns the stock configuration
func Default() Config {
	sp := physics.DefaultSpring()
	sc := scroll.DefaultConfig()
	au := audio.DefaultConfig()
	return Config{
		Pointer: Pointer{Policy: "auto"},
		Spring: Spring{
			Stiffness: sp.Stiffness,
			Damping:   sp.Damping,
			Mass:      sp.Mass,
			RestSpeed: sp.RestSpeed,
			RestDelta: sp.RestDelta,
		},
		Scroll: Scroll{
			Lerp:            sc.Lerp,
			WheelMultiplier: sc.WheelMultiplier,
			TouchMultiplier: sc.TouchMultiplier,
			DurationMS:      int(sc.Duration / time.Millisecond),
		},
		Audio: Audio{
			Enabled:      au.Enabled,
			SampleRate:   au.SampleRate,
			MasterVolume: au.MasterVolume,
			HoverVolume:  au.HoverVolume,
			ClickVolume:  au.ClickVolume,
		},
		Frame: Frame{Rate: 60},
		Render: Render{
			ColorMode:  "auto",
			CellWidth:  appearance.DefaultMetric.CellWidth,
			CellHeight: appearance.DefaultMetric.CellHeight,
		},
		Inspect: Inspect{Addr: "127.0.0.1:7878"},
	}
}

// Load builds a config from defaults, the TOML file at path and FOLIO_*
// environment variables, in that order
// A missing file is not an error; an empty path skips the file
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if cfg, err = Parse(data); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults; keys absent from data keep their default
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("%w: line %d column %d: %s", ErrConfig, row, col, derr.Error())
		}
		return Config{}, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return cfg, nil
}

// Encode renders cfg as TOML
func (c Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate checks value ranges
func (c Config) Validate() error {
	var errs []error
	if _, err := capability.ParsePolicy(c.Pointer.Policy); err != nil {
		errs = append(errs, err)
	}
	if !c.Spring.Physics().Valid() {
		errs = append(errs, fmt.Errorf("spring: stiffness, damping and mass must be positive"))
	}
	if c.Scroll.Lerp <= 0 || c.Scroll.Lerp > 1 {
		errs = append(errs, fmt.Errorf("scroll.lerp %v outside (0,1]", c.Scroll.Lerp))
	}
	if c.Scroll.WheelMultiplier <= 0 || c.Scroll.TouchMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("scroll multipliers must be positive"))
	}
	if c.Scroll.DurationMS <= 0 {
		errs = append(errs, fmt.Errorf("scroll.duration_ms must be positive"))
	}
	for name, v := range map[string]float64{
		"master_volume": c.Audio.MasterVolume,
		"hover_volume":  c.Audio.HoverVolume,
		"click_volume":  c.Audio.ClickVolume,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("audio.%s %v outside [0,1]", name, v))
		}
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive"))
	}
	if c.Frame.Rate <= 0 || c.Frame.Rate > 240 {
		errs = append(errs, fmt.Errorf("frame.rate %d outside 1..240", c.Frame.Rate))
	}
	if _, err := c.Render.Mode(); err != nil {
		errs = append(errs, err)
	}
	if c.Render.CellWidth <= 0 || c.Render.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("render cell size must be positive"))
	}
	if c.Inspect.Enabled && c.Inspect.Addr == "" {
		errs = append(errs, fmt.Errorf("inspect.addr required when enabled"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

// PolicyValue returns the parsed pointer policy, auto when unparseable
func (p Pointer) PolicyValue() capability.Policy {
	pol, _ := capability.ParsePolicy(p.Policy)
	return pol
}

// Physics converts to the integrator's spring
func (s Spring) Physics() physics.Spring {
	return physics.Spring{
		Stiffness: s.Stiffness,
		Damping:   s.Damping,
		Mass:      s.Mass,
		RestSpeed: s.RestSpeed,
		RestDelta: s.RestDelta,
	}
}

// Controller converts to scroll controller settings
func (s Scroll) Controller() scroll.Config {
	cfg := scroll.DefaultConfig()
	cfg.Lerp = s.Lerp
	cfg.WheelMultiplier = s.WheelMultiplier
	cfg.TouchMultiplier = s.TouchMultiplier
	cfg.Duration = time.Duration(s.DurationMS) * time.Millisecond
	return cfg
}

// Player converts to audio player settings
func (a Audio) Player() audio.Config {
	return audio.Config{
		Enabled:      a.Enabled,
		SampleRate:   a.SampleRate,
		MasterVolume: a.MasterVolume,
		HoverVolume:  a.HoverVolume,
		ClickVolume:  a.ClickVolume,
	}
}

// Mode resolves the color mode; auto detects from the environment
func (r Render) Mode() (terminal.ColorMode, error) {
	switch strings.ToLower(r.ColorMode) {
	case "", "auto":
		return terminal.DetectColorMode(), nil
	case "256":
		return terminal.ColorMode256, nil
	case "truecolor", "24bit":
		return terminal.ColorModeTrueColor, nil
	}
	return terminal.ColorMode256, fmt.Errorf("render.color_mode %q: want auto, 256 or truecolor", r.ColorMode)
}

// Metric returns the cell size used to project cursor styles
func (r Render) Metric() appearance.Metric {
	return appearance.Metric{CellWidth: r.CellWidth, CellHeight: r.CellHeight}
}
