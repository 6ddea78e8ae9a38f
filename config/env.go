package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "FOLIO_"

type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

func floatVar(dst func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}
}

func intVar(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func boolVar(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func stringVar(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

var envBindings = []envBinding{
	{"POINTER_POLICY", stringVar(func(c *Config) *string { return &c.Pointer.Policy })},

	{"SPRING_STIFFNESS", floatVar(func(c *Config) *float64 { return &c.Spring.Stiffness })},
	{"SPRING_DAMPING", floatVar(func(c *Config) *float64 { return &c.Spring.Damping })},
	{"SPRING_MASS", floatVar(func(c *Config) *float64 { return &c.Spring.Mass })},

	{"SCROLL_LERP", floatVar(func(c *Config) *float64 { return &c.Scroll.Lerp })},
	{"SCROLL_WHEEL_MULTIPLIER", floatVar(func(c *Config) *float64 { return &c.Scroll.WheelMultiplier })},
	{"SCROLL_TOUCH_MULTIPLIER", floatVar(func(c *Config) *float64 { return &c.Scroll.TouchMultiplier })},
	{"SCROLL_DURATION_MS", intVar(func(c *Config) *int { return &c.Scroll.DurationMS })},

	{"AUDIO_ENABLED", boolVar(func(c *Config) *bool { return &c.Audio.Enabled })},
	{"AUDIO_MUTED", boolVar(func(c *Config) *bool { return &c.Audio.Muted })},
	{"AUDIO_MASTER_VOLUME", floatVar(func(c *Config) *float64 { return &c.Audio.MasterVolume })},
	{"AUDIO_HOVER_VOLUME", floatVar(func(c *Config) *float64 { return &c.Audio.HoverVolume })},
	{"AUDIO_CLICK_VOLUME", floatVar(func(c *Config) *float64 { return &c.Audio.ClickVolume })},

	{"FRAME_RATE", intVar(func(c *Config) *int { return &c.Frame.Rate })},

	{"RENDER_COLOR_MODE", stringVar(func(c *Config) *string { return &c.Render.ColorMode })},

	{"INSPECT_ENABLED", boolVar(func(c *Config) *bool { return &c.Inspect.Enabled })},
	{"INSPECT_ADDR", stringVar(func(c *Config) *string { return &c.Inspect.Addr })},
}

// EnvNames lists the recognized environment variables
func EnvNames() []string {
	names := make([]string, len(envBindings))
	for i, b := range envBindings {
		names[i] = EnvPrefix + b.name
	}
	return names
}

// ApplyEnv overlays FOLIO_* variables onto cfg
// Empty values are treated as unset
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.set(cfg, v); err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, b.name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrConfig, errors.Join(errs...))
	}
	return nil
}

// LoadDotEnv reads .env style files into the process environment
// Variables already set win; missing files are skipped
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ReadDotEnv parses a .env file without touching the process environment
func ReadDotEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}
