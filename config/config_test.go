package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/folio/capability"
	"github.com/lixenwraith/folio/terminal"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Spring.Stiffness != 200 || cfg.Spring.Damping != 25 || cfg.Spring.Mass != 0.3 {
		t.Errorf("spring defaults = %+v", cfg.Spring)
	}
	if cfg.Scroll.Lerp != 0.08 || cfg.Scroll.TouchMultiplier != 2 || cfg.Scroll.DurationMS != 700 {
		t.Errorf("scroll defaults = %+v", cfg.Scroll)
	}
	if cfg.Audio.HoverVolume != 0.2 || cfg.Audio.ClickVolume != 0.5 {
		t.Errorf("audio defaults = %+v", cfg.Audio)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	data := []byte(`
[pointer]
policy = "coarse"

[spring]
stiffness = 150.0

[scroll]
duration_ms = 900

[render]
color_mode = "256"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() = %v", err)
	}
	if cfg.Pointer.PolicyValue() != capability.PolicyCoarse {
		t.Errorf("policy = %v", cfg.Pointer.PolicyValue())
	}
	if cfg.Spring.Stiffness != 150 {
		t.Errorf("stiffness = %v", cfg.Spring.Stiffness)
	}
	// Untouched keys keep defaults
	if cfg.Spring.Damping != 25 || cfg.Scroll.Lerp != 0.08 {
		t.Errorf("defaults lost: damping %v lerp %v", cfg.Spring.Damping, cfg.Scroll.Lerp)
	}
	if got := cfg.Scroll.Controller().Duration; got != 900*time.Millisecond {
		t.Errorf("controller duration = %v", got)
	}
	if mode, _ := cfg.Render.Mode(); mode != terminal.ColorMode256 {
		t.Errorf("color mode = %v", mode)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse([]byte("[spring\nstiffness = "))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("Parse(malformed) = %v, want ErrConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad policy", func(c *Config) { c.Pointer.Policy = "sideways" }},
		{"zero stiffness", func(c *Config) { c.Spring.Stiffness = 0 }},
		{"lerp above one", func(c *Config) { c.Scroll.Lerp = 1.5 }},
		{"negative multiplier", func(c *Config) { c.Scroll.WheelMultiplier = -1 }},
		{"zero duration", func(c *Config) { c.Scroll.DurationMS = 0 }},
		{"loud click", func(c *Config) { c.Audio.ClickVolume = 2 }},
		{"frame rate", func(c *Config) { c.Frame.Rate = 0 }},
		{"color mode", func(c *Config) { c.Render.ColorMode = "16" }},
		{"inspect without addr", func(c *Config) { c.Inspect.Enabled = true; c.Inspect.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrConfig) {
				t.Errorf("Validate() = %v, want ErrConfig", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"FOLIO_POINTER_POLICY":     "fine",
		"FOLIO_SPRING_DAMPING":     "30",
		"FOLIO_SCROLL_DURATION_MS": "500",
		"FOLIO_AUDIO_MUTED":        "true",
		"FOLIO_INSPECT_ADDR":       "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() = %v", err)
	}
	if cfg.Pointer.Policy != "fine" || cfg.Spring.Damping != 30 || cfg.Scroll.DurationMS != 500 || !cfg.Audio.Muted {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Inspect.Addr != Default().Inspect.Addr {
		t.Errorf("empty env value overwrote addr: %q", cfg.Inspect.Addr)
	}

	env["FOLIO_FRAME_RATE"] = "fast"
	if err := ApplyEnv(&cfg, lookup); !errors.Is(err, ErrConfig) {
		t.Errorf("ApplyEnv(bad int) = %v, want ErrConfig", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	if err := os.WriteFile(path, []byte("[spring]\nstiffness = 120.0\ndamping = 20.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_SPRING_DAMPING", "22")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Spring.Stiffness != 120 {
		t.Errorf("file value lost: stiffness %v", cfg.Spring.Stiffness)
	}
	if cfg.Spring.Damping != 22 {
		t.Errorf("env did not win: damping %v", cfg.Spring.Damping)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load(missing) = %v", err)
	}
	if cfg.Spring.Stiffness != Default().Spring.Stiffness {
		t.Error("missing file did not yield defaults")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("FOLIO_FRAME_RATE=30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FOLIO_FRAME_RATE", "")
	os.Unsetenv("FOLIO_FRAME_RATE")

	if err := LoadDotEnv(filepath.Join(dir, "absent.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() = %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Frame.Rate != 30 {
		t.Errorf("frame rate = %d, want 30 from .env", cfg.Frame.Rate)
	}

	vals, err := ReadDotEnv(path)
	if err != nil || vals["FOLIO_FRAME_RATE"] != "30" {
		t.Errorf("ReadDotEnv() = %v, %v", vals, err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Pointer.Policy = "coarse"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()) = %v", err)
	}
	if back != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, cfg)
	}
}

func TestWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	if err := os.WriteFile(path, []byte("[spring]\nstiffness = 100.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan Config, 4)
	w := NewWatcher(path, 20*time.Millisecond, func(c Config) { got <- c })
	if err := w.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[spring]\nstiffness = 300.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-got:
		if cfg.Spring.Stiffness != 300 {
			t.Errorf("reloaded stiffness = %v", cfg.Spring.Stiffness)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}

	if reloads, _ := w.Stats(); reloads == 0 {
		t.Error("reload not counted")
	}
}

func TestWatcherKeepsConfigOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan Config, 4)
	failed := make(chan error, 4)
	w := NewWatcher(path, 20*time.Millisecond, func(c Config) { changed <- c })
	w.OnError(func(err error) { failed <- err })
	if err := w.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("[frame]\nrate = -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-failed:
		if !errors.Is(err, ErrConfig) {
			t.Errorf("reload error = %v, want ErrConfig", err)
		}
	case c := <-changed:
		t.Fatalf("invalid config delivered: %+v", c)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload attempt after write")
	}
}

func TestWatcherStartBeforeInit(t *testing.T) {
	w := NewWatcher("folio.toml", 0, nil)
	if err := w.Start(); err == nil {
		t.Error("Start() before Init succeeded")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() on idle watcher = %v", err)
	}
}
