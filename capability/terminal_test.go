package capability

import (
	"errors"
	"testing"
)

type stubProber struct{ mouse bool }

func (p *stubProber) HasMouse() bool { return p.mouse }

func newTestTerminal(env map[string]string, tty bool, prober MouseProber) *Terminal {
	t := NewTerminal(prober)
	t.getenv = func(k string) string { return env[k] }
	t.isTTY = func() bool { return tty }
	return t
}

func TestTerminalFine(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		tty     bool
		prober  MouseProber
		want    bool
		wantErr error
	}{
		{"xterm with mouse", map[string]string{"TERM": "xterm-256color"}, true, &stubProber{true}, true, nil},
		{"xterm without mouse", map[string]string{"TERM": "xterm-256color"}, true, &stubProber{false}, false, nil},
		{"dumb", map[string]string{"TERM": "dumb"}, true, &stubProber{true}, false, nil},
		{"unset TERM", map[string]string{}, true, &stubProber{true}, false, nil},
		{"console without gpm", map[string]string{"TERM": "linux"}, true, &stubProber{true}, false, nil},
		{"console with gpm", map[string]string{"TERM": "linux", "GPM_TTY": "/dev/tty1"}, true, &stubProber{true}, true, nil},
		{"not a tty", map[string]string{"TERM": "xterm"}, false, &stubProber{true}, false, ErrNotTerminal},
		{"no screen yet", map[string]string{"TERM": "xterm"}, true, nil, false, ErrNoSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newTestTerminal(tt.env, tt.tty, tt.prober)
			got, err := src.Fine()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fine() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Fine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTerminalRecheckNotifiesOnChange(t *testing.T) {
	prober := &stubProber{mouse: true}
	src := newTestTerminal(map[string]string{"TERM": "xterm"}, true, prober)
	defer src.Close()

	var reports []bool
	cancel := src.Watch(func(fine bool) { reports = append(reports, fine) })
	defer cancel()

	src.Recheck()
	src.Recheck() // unchanged
	prober.mouse = false
	src.Recheck()

	if len(reports) != 2 || !reports[0] || reports[1] {
		t.Errorf("reports = %v, want [true false]", reports)
	}
}

func TestTerminalSetProberRechecks(t *testing.T) {
	src := newTestTerminal(map[string]string{"TERM": "xterm"}, true, nil)
	defer src.Close()

	g := NewGate(src)
	g.Start()
	defer g.Stop()

	if g.Active() {
		t.Fatal("gate active before screen exists")
	}

	src.SetProber(&stubProber{mouse: true})
	if !g.Active() {
		t.Error("gate did not activate once the screen reported mouse support")
	}
}

func TestTerminalCloseIdempotent(t *testing.T) {
	src := newTestTerminal(nil, true, nil)
	src.Close()
	src.Close()
}
