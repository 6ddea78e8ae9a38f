package terminal

import (
	"bytes"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func TestTranslateMouseSequence(t *testing.T) {
	var tr translator

	tests := []struct {
		name   string
		btn    tcell.ButtonMask
		button MouseButton
		action MouseAction
	}{
		{"hover", tcell.ButtonNone, MouseBtnNone, MouseActionMove},
		{"press", tcell.Button1, MouseBtnLeft, MouseActionPress},
		{"drag", tcell.Button1, MouseBtnLeft, MouseActionDrag},
		{"release", tcell.ButtonNone, MouseBtnLeft, MouseActionRelease},
		{"move again", tcell.ButtonNone, MouseBtnNone, MouseActionMove},
		{"wheel down", tcell.WheelDown, MouseBtnWheelDown, MouseActionWheel},
		{"wheel up", tcell.WheelUp, MouseBtnWheelUp, MouseActionWheel},
		{"right press", tcell.Button2, MouseBtnRight, MouseActionPress},
	}

	// Sequential: the translator carries held-button state across events
	for i, tt := range tests {
		ev := tr.translate(tcell.NewEventMouse(i, 2*i, tt.btn, tcell.ModNone))
		if ev.Type != EventMouse {
			t.Fatalf("%s: type = %v, want mouse", tt.name, ev.Type)
		}
		if ev.X != i || ev.Y != 2*i {
			t.Errorf("%s: position = (%d,%d)", tt.name, ev.X, ev.Y)
		}
		if ev.Button != tt.button || ev.Action != tt.action {
			t.Errorf("%s: got %v %v, want %v %v", tt.name, ev.Button, ev.Action, tt.button, tt.action)
		}
	}
}

func TestTranslateKeyAndResize(t *testing.T) {
	var tr translator

	key := tr.translate(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if key.Type != EventKey || key.Rune != 'q' || key.Key != tcell.KeyRune {
		t.Errorf("key event = %+v", key)
	}

	pg := tr.translate(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	if pg.Key != tcell.KeyPgDn {
		t.Errorf("page key = %v", pg.Key)
	}

	rs := tr.translate(tcell.NewEventResize(120, 40))
	if rs.Type != EventResize || rs.Width != 120 || rs.Height != 40 {
		t.Errorf("resize event = %+v", rs)
	}
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want ColorMode
	}{
		{"colorterm", map[string]string{"COLORTERM": "truecolor"}, ColorModeTrueColor},
		{"kitty", map[string]string{"KITTY_WINDOW_ID": "1"}, ColorModeTrueColor},
		{"direct term", map[string]string{"TERM": "xterm-direct"}, ColorModeTrueColor},
		{"plain xterm", map[string]string{"TERM": "xterm-256color"}, ColorMode256},
		{"empty", map[string]string{}, ColorMode256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectColorMode(func(k string) string { return tt.env[k] })
			if got != tt.want {
				t.Errorf("detectColorMode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmergencyResetWritesSequences(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)

	out := buf.String()
	for _, seq := range [][]byte{csiMouseMotionOff, csiCursorShow, csiAltScreenExit, csiSGR0} {
		if !bytes.Contains([]byte(out), seq) {
			t.Errorf("reset output missing %q", seq)
		}
	}
}

func TestServiceWithSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	svc := NewService(WithScreen(screen))

	if svc.Name() != "terminal" {
		t.Errorf("Name() = %q", svc.Name())
	}
	if err := svc.Init(true, ColorModeTrueColor); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if svc.ColorMode() != ColorModeTrueColor {
		t.Errorf("ColorMode() = %v, want truecolor from args", svc.ColorMode())
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	screen.InjectMouse(7, 3, tcell.ButtonNone, tcell.ModNone)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-svc.Events():
			if ev.Type != EventMouse {
				continue
			}
			if ev.X != 7 || ev.Y != 3 || ev.Action != MouseActionMove {
				t.Errorf("mouse event = %+v", ev)
			}
			goto stop
		case <-deadline:
			t.Fatal("no mouse event delivered")
		}
	}

stop:
	if err := svc.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
	if svc.Screen() != nil {
		t.Error("Screen() non-nil after Stop")
	}
	if svc.HasMouse() {
		t.Error("HasMouse() true after Stop")
	}
	// Idempotent
	if err := svc.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
}

func TestServiceStartBeforeInit(t *testing.T) {
	svc := NewService(WithScreen(tcell.NewSimulationScreen("UTF-8")))
	if err := svc.Start(); err == nil {
		t.Error("Start() before Init succeeded")
	}
}

func TestMouseNames(t *testing.T) {
	if MouseBtnWheelUp.String() != "WheelUp" || MouseActionDrag.String() != "Drag" {
		t.Error("unexpected names")
	}
	if MouseButton(99).String() != "None" || MouseAction(99).String() != "None" {
		t.Error("unknown values should read None")
	}
}

func TestPalette256(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"black", 0, 0, 0, 16},
		{"white", 255, 255, 255, 231},
		{"pure red", 255, 0, 0, 196},
		{"teal", 102, 252, 241, 87},
		{"mid gray", 128, 128, 128, 244},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Palette256(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("Palette256(%d,%d,%d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestColorModeEncoding(t *testing.T) {
	if got := ColorModeTrueColor.Color(1, 2, 3); got != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("truecolor encode = %v", got)
	}
	if got := ColorMode256.Color(255, 0, 0); got != tcell.PaletteColor(196) {
		t.Errorf("256 encode = %v", got)
	}
}
