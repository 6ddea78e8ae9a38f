// Package cursor holds the shared decorated-cursor state: the current mode and
// optional label written by interactive elements and read by the renderer
package cursor

import "strings"

// Mode is the decorative state of the pointer indicator
type Mode uint8

const (
	ModeDefault Mode = iota
	ModeButton
	ModeText
	ModeCrosshair
)

// modeCount bounds the valid range; values at or beyond it are unrecognized
const modeCount = 4

// Valid reports whether m is one of the enumerated modes
func (m Mode) Valid() bool {
	return m < modeCount
}

// Normalize maps unrecognized modes to ModeDefault
func (m Mode) Normalize() Mode {
	if !m.Valid() {
		return ModeDefault
	}
	return m
}

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeButton:
		return "button"
	case ModeText:
		return "text"
	case ModeCrosshair:
		return "crosshair"
	default:
		return "default"
	}
}

// ParseMode converts a mode name; unknown names yield ModeDefault
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "button", "pointer", "link":
		return ModeButton
	case "text":
		return ModeText
	case "crosshair", "cross":
		return ModeCrosshair
	default:
		return ModeDefault
	}
}
