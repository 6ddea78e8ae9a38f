package terminal

import "github.com/gdamore/tcell/v2"

// EventType classifies terminal events
type EventType uint8

const (
	EventNone EventType = iota
	EventKey
	EventMouse
	EventResize
	EventFocus
	EventClosed
)

// MouseButton represents mouse button identity
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
)

// MouseAction represents the type of mouse event
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
	MouseActionWheel
)

// String returns human-readable button name
func (b MouseButton) String() string {
	switch b {
	case MouseBtnLeft:
		return "Left"
	case MouseBtnMiddle:
		return "Middle"
	case MouseBtnRight:
		return "Right"
	case MouseBtnWheelUp:
		return "WheelUp"
	case MouseBtnWheelDown:
		return "WheelDown"
	default:
		return "None"
	}
}

// String returns human-readable action name
func (a MouseAction) String() string {
	switch a {
	case MouseActionPress:
		return "Press"
	case MouseActionRelease:
		return "Release"
	case MouseActionMove:
		return "Move"
	case MouseActionDrag:
		return "Drag"
	case MouseActionWheel:
		return "Wheel"
	default:
		return "None"
	}
}

// Event is a translated terminal event
type Event struct {
	Type EventType

	// Key events
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask

	// Mouse events, in screen cells
	X, Y   int
	Button MouseButton
	Action MouseAction

	// Resize events
	Width, Height int

	// Focus events
	Focused bool
}

// translator tracks held buttons to tell press, drag and release apart
// tcell reports button state, not transitions
type translator struct {
	held MouseButton
}

func (t *translator) translate(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{
			Type: EventKey,
			Key:  e.Key(),
			Rune: e.Rune(),
			Mod:  e.Modifiers(),
		}

	case *tcell.EventMouse:
		x, y := e.Position()
		out := Event{Type: EventMouse, X: x, Y: y, Mod: e.Modifiers()}
		btn := e.Buttons()

		switch {
		case btn&tcell.WheelUp != 0:
			out.Button, out.Action = MouseBtnWheelUp, MouseActionWheel
		case btn&tcell.WheelDown != 0:
			out.Button, out.Action = MouseBtnWheelDown, MouseActionWheel
		default:
			pressed := buttonOf(btn)
			switch {
			case pressed != MouseBtnNone && t.held == MouseBtnNone:
				out.Button, out.Action = pressed, MouseActionPress
			case pressed != MouseBtnNone:
				out.Button, out.Action = pressed, MouseActionDrag
			case t.held != MouseBtnNone:
				out.Button, out.Action = t.held, MouseActionRelease
			default:
				out.Action = MouseActionMove
			}
			t.held = pressed
		}
		return out

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}

	case *tcell.EventFocus:
		return Event{Type: EventFocus, Focused: e.Focused}
	}
	return Event{Type: EventNone}
}

func buttonOf(b tcell.ButtonMask) MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return MouseBtnLeft
	case b&tcell.Button3 != 0:
		return MouseBtnMiddle
	case b&tcell.Button2 != 0:
		return MouseBtnRight
	}
	return MouseBtnNone
}
