package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue identifies an interaction sound
type Cue uint8

const (
	CueHover Cue = iota
	CueClick
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueHover:
		return "hover"
	case CueClick:
		return "click"
	default:
		return "unknown"
	}
}

// Cue timing
const (
	HoverDuration = 60 * time.Millisecond
	HoverAttack   = 4 * time.Millisecond
	HoverRelease  = 45 * time.Millisecond

	ClickNoteDuration = 40 * time.Millisecond
	ClickAttack       = 2 * time.Millisecond
	ClickRelease      = 30 * time.Millisecond
)

// newCueStreamer synthesizes a cue at unit volume
func newCueStreamer(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueHover:
		// Soft high tick
		tone := NewOscillator(1318.51, HoverDuration, WaveSine, rate)
		return NewEnvelope(tone, HoverDuration, HoverAttack, HoverRelease, rate)

	case CueClick:
		// Two short descending notes
		n1 := NewEnvelope(NewOscillator(987.77, ClickNoteDuration, WaveTriangle, rate),
			ClickNoteDuration, ClickAttack, ClickRelease, rate)
		n2 := NewEnvelope(NewOscillator(659.25, ClickNoteDuration, WaveTriangle, rate),
			ClickNoteDuration, ClickAttack, ClickRelease, rate)
		return beep.Seq(n1, n2)
	}
	return nil
}

// cueLength is the sample count of a cue at rate
func cueLength(c Cue, rate beep.SampleRate) int {
	switch c {
	case CueHover:
		return rate.N(HoverDuration)
	case CueClick:
		return 2 * rate.N(ClickNoteDuration)
	}
	return 0
}
