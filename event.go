package radix

import "fmt"

// SemitonesPerOctave is used to turn an (octave, note) pair into a pitch,
// independently of the radix the notation is written in.
const SemitonesPerOctave = 12

// Event is a single note sounding for the duration of the leaf that holds it.
// An absolute event has pitch Note + 12*Octave. A relative event is an
// offset of 12*Octave + Note semitones from the previous pitch of the same
// line. Bend nudges the pitch with a pitch wheel change while the leaf
// sounds; zero means no bend.
type Event struct {
	Octave   int  `yaml:",omitempty"`
	Note     int  `yaml:",omitempty"`
	Bend     int  `yaml:",omitempty"`
	Relative bool `yaml:",omitempty"`
}

// Offset returns the interval encoded by the event, in semitones.
func (e Event) Offset() int {
	return e.Note + SemitonesPerOctave*e.Octave
}

// Pitch resolves the event to a pitch, given the previous pitch of the line.
// prev is ignored for absolute events.
func (e Event) Pitch(prev int) int {
	if e.Relative {
		return prev + e.Offset()
	}
	return e.Offset()
}

func (e Event) String() string {
	if e.Relative {
		return fmt.Sprintf("%+d", e.Offset())
	}
	if e.Bend != 0 {
		return fmt.Sprintf("%d:%d%+d", e.Octave, e.Note, e.Bend)
	}
	return fmt.Sprintf("%d:%d", e.Octave, e.Note)
}
