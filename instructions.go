package radix

import (
	"cmp"
	"fmt"

	"golang.org/x/exp/slices"
)

type (
	// Instruction is one timestamped playback message. Tick 0 is the start of
	// the opus and ticks advance by the pulses-per-quarter-note for every
	// beat. Pitch and Velocity are used by note instructions, Value by pitch
	// bends.
	Instruction struct {
		Kind     InstructionKind
		Tick     int
		Channel  int
		Pitch    int
		Velocity int
		Value    int
	}

	InstructionKind int
)

const (
	NoteOn InstructionKind = iota
	NoteOff
	PitchBend
)

const (
	DefaultPPQN     = 480
	DefaultVelocity = 64
)

func (k InstructionKind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	case PitchBend:
		return "PitchBend"
	}
	return fmt.Sprintf("InstructionKind(%d)", int(k))
}

func (i Instruction) String() string {
	if i.Kind == PitchBend {
		return fmt.Sprintf("%v(ch=%d, value=%d)@%d", i.Kind, i.Channel, i.Value, i.Tick)
	}
	return fmt.Sprintf("%v(ch=%d, pitch=%d, vel=%d)@%d", i.Kind, i.Channel, i.Pitch, i.Velocity, i.Tick)
}

// TrackInstructions flattens a line of beats into playback instructions.
// Every beat lasts ppqn ticks, divided equally among its leaves. A leaf with
// events silences every note still sounding before starting its own; notes
// still sounding at the end of a beat are released at the end tick. Relative
// events are resolved against the pitch of the last note started on the line,
// starting from 0.
func TrackInstructions(beats []*Grouping, channel, ppqn int) []Instruction {
	var ret []Instruction
	var sounding []int
	prev := 0
	for b, beat := range beats {
		start := b * ppqn
		leaves := beat.Flatten()
		bendReset := false
		for i, leaf := range leaves {
			tick := start + int(float64(i)*float64(ppqn)/float64(len(leaves)))
			if bendReset {
				ret = append(ret, Instruction{Kind: PitchBend, Tick: tick, Channel: channel})
				bendReset = false
			}
			if !leaf.IsEvent() {
				continue
			}
			ret = releaseAll(ret, sounding, tick, channel)
			sounding = sounding[:0]
			for _, e := range leaf.events {
				pitch := e.Pitch(prev)
				prev = pitch
				ret = append(ret, Instruction{Kind: NoteOn, Tick: tick, Channel: channel, Pitch: pitch, Velocity: DefaultVelocity})
				sounding = append(sounding, pitch)
				if e.Bend != 0 {
					ret = append(ret, Instruction{Kind: PitchBend, Tick: tick, Channel: channel, Value: e.Bend})
					bendReset = true
				}
			}
		}
		end := start + ppqn
		if bendReset {
			ret = append(ret, Instruction{Kind: PitchBend, Tick: end, Channel: channel})
		}
		ret = releaseAll(ret, sounding, end, channel)
		sounding = sounding[:0]
	}
	return ret
}

// releaseAll emits note offs for the sounding notes, latest first.
func releaseAll(ret []Instruction, sounding []int, tick, channel int) []Instruction {
	for i := len(sounding) - 1; i >= 0; i-- {
		ret = append(ret, Instruction{Kind: NoteOff, Tick: tick, Channel: channel, Pitch: sounding[i]})
	}
	return ret
}

// Instructions flattens every line of the opus and merges the results in
// tick order. Instructions with the same tick keep channel, then line order.
func (o *Opus) Instructions(ppqn int) []Instruction {
	var ret []Instruction
	for c, lines := range o.Channels {
		for _, line := range lines {
			ret = append(ret, TrackInstructions(line, c, ppqn)...)
		}
	}
	slices.SortStableFunc(ret, func(a, b Instruction) int { return cmp.Compare(a.Tick, b.Tick) })
	return ret
}
