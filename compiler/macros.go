package compiler

import (
	"fmt"

	"github.com/qfs/radix"
)

type (
	OpusMacros struct {
		Opus         *radix.Opus
		PPQN         int
		Lines        []LineMacros
		Patterns     *PatternTable
		Instructions []radix.Instruction
	}

	LineMacros struct {
		Channel      int
		Line         int
		Notation     string
		Linked       []int // indices of the beats in a link pool
		Instructions []radix.Instruction
	}
)

func NewOpusMacros(o *radix.Opus, ppqn int) (*OpusMacros, error) {
	if ppqn <= 0 {
		return nil, fmt.Errorf("invalid ppqn %d", ppqn)
	}
	patterns, err := ConstructPatterns(o)
	if err != nil {
		return nil, err
	}
	p := OpusMacros{Opus: o, PPQN: ppqn, Patterns: patterns, Instructions: o.Instructions(ppqn)}
	for c, lines := range o.Channels {
		for l, line := range lines {
			notation, err := radix.FormatBeats(line, o.Radix)
			if err != nil {
				return nil, fmt.Errorf("channel %d line %d: %w", c, l, err)
			}
			lm := LineMacros{Channel: c, Line: l, Notation: notation, Instructions: radix.TrackInstructions(line, c, ppqn)}
			for b := range line {
				if o.Links.IsLinked(radix.BeatKey{Channel: c, Line: l, Beat: b}) {
					lm.Linked = append(lm.Linked, b)
				}
			}
			p.Lines = append(p.Lines, lm)
		}
	}
	return &p, nil
}

// Seconds is the playing time of the opus.
func (p *OpusMacros) Seconds() float64 {
	if p.Opus.Tempo <= 0 {
		return 0
	}
	return float64(p.Opus.BeatCount) * 60 / float64(p.Opus.Tempo)
}

func (p *OpusMacros) NoteCount() int {
	n := 0
	for _, i := range p.Instructions {
		if i.Kind == radix.NoteOn {
			n++
		}
	}
	return n
}

func (p *OpusMacros) PitchRange() string {
	lo, hi := -1, -1
	for _, i := range p.Instructions {
		if i.Kind != radix.NoteOn {
			continue
		}
		if lo == -1 || i.Pitch < lo {
			lo = i.Pitch
		}
		if hi == -1 || i.Pitch > hi {
			hi = i.Pitch
		}
	}
	if lo == -1 {
		return "none"
	}
	return fmt.Sprintf("%d..%d", lo, hi)
}
