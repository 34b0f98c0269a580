package tracker

import "github.com/qfs/radix"

type (
	Int struct {
		IntData
	}

	IntData interface {
		Value() int
		Range() intRange

		setValue(int)
	}

	intRange struct {
		Min, Max int
	}

	SplitCount Model
	Octave     Model
	Tempo      Model
)

func (v Int) Add(delta int) (ok bool) {
	return v.Set(v.Value() + delta)
}

func (v Int) Set(value int) (ok bool) {
	value = v.Range().Clamp(value)
	if value == v.Value() {
		return false
	}
	v.setValue(value)
	return true
}

func (r intRange) Clamp(value int) int {
	return max(min(value, r.Max), r.Min)
}

// Model methods

func (m *Model) SplitCount() *SplitCount { return (*SplitCount)(m) }
func (m *Model) Octave() *Octave         { return (*Octave)(m) }
func (m *Model) Tempo() *Tempo           { return (*Tempo)(m) }

// SplitCountInt: the number of children SplitAtCursor makes

func (v *SplitCount) Int() Int           { return Int{v} }
func (v *SplitCount) Value() int         { return max(v.splitCount, 2) }
func (v *SplitCount) setValue(value int) { v.splitCount = value }
func (v *SplitCount) Range() intRange    { return intRange{2, v.d.Opus.Radix - 1} }

// OctaveInt: the octave of the events entered with note keys

func (v *Octave) Int() Int           { return Int{v} }
func (v *Octave) Value() int         { return v.octave }
func (v *Octave) setValue(value int) { v.octave = value }
func (v *Octave) Range() intRange    { return intRange{0, v.d.Opus.Radix - 1} }

// TempoInt

func (v *Tempo) Int() Int        { return Int{v} }
func (v *Tempo) Value() int      { return v.d.Opus.Tempo }
func (v *Tempo) Range() intRange { return intRange{1, 999} }
func (v *Tempo) setValue(value int) {
	v.d.Opus.Tempo = value
	v.d.ChangedSinceSave = true
	v.changedSinceRecovery = true
}

// EventForNote returns the event a note key enters: note in the current
// octave, or note semitones up from the previous pitch when relative entry
// is on.
func (m *Model) EventForNote(note int) radix.Event {
	if m.relative {
		return radix.Event{Note: note, Relative: true}
	}
	return radix.Event{Octave: m.octave, Note: note}
}
