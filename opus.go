package radix

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

const (
	// NumChannels is the number of MIDI channels an opus can use.
	NumChannels = 16

	DefaultTempo     = 120
	DefaultBeatCount = 4
)

type (
	// Opus is a whole song: on each of the 16 channels, any number of lines,
	// each line being a row of BeatCount beats. Every line of every channel
	// has exactly BeatCount beats, so a beat index addresses the same moment
	// on every line. Radix is the base the notation of the opus is written
	// in and Tempo is in beats per minute.
	Opus struct {
		Radix     int
		Tempo     int
		BeatCount int
		Channels  [NumChannels][]Line
		Links     LinkPools
	}

	// Line is a row of beats, each beat being the root of a grouping tree.
	Line []*Grouping
)

// NewOpus returns an opus with the default radix, tempo and beat count and a
// single empty line on channel 0.
func NewOpus() *Opus {
	o := &Opus{Radix: DefaultRadix, Tempo: DefaultTempo, BeatCount: DefaultBeatCount}
	o.Channels[0] = []Line{NewLine(o.BeatCount)}
	return o
}

// NewLine returns a line of n unset beats.
func NewLine(n int) Line {
	ret := make(Line, n)
	for i := range ret {
		ret[i] = NewGrouping()
	}
	return ret
}

func (l Line) Copy() Line {
	if l == nil {
		return nil
	}
	ret := make(Line, len(l))
	for i, b := range l {
		ret[i] = b.Copy()
	}
	return ret
}

func (o *Opus) Copy() *Opus {
	ret := &Opus{Radix: o.Radix, Tempo: o.Tempo, BeatCount: o.BeatCount, Links: o.Links.Copy()}
	for c, lines := range o.Channels {
		if lines == nil {
			continue
		}
		ret.Channels[c] = make([]Line, len(lines))
		for i, l := range lines {
			ret.Channels[c][i] = l.Copy()
		}
	}
	return ret
}

// Equal reports whether the two opuses have the same settings, lines and
// link pools.
func (o *Opus) Equal(other *Opus) bool {
	if o.Radix != other.Radix || o.Tempo != other.Tempo || o.BeatCount != other.BeatCount {
		return false
	}
	for c := range o.Channels {
		if !slices.EqualFunc(o.Channels[c], other.Channels[c], Line.Equal) {
			return false
		}
	}
	return slices.EqualFunc(o.Links.Pools(), other.Links.Pools(), func(a, b []BeatKey) bool {
		return slices.Equal(a, b)
	})
}

func (l Line) Equal(other Line) bool {
	return slices.EqualFunc(l, other, (*Grouping).Equal)
}

// LineCount returns the total number of lines over all channels.
func (o *Opus) LineCount() int {
	n := 0
	for _, lines := range o.Channels {
		n += len(lines)
	}
	return n
}

// ValidKey reports whether key addresses an existing beat.
func (o *Opus) ValidKey(key BeatKey) bool {
	return key.Channel >= 0 && key.Channel < NumChannels &&
		key.Line >= 0 && key.Line < len(o.Channels[key.Channel]) &&
		key.Beat >= 0 && key.Beat < len(o.Channels[key.Channel][key.Line])
}

// Beat returns the root grouping of the beat at key.
func (o *Opus) Beat(key BeatKey) (*Grouping, error) {
	if !o.ValidKey(key) {
		return nil, fmt.Errorf("%w: beat %+v", ErrInvalidPosition, key)
	}
	return o.Channels[key.Channel][key.Line][key.Beat], nil
}

// Grouping returns the node at path pos inside the beat at key.
func (o *Opus) Grouping(key BeatKey, pos []int) (*Grouping, error) {
	beat, err := o.Beat(key)
	if err != nil {
		return nil, err
	}
	return beat.Get(pos)
}

// Keys returns the keys of every beat of the opus, in channel, line, beat
// order.
func (o *Opus) Keys() []BeatKey {
	var ret []BeatKey
	for c, lines := range o.Channels {
		for l, line := range lines {
			for b := range line {
				ret = append(ret, BeatKey{Channel: c, Line: l, Beat: b})
			}
		}
	}
	return ret
}

type (
	opusYAML struct {
		Radix    int           `yaml:"radix"`
		Tempo    int           `yaml:"tempo"`
		Beats    int           `yaml:"beats"`
		Channels []channelYAML `yaml:"channels,omitempty"`
		Links    [][]BeatKey   `yaml:"links,omitempty"`
	}

	channelYAML struct {
		Channel int        `yaml:"channel"`
		Lines   []string   `yaml:"lines"`
		Bends   []bendYAML `yaml:"bends,omitempty"`
	}

	// bendYAML is a pitch bend of one event. The notation has no way to
	// write bends, so they are stored next to the lines.
	bendYAML struct {
		Line     int   `yaml:"line"`
		Beat     int   `yaml:"beat"`
		Position []int `yaml:"position,flow"`
		Event    int   `yaml:"event"`
		Bend     int   `yaml:"bend"`
	}
)

var errBadOpus = errors.New("invalid opus")

// MarshalYAML stores every line as the notation of its beats, and the pitch
// bends of the channel as a separate list.
func (o *Opus) MarshalYAML() (interface{}, error) {
	ret := opusYAML{Radix: o.Radix, Tempo: o.Tempo, Beats: o.BeatCount, Links: o.Links.Pools()}
	for c, lines := range o.Channels {
		if len(lines) == 0 {
			continue
		}
		ch := channelYAML{Channel: c, Lines: make([]string, len(lines))}
		for i, l := range lines {
			l, bends := stripBends(l)
			s, err := FormatBeats(l, o.Radix)
			if err != nil {
				return nil, fmt.Errorf("channel %d line %d: %w", c, i, err)
			}
			ch.Lines[i] = s
			for _, b := range bends {
				b.Line = i
				ch.Bends = append(ch.Bends, b)
			}
		}
		ret.Channels = append(ret.Channels, ch)
	}
	return ret, nil
}

// UnmarshalYAML reads an opus written by MarshalYAML. Missing radix, tempo
// and beat count get their defaults; lines shorter than the beat count are
// padded with unset beats and a longer line extends the beat count.
func (o *Opus) UnmarshalYAML(value *yaml.Node) error {
	var y opusYAML
	if err := value.Decode(&y); err != nil {
		return err
	}
	ret := Opus{Radix: y.Radix, Tempo: y.Tempo, BeatCount: y.Beats}
	if ret.Radix == 0 {
		ret.Radix = DefaultRadix
	}
	if ret.Tempo == 0 {
		ret.Tempo = DefaultTempo
	}
	for _, ch := range y.Channels {
		if ch.Channel < 0 || ch.Channel >= NumChannels {
			return fmt.Errorf("%w: channel %d out of range", errBadOpus, ch.Channel)
		}
		lines := make([]Line, len(ch.Lines))
		for i, s := range ch.Lines {
			beats, err := ParseBeats(s, ret.Radix)
			if err != nil {
				return fmt.Errorf("channel %d line %d: %w", ch.Channel, i, err)
			}
			lines[i] = beats
		}
		for _, b := range ch.Bends {
			if err := applyBend(lines, b); err != nil {
				return fmt.Errorf("channel %d: %w", ch.Channel, err)
			}
		}
		ret.Channels[ch.Channel] = append(ret.Channels[ch.Channel], lines...)
	}
	ret.normalize()
	for _, pool := range y.Links {
		if len(pool) < 2 {
			continue
		}
		for _, k := range pool {
			if !ret.ValidKey(k) {
				return fmt.Errorf("%w: linked beat %+v does not exist", errBadOpus, k)
			}
		}
		for _, k := range pool[1:] {
			ret.Links.Link(k, pool[0])
		}
	}
	*o = ret
	return nil
}

// stripBends returns the line without pitch bends, along with the bends it
// had. The line itself is copied only if it has bends.
func stripBends(l Line) (Line, []bendYAML) {
	var ret Line
	var bends []bendYAML
	for b, beat := range l {
		for _, path := range beat.LeafPaths() {
			leaf, _ := beat.Get(path)
			for j, e := range leaf.events {
				if e.Bend == 0 {
					continue
				}
				if ret == nil {
					ret = l.Copy()
				}
				bends = append(bends, bendYAML{Beat: b, Position: path, Event: j, Bend: e.Bend})
				stripped, _ := ret[b].Get(path)
				stripped.events[j].Bend = 0
			}
		}
	}
	if ret == nil {
		return l, nil
	}
	return ret, bends
}

func applyBend(lines []Line, b bendYAML) error {
	if b.Line < 0 || b.Line >= len(lines) || b.Beat < 0 || b.Beat >= len(lines[b.Line]) {
		return fmt.Errorf("%w: bend of line %d beat %d", errBadOpus, b.Line, b.Beat)
	}
	leaf, err := lines[b.Line][b.Beat].Get(b.Position)
	if err != nil {
		return err
	}
	if b.Event < 0 || b.Event >= len(leaf.events) || leaf.state != EventState {
		return fmt.Errorf("%w: bend of line %d beat %d position %v has no event %d", errBadOpus, b.Line, b.Beat, b.Position, b.Event)
	}
	leaf.events[b.Event].Bend = b.Bend
	return nil
}

// normalize makes every line BeatCount long and ensures there is at least
// one line and one beat.
func (o *Opus) normalize() {
	for _, lines := range o.Channels {
		for _, l := range lines {
			o.BeatCount = max(o.BeatCount, len(l))
		}
	}
	o.BeatCount = max(o.BeatCount, 1)
	if o.LineCount() == 0 {
		o.Channels[0] = []Line{nil}
	}
	for _, lines := range o.Channels {
		for i, l := range lines {
			for len(l) < o.BeatCount {
				l = append(l, NewGrouping())
			}
			lines[i] = l
		}
	}
}
