package tracker

import (
	"github.com/qfs/radix"
	"golang.org/x/exp/slices"
)

// Cursor points at a leaf grouping: Position is the path from the root of
// the beat at Key to the leaf.
type Cursor struct {
	Key      radix.BeatKey `yaml:"key"`
	Position []int         `yaml:"position,flow"`
}

func (c Cursor) Copy() Cursor {
	return Cursor{Key: c.Key, Position: slices.Clone(c.Position)}
}

func (c Cursor) Equal(other Cursor) bool {
	return c.Key == other.Key && slices.Equal(c.Position, other.Position)
}

type lineRef struct{ channel, line int }

// lines lists every line of the opus, in channel order.
func lines(o *radix.Opus) []lineRef {
	var ret []lineRef
	for c, ls := range o.Channels {
		for l := range ls {
			ret = append(ret, lineRef{c, l})
		}
	}
	return ret
}

func (m *Model) Cursor() Cursor { return m.d.Cursor.Copy() }

// SetCursor moves the cursor, clamping it to the closest existing leaf.
func (m *Model) SetCursor(c Cursor) {
	m.d.Cursor = c.Copy()
	m.clampCursor()
}

func (m *Model) MoveRight() {
	c := &m.d.Cursor
	beat, err := m.d.Opus.Beat(c.Key)
	if err != nil {
		return
	}
	paths := beat.LeafPaths()
	if i := indexOfPath(paths, c.Position); i >= 0 && i+1 < len(paths) {
		c.Position = paths[i+1]
		return
	}
	if c.Key.Beat+1 < m.d.Opus.BeatCount {
		c.Key.Beat++
		c.Position = nil
		m.clampCursor()
	}
}

func (m *Model) MoveLeft() {
	c := &m.d.Cursor
	beat, err := m.d.Opus.Beat(c.Key)
	if err != nil {
		return
	}
	paths := beat.LeafPaths()
	if i := indexOfPath(paths, c.Position); i > 0 {
		c.Position = paths[i-1]
		return
	}
	if c.Key.Beat > 0 {
		c.Key.Beat--
		prev, _ := m.d.Opus.Beat(c.Key)
		prevPaths := prev.LeafPaths()
		c.Position = prevPaths[len(prevPaths)-1]
	}
}

func (m *Model) MoveDown() { m.moveLine(1) }
func (m *Model) MoveUp()   { m.moveLine(-1) }

func (m *Model) moveLine(delta int) {
	ls := lines(m.d.Opus)
	i := slices.Index(ls, lineRef{m.d.Cursor.Key.Channel, m.d.Cursor.Key.Line})
	if i < 0 || i+delta < 0 || i+delta >= len(ls) {
		return
	}
	m.d.Cursor.Key.Channel = ls[i+delta].channel
	m.d.Cursor.Key.Line = ls[i+delta].line
	m.clampCursor()
}

// clampCursor moves the cursor to the closest leaf of the opus: first to an
// existing line and beat, then along the position path as deep as the tree
// allows, and finally down the first children to a leaf.
func (m *Model) clampCursor() {
	c := &m.d.Cursor
	o := m.d.Opus
	c.Key.Channel = min(max(c.Key.Channel, 0), radix.NumChannels-1)
	if n := len(o.Channels[c.Key.Channel]); n > 0 {
		c.Key.Line = min(max(c.Key.Line, 0), n-1)
	} else {
		ref := nearestLine(o, c.Key.Channel)
		c.Key.Channel, c.Key.Line = ref.channel, ref.line
	}
	c.Key.Beat = min(max(c.Key.Beat, 0), o.BeatCount-1)
	node, err := o.Beat(c.Key)
	if err != nil {
		c.Position = nil
		return
	}
	pos := make([]int, 0, len(c.Position))
	for _, i := range c.Position {
		if !node.IsStructural() {
			break
		}
		i = min(max(i, 0), node.Size()-1)
		pos = append(pos, i)
		node = node.Child(i)
	}
	for node.IsStructural() {
		pos = append(pos, 0)
		node = node.Child(0)
	}
	c.Position = pos
}

// nearestLine returns the first line of the closest channel that has lines,
// preferring later channels on ties.
func nearestLine(o *radix.Opus, channel int) lineRef {
	for d := 1; d < radix.NumChannels; d++ {
		for _, c := range []int{channel + d, channel - d} {
			if c >= 0 && c < radix.NumChannels && len(o.Channels[c]) > 0 {
				return lineRef{c, 0}
			}
		}
	}
	return lineRef{0, 0}
}

func indexOfPath(paths [][]int, p []int) int {
	return slices.IndexFunc(paths, func(q []int) bool { return slices.Equal(p, q) })
}
