package tracker

import (
	"fmt"

	"github.com/qfs/radix"
	"golang.org/x/exp/slices"
)

// The methods in this file change the opus directly: they neither follow
// links nor record anything in the history, but they do flag the updates.
// They are used both by the edit methods and when replaying the history.

func (m *Model) flagBeat(key radix.BeatKey) {
	m.updates.Flag(BeatChangeUpdate, Update{Channel: key.Channel, Line: key.Line, Beat: key.Beat, Op: OpChanged})
}

func (m *Model) replaceGrouping(key radix.BeatKey, pos []int, g *radix.Grouping) error {
	node, err := m.d.Opus.Grouping(key, pos)
	if err != nil {
		return err
	}
	node.Assign(g)
	m.flagBeat(key)
	return nil
}

func (m *Model) resize(key radix.BeatKey, pos []int, n int) error {
	node, err := m.d.Opus.Grouping(key, pos)
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("%w: cannot resize to %d children", radix.ErrBadState, n)
	}
	node.ClearEvents()
	if err := node.Resize(n); err != nil {
		return err
	}
	m.flagBeat(key)
	return nil
}

func (m *Model) setEvents(key radix.BeatKey, pos []int, events []radix.Event) error {
	node, err := m.d.Opus.Grouping(key, pos)
	if err != nil {
		return err
	}
	node.ClearEvents()
	for _, e := range events {
		node.AddEvent(e)
	}
	m.flagBeat(key)
	return nil
}

func (m *Model) unset(key radix.BeatKey, pos []int) error {
	node, err := m.d.Opus.Grouping(key, pos)
	if err != nil {
		return err
	}
	node.ClearEvents()
	m.flagBeat(key)
	return nil
}

func (m *Model) splitGrouping(key radix.BeatKey, pos []int, n int) error {
	node, err := m.d.Opus.Grouping(key, pos)
	if err != nil {
		return err
	}
	if n < 1 {
		return fmt.Errorf("%w: cannot split into %d", radix.ErrBadState, n)
	}
	old := node.Copy()
	node.ClearEvents()
	node.Resize(n)
	if old.IsStructural() {
		for i := 0; i < min(n, old.Size()); i++ {
			node.ReplaceChild(i, old.Child(i))
		}
	} else if old.IsEvent() {
		node.ReplaceChild(0, old)
	}
	m.flagBeat(key)
	return nil
}

func (m *Model) insertAfter(key radix.BeatKey, pos []int) error {
	if len(pos) == 0 {
		return fmt.Errorf("%w: a beat has no siblings", radix.ErrInvalidPosition)
	}
	if _, err := m.d.Opus.Grouping(key, pos); err != nil {
		return err
	}
	parent, _ := m.d.Opus.Grouping(key, pos[:len(pos)-1])
	if err := parent.InsertChild(pos[len(pos)-1]+1, radix.NewGrouping()); err != nil {
		return err
	}
	m.flagBeat(key)
	return nil
}

func (m *Model) remove(key radix.BeatKey, pos []int) error {
	beat, err := m.d.Opus.Beat(key)
	if err != nil {
		return err
	}
	if _, err := beat.Get(pos); err != nil {
		return err
	}
	removeNode(beat, pos)
	m.flagBeat(key)
	return nil
}

// removeNode removes the node at pos. A parent left with a single child is
// replaced by that child; a parent that would be left empty is removed in
// turn, and a beat losing its only child becomes unset.
func removeNode(beat *radix.Grouping, pos []int) {
	if len(pos) == 0 {
		beat.ClearEvents()
		return
	}
	parentPos := pos[:len(pos)-1]
	parent, _ := beat.Get(parentPos)
	if parent.Size() == 1 {
		removeNode(beat, parentPos)
		return
	}
	parent.RemoveChild(pos[len(pos)-1])
	if parent.Size() == 1 {
		parent.Assign(parent.Child(0))
	}
}

func (m *Model) insertBeat(i int) error {
	o := m.d.Opus
	if i < 0 || i > o.BeatCount {
		return fmt.Errorf("%w: beat index %d", radix.ErrInvalidPosition, i)
	}
	for _, lines := range o.Channels {
		for l := range lines {
			lines[l] = slices.Insert(lines[l], i, radix.NewGrouping())
		}
	}
	o.BeatCount++
	o.Links.Remap(func(k radix.BeatKey) (radix.BeatKey, bool) {
		if k.Beat >= i {
			k.Beat++
		}
		return k, true
	})
	m.updates.Flag(BeatUpdate, Update{Beat: i, Op: OpNew})
	return nil
}

func (m *Model) removeBeat(i int) error {
	o := m.d.Opus
	if i < 0 || i >= o.BeatCount {
		return fmt.Errorf("%w: beat index %d", radix.ErrInvalidPosition, i)
	}
	if o.BeatCount == 1 {
		return fmt.Errorf("%w: cannot remove the only beat", radix.ErrInvalidPosition)
	}
	for _, lines := range o.Channels {
		for l := range lines {
			lines[l] = slices.Delete(lines[l], i, i+1)
		}
	}
	o.BeatCount--
	o.Links.Remap(func(k radix.BeatKey) (radix.BeatKey, bool) {
		switch {
		case k.Beat == i:
			return k, false
		case k.Beat > i:
			k.Beat--
		}
		return k, true
	})
	m.updates.Flag(BeatUpdate, Update{Beat: i, Op: OpPop})
	return nil
}

func (m *Model) newLine(c, i int) error {
	o := m.d.Opus
	if c < 0 || c >= radix.NumChannels || i < 0 || i > len(o.Channels[c]) {
		return fmt.Errorf("%w: line %d of channel %d", radix.ErrInvalidPosition, i, c)
	}
	o.Channels[c] = slices.Insert(o.Channels[c], i, radix.NewLine(o.BeatCount))
	o.Links.Remap(func(k radix.BeatKey) (radix.BeatKey, bool) {
		if k.Channel == c && k.Line >= i {
			k.Line++
		}
		return k, true
	})
	m.updates.Flag(LineUpdate, Update{Channel: c, Line: i, Op: OpNew})
	return nil
}

func (m *Model) removeLine(c, i int) error {
	o := m.d.Opus
	if c < 0 || c >= radix.NumChannels || i < 0 || i >= len(o.Channels[c]) {
		return fmt.Errorf("%w: line %d of channel %d", radix.ErrInvalidPosition, i, c)
	}
	if o.LineCount() == 1 {
		return fmt.Errorf("%w: cannot remove the only line", radix.ErrInvalidPosition)
	}
	o.Channels[c] = slices.Delete(o.Channels[c], i, i+1)
	o.Links.Remap(func(k radix.BeatKey) (radix.BeatKey, bool) {
		if k.Channel != c {
			return k, true
		}
		switch {
		case k.Line == i:
			return k, false
		case k.Line > i:
			k.Line--
		}
		return k, true
	})
	m.updates.Flag(LineUpdate, Update{Channel: c, Line: i, Op: OpPop})
	return nil
}

func (m *Model) linkBeats(key, target radix.BeatKey) error {
	if key == target {
		return ErrSelfLink
	}
	beat, err := m.d.Opus.Beat(key)
	if err != nil {
		return err
	}
	src, err := m.d.Opus.Beat(target)
	if err != nil {
		return err
	}
	beat.Assign(src)
	m.d.Opus.Links.Link(key, target)
	m.flagBeat(key)
	return nil
}

func (m *Model) unlinkBeat(key radix.BeatKey) error {
	if !m.d.Opus.ValidKey(key) {
		return fmt.Errorf("%w: beat %+v", radix.ErrInvalidPosition, key)
	}
	m.d.Opus.Links.Unlink(key)
	m.flagBeat(key)
	return nil
}

func (m *Model) swapChannels(a, b int) error {
	o := m.d.Opus
	if a < 0 || a >= radix.NumChannels || b < 0 || b >= radix.NumChannels {
		return fmt.Errorf("%w: channels %d and %d", radix.ErrInvalidPosition, a, b)
	}
	o.Channels[a], o.Channels[b] = o.Channels[b], o.Channels[a]
	o.Links.Remap(func(k radix.BeatKey) (radix.BeatKey, bool) {
		switch k.Channel {
		case a:
			k.Channel = b
		case b:
			k.Channel = a
		}
		return k, true
	})
	lenA, lenB := len(o.Channels[a]), len(o.Channels[b])
	for i := 0; i < lenB; i++ {
		m.updates.Flag(LineUpdate, Update{Channel: a, Line: lenB - 1 - i, Op: OpPop})
	}
	for i := 0; i < lenA; i++ {
		m.updates.Flag(LineUpdate, Update{Channel: b, Line: lenA - 1 - i, Op: OpPop})
	}
	for i := 0; i < lenA; i++ {
		m.updates.Flag(LineUpdate, Update{Channel: a, Line: i, Op: OpNew})
	}
	for i := 0; i < lenB; i++ {
		m.updates.Flag(LineUpdate, Update{Channel: b, Line: i, Op: OpNew})
	}
	return nil
}
