package tracker

import (
	"errors"
	"fmt"

	"github.com/qfs/radix"
	"go.uber.org/zap"
)

// The edit methods below are the only way the opus changes while editing.
// Each one validates its arguments first; on failure nothing is changed,
// recorded or flagged. On success, the inverse commands are recorded in the
// history. Edits addressed to a linked beat are applied to every beat of its
// link pool.

var (
	ErrSelfLink      = errors.New("cannot link a beat to itself")
	ErrAlreadyLinked = errors.New("beat is already linked")
)

func beatFields(key radix.BeatKey, pos []int) []zap.Field {
	return []zap.Field{
		zap.Int("channel", key.Channel),
		zap.Int("line", key.Line),
		zap.Int("beat", key.Beat),
		zap.Ints("position", pos),
	}
}

// targets returns the link pool of key, or key alone if it is not linked.
func (m *Model) targets(key radix.BeatKey) []radix.BeatKey {
	if linked := m.d.Opus.Links.Linked(key); linked != nil {
		return linked
	}
	return []radix.BeatKey{key}
}

// treeEdit applies op at pos of every target beat of key, after recording
// the inverse built for each target. All of it goes to one undo batch.
func (m *Model) treeEdit(name string, key radix.BeatKey, pos []int, inverse func(k radix.BeatKey) Command, op func(k radix.BeatKey) error) error {
	targets := m.targets(key)
	for _, k := range targets {
		if _, err := m.d.Opus.Grouping(k, pos); err != nil {
			return err
		}
	}
	m.log.Debug(name, append(beatFields(key, pos), zap.Int("targets", len(targets)))...)
	m.OpenMulti()
	defer m.CloseMulti()
	for _, k := range targets {
		m.history.record(m.d.Cursor, inverse(k))
		if err := op(k); err != nil {
			return err
		}
	}
	m.changed()
	return nil
}

// repopulateAt is an inverse builder restoring the subtree at pos.
func (m *Model) repopulateAt(pos []int) func(radix.BeatKey) Command {
	return func(k radix.BeatKey) Command {
		node, _ := m.d.Opus.Grouping(k, pos)
		return repopulate(k, pos, node)
	}
}

// ReplaceGrouping puts a copy of g at pos of the beat at key.
func (m *Model) ReplaceGrouping(key radix.BeatKey, pos []int, g *radix.Grouping) error {
	return m.treeEdit("replace grouping", key, pos,
		func(k radix.BeatKey) Command {
			node, _ := m.d.Opus.Grouping(k, pos)
			return ReplaceGroupingCmd{Key: k, Position: clonePath(pos), Grouping: node.Copy()}
		},
		func(k radix.BeatKey) error { return m.replaceGrouping(k, pos, g) })
}

// OverwriteBeat makes the beat at key a copy of the beat at from, without
// linking them.
func (m *Model) OverwriteBeat(key, from radix.BeatKey) error {
	src, err := m.d.Opus.Beat(from)
	if err != nil {
		return err
	}
	src = src.Copy()
	return m.treeEdit("overwrite beat", key, nil,
		func(k radix.BeatKey) Command {
			beat, _ := m.d.Opus.Beat(k)
			return ReplaceGroupingCmd{Key: k, Grouping: beat.Copy()}
		},
		func(k radix.BeatKey) error { return m.replaceGrouping(k, nil, src) })
}

// SetEvent makes the node at pos a leaf holding only e, whatever it held
// before.
func (m *Model) SetEvent(key radix.BeatKey, pos []int, e radix.Event) error {
	return m.treeEdit("set event", key, pos, m.repopulateAt(pos),
		func(k radix.BeatKey) error { return m.setEvents(k, pos, []radix.Event{e}) })
}

// Unset empties the node at pos.
func (m *Model) Unset(key radix.BeatKey, pos []int) error {
	return m.treeEdit("unset", key, pos, m.repopulateAt(pos),
		func(k radix.BeatKey) error { return m.unset(k, pos) })
}

// SplitGrouping divides the node at pos into n children. The events of a
// leaf move to the first child; a structural node keeps its first n children
// and gets unset children if it had fewer.
func (m *Model) SplitGrouping(key radix.BeatKey, pos []int, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: cannot split into %d", radix.ErrBadState, n)
	}
	return m.treeEdit("split", key, pos, m.repopulateAt(pos),
		func(k radix.BeatKey) error { return m.splitGrouping(k, pos, n) })
}

// InsertAfter inserts an unset sibling right after the node at pos.
func (m *Model) InsertAfter(key radix.BeatKey, pos []int) error {
	if len(pos) == 0 {
		return fmt.Errorf("%w: a beat has no siblings", radix.ErrInvalidPosition)
	}
	return m.treeEdit("insert after", key, pos, m.repopulateAt(pos[:len(pos)-1]),
		func(k radix.BeatKey) error { return m.insertAfter(k, pos) })
}

// Remove removes the node at pos; see removeNode for how the parents are
// tidied up. A beat itself cannot be removed, so removing at the root of a
// beat does nothing.
func (m *Model) Remove(key radix.BeatKey, pos []int) error {
	if len(pos) == 0 {
		if !m.d.Opus.ValidKey(key) {
			return fmt.Errorf("%w: beat %+v", radix.ErrInvalidPosition, key)
		}
		return nil
	}
	return m.treeEdit("remove", key, pos, m.repopulateAt(nil),
		func(k radix.BeatKey) error { return m.remove(k, pos) })
}

// InsertBeat inserts an unset beat at index i of every line.
func (m *Model) InsertBeat(i int) error {
	if i < 0 || i > m.d.Opus.BeatCount {
		return fmt.Errorf("%w: beat index %d", radix.ErrInvalidPosition, i)
	}
	m.log.Debug("insert beat", zap.Int("beat", i))
	m.history.record(m.d.Cursor, RemoveBeatCmd{Index: i})
	if err := m.insertBeat(i); err != nil {
		return err
	}
	m.changed()
	return nil
}

// RemoveBeat removes the beat at index i of every line. The only beat cannot
// be removed.
func (m *Model) RemoveBeat(i int) error {
	o := m.d.Opus
	if i < 0 || i >= o.BeatCount || o.BeatCount == 1 {
		return fmt.Errorf("%w: cannot remove beat %d of %d", radix.ErrInvalidPosition, i, o.BeatCount)
	}
	m.log.Debug("remove beat", zap.Int("beat", i))
	m.OpenMulti()
	defer m.CloseMulti()
	var keys []radix.BeatKey
	for c, lines := range o.Channels {
		for l := range lines {
			keys = append(keys, radix.BeatKey{Channel: c, Line: l, Beat: i})
		}
	}
	m.clearBeats(keys)
	m.history.record(m.d.Cursor, InsertBeatCmd{Index: i})
	if err := m.removeBeat(i); err != nil {
		return err
	}
	m.changed()
	return nil
}

// NewLine inserts an empty line at index i of channel c.
func (m *Model) NewLine(c, i int) error {
	if c < 0 || c >= radix.NumChannels || i < 0 || i > len(m.d.Opus.Channels[c]) {
		return fmt.Errorf("%w: line %d of channel %d", radix.ErrInvalidPosition, i, c)
	}
	m.log.Debug("new line", zap.Int("channel", c), zap.Int("line", i))
	m.history.record(m.d.Cursor, RemoveLineCmd{Channel: c, Index: i})
	if err := m.newLine(c, i); err != nil {
		return err
	}
	m.changed()
	return nil
}

// RemoveLine removes line i of channel c. The only line of the opus cannot
// be removed.
func (m *Model) RemoveLine(c, i int) error {
	o := m.d.Opus
	if c < 0 || c >= radix.NumChannels || i < 0 || i >= len(o.Channels[c]) || o.LineCount() == 1 {
		return fmt.Errorf("%w: cannot remove line %d of channel %d", radix.ErrInvalidPosition, i, c)
	}
	m.log.Debug("remove line", zap.Int("channel", c), zap.Int("line", i))
	m.OpenMulti()
	defer m.CloseMulti()
	keys := make([]radix.BeatKey, len(o.Channels[c][i]))
	for b := range keys {
		keys[b] = radix.BeatKey{Channel: c, Line: i, Beat: b}
	}
	m.clearBeats(keys)
	m.history.record(m.d.Cursor, NewLineCmd{Channel: c, Index: i})
	if err := m.removeLine(c, i); err != nil {
		return err
	}
	m.changed()
	return nil
}

// clearBeats records what is needed to bring back beats about to be
// destroyed: first their links, which are dissolved, then their content.
func (m *Model) clearBeats(keys []radix.BeatKey) {
	for _, k := range keys {
		m.unlinkRecorded(k)
	}
	for _, k := range keys {
		beat, _ := m.d.Opus.Beat(k)
		m.history.record(m.d.Cursor, repopulate(k, nil, beat))
	}
}

func (m *Model) unlinkRecorded(key radix.BeatKey) {
	linked := m.d.Opus.Links.Linked(key)
	if linked == nil {
		return
	}
	other := linked[0]
	if other == key {
		other = linked[1]
	}
	m.history.record(m.d.Cursor, LinkBeatsCmd{Key: key, Target: other})
	m.unlinkBeat(key)
}

// LinkBeats makes the beat at key a copy of the beat at target and adds it
// to the link pool of target.
func (m *Model) LinkBeats(key, target radix.BeatKey) error {
	o := m.d.Opus
	if !o.ValidKey(key) || !o.ValidKey(target) {
		return fmt.Errorf("%w: link %+v to %+v", radix.ErrInvalidPosition, key, target)
	}
	if key == target {
		return ErrSelfLink
	}
	if o.Links.IsLinked(key) {
		return fmt.Errorf("%w: %+v", ErrAlreadyLinked, key)
	}
	m.log.Debug("link beats", append(beatFields(key, nil), zap.Any("target", target))...)
	m.OpenMulti()
	defer m.CloseMulti()
	beat, _ := o.Beat(key)
	m.history.record(m.d.Cursor, ReplaceGroupingCmd{Key: key, Grouping: beat.Copy()}, UnlinkBeatCmd{Key: key})
	if err := m.linkBeats(key, target); err != nil {
		return err
	}
	m.changed()
	return nil
}

// UnlinkBeat removes the beat at key from its link pool. Unlinking a beat
// that is not linked does nothing.
func (m *Model) UnlinkBeat(key radix.BeatKey) error {
	if !m.d.Opus.ValidKey(key) {
		return fmt.Errorf("%w: beat %+v", radix.ErrInvalidPosition, key)
	}
	if !m.d.Opus.Links.IsLinked(key) {
		return nil
	}
	m.log.Debug("unlink beat", beatFields(key, nil)...)
	m.unlinkRecorded(key)
	m.changed()
	return nil
}

// SwapChannels exchanges the lines of channels a and b.
func (m *Model) SwapChannels(a, b int) error {
	if a < 0 || a >= radix.NumChannels || b < 0 || b >= radix.NumChannels {
		return fmt.Errorf("%w: channels %d and %d", radix.ErrInvalidPosition, a, b)
	}
	if a == b {
		return nil
	}
	m.log.Debug("swap channels", zap.Int("a", a), zap.Int("b", b))
	m.history.record(m.d.Cursor, SwapChannelsCmd{A: a, B: b})
	if err := m.swapChannels(a, b); err != nil {
		return err
	}
	switch m.d.Cursor.Key.Channel {
	case a:
		m.d.Cursor.Key.Channel = b
	case b:
		m.d.Cursor.Key.Channel = a
	}
	m.changed()
	return nil
}
