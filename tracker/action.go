package tracker

import (
	"github.com/qfs/radix"
)

type (
	// Action describes a user action that can be performed on the model, which
	// can be initiated by calling the Do() method. It is usually initiated by a
	// key press. Action advertises whether it is enabled, so the UI can e.g.
	// gray out the key hints when the underlying action is not allowed. The
	// underlying Doer can optionally implement the Enabler interface to decide
	// if the action is enabled or not; if it does not implement the Enabler
	// interface, the action is always allowed.
	Action struct {
		doer   Doer
		alerts *Alerts
	}

	// Doer is an interface that defines a single Do() method, which is called
	// when an action is performed. A failing Doer returns the error; Action
	// turns it into an alert.
	Doer interface {
		Do() error
	}

	// Enabler is an interface that defines a single Enabled() method, which
	// is used by the UI to check if an Action/Bool/Int is enabled or not.
	Enabler interface {
		Enabled() bool
	}
)

// Action methods

func MakeAction(doer Doer) Action {
	return Action{doer: doer}
}

// action makes an Action whose errors are added to the alerts of the model.
func (m *Model) action(doer Doer) Action {
	return Action{doer: doer, alerts: &m.alerts}
}

func (a Action) Do() {
	e, ok := a.doer.(Enabler)
	if ok && !e.Enabled() {
		return
	}
	if a.doer == nil {
		return
	}
	if err := a.doer.Do(); err != nil && a.alerts != nil {
		a.alerts.Add(err.Error(), Error)
	}
}

func (a Action) Enabled() bool {
	if a.doer == nil {
		return false // no doer, not allowed
	}
	e, ok := a.doer.(Enabler)
	if !ok {
		return true // not enabler, always allowed
	}
	return e.Enabled()
}

// undo
type undo Model

func (m *Model) UndoAction() Action { return m.action((*undo)(m)) }
func (m *undo) Enabled() bool {
	return m.history.Len() > 0 && m.history.Mode() == Idle
}
func (m *undo) Do() error { return (*Model)(m).Undo() }

// removeAtCursor
type removeAtCursor Model

func (m *Model) RemoveAtCursor() Action { return m.action((*removeAtCursor)(m)) }
func (m *removeAtCursor) Enabled() bool { return len(m.d.Cursor.Position) > 0 }
func (m *removeAtCursor) Do() error {
	return (*Model)(m).Remove(m.d.Cursor.Key, m.d.Cursor.Position)
}

// unsetAtCursor
type unsetAtCursor Model

func (m *Model) UnsetAtCursor() Action { return m.action((*unsetAtCursor)(m)) }
func (m *unsetAtCursor) Enabled() bool {
	node, err := m.d.Opus.Grouping(m.d.Cursor.Key, m.d.Cursor.Position)
	return err == nil && !node.IsUnset()
}
func (m *unsetAtCursor) Do() error {
	return (*Model)(m).Unset(m.d.Cursor.Key, m.d.Cursor.Position)
}

// insertAfterCursor
type insertAfterCursor Model

func (m *Model) InsertAfterCursor() Action { return m.action((*insertAfterCursor)(m)) }
func (m *insertAfterCursor) Enabled() bool { return len(m.d.Cursor.Position) > 0 }
func (m *insertAfterCursor) Do() error {
	return (*Model)(m).InsertAfter(m.d.Cursor.Key, m.d.Cursor.Position)
}

// splitAtCursor
type splitAtCursor Model

func (m *Model) SplitAtCursor() Action { return m.action((*splitAtCursor)(m)) }
func (m *splitAtCursor) Do() error {
	mm := (*Model)(m)
	pos := m.d.Cursor.Position
	if err := mm.SplitGrouping(m.d.Cursor.Key, pos, mm.SplitCount().Value()); err != nil {
		return err
	}
	m.d.Cursor.Position = append(clonePath(pos), 0)
	mm.clampCursor()
	return nil
}

// setEventAtCursor
type setEventAtCursor struct {
	m *Model
	e radix.Event
}

func (m *Model) SetEventAtCursor(e radix.Event) Action {
	return m.action(setEventAtCursor{m, e})
}
func (s setEventAtCursor) Do() error {
	return s.m.SetEvent(s.m.d.Cursor.Key, s.m.d.Cursor.Position, s.e)
}

// insertBeatAtCursor
type insertBeatAtCursor Model

func (m *Model) InsertBeatAtCursor() Action { return m.action((*insertBeatAtCursor)(m)) }
func (m *insertBeatAtCursor) Do() error {
	return (*Model)(m).InsertBeat(m.d.Cursor.Key.Beat + 1)
}

// removeBeatAtCursor
type removeBeatAtCursor Model

func (m *Model) RemoveBeatAtCursor() Action { return m.action((*removeBeatAtCursor)(m)) }
func (m *removeBeatAtCursor) Enabled() bool { return m.d.Opus.BeatCount > 1 }
func (m *removeBeatAtCursor) Do() error {
	return (*Model)(m).RemoveBeat(m.d.Cursor.Key.Beat)
}

// newLineAtCursor
type newLineAtCursor Model

func (m *Model) NewLineAtCursor() Action { return m.action((*newLineAtCursor)(m)) }
func (m *newLineAtCursor) Do() error {
	k := m.d.Cursor.Key
	return (*Model)(m).NewLine(k.Channel, k.Line+1)
}

// removeLineAtCursor
type removeLineAtCursor Model

func (m *Model) RemoveLineAtCursor() Action { return m.action((*removeLineAtCursor)(m)) }
func (m *removeLineAtCursor) Enabled() bool { return m.d.Opus.LineCount() > 1 }
func (m *removeLineAtCursor) Do() error {
	k := m.d.Cursor.Key
	return (*Model)(m).RemoveLine(k.Channel, k.Line)
}

// linkToMark links the beat under the cursor to the marked beat.
type linkToMark Model

func (m *Model) LinkToMark() Action { return m.action((*linkToMark)(m)) }
func (m *linkToMark) Enabled() bool {
	mark, ok := (*Model)(m).MarkedBeat()
	return ok && mark != m.d.Cursor.Key && !m.d.Opus.Links.IsLinked(m.d.Cursor.Key)
}
func (m *linkToMark) Do() error {
	return (*Model)(m).LinkBeats(m.d.Cursor.Key, *m.mark)
}

// unlinkAtCursor
type unlinkAtCursor Model

func (m *Model) UnlinkAtCursor() Action { return m.action((*unlinkAtCursor)(m)) }
func (m *unlinkAtCursor) Enabled() bool {
	return m.d.Opus.Links.IsLinked(m.d.Cursor.Key)
}
func (m *unlinkAtCursor) Do() error {
	return (*Model)(m).UnlinkBeat(m.d.Cursor.Key)
}

// pasteMark overwrites the beat under the cursor with the marked beat.
type pasteMark Model

func (m *Model) PasteMark() Action { return m.action((*pasteMark)(m)) }
func (m *pasteMark) Enabled() bool {
	mark, ok := (*Model)(m).MarkedBeat()
	return ok && mark != m.d.Cursor.Key
}
func (m *pasteMark) Do() error {
	return (*Model)(m).OverwriteBeat(m.d.Cursor.Key, *m.mark)
}

// Mark remembers the beat under the cursor as the source of LinkToMark and
// PasteMark.
func (m *Model) Mark() {
	k := m.d.Cursor.Key
	m.mark = &k
}

// MarkedBeat returns the marked beat, if any.
func (m *Model) MarkedBeat() (radix.BeatKey, bool) {
	if m.mark == nil || !m.d.Opus.ValidKey(*m.mark) {
		return radix.BeatKey{}, false
	}
	return *m.mark, true
}
