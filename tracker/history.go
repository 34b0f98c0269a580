package tracker

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

type (
	// History is the undo ledger: a stack of batches, each holding the
	// inverse commands of one logical edit and the cursor from before the
	// edit. Edits made between OpenMulti and the matching CloseMulti share a
	// batch, so a single Undo reverts all of them.
	History struct {
		ledger    []UndoBatch
		multi     int
		replaying bool
	}

	UndoBatch struct {
		Commands []Command
		Cursor   Cursor
	}

	HistoryMode int
)

const (
	Idle HistoryMode = iota
	MultiRecording
	Replaying
)

const maxUndo = 256

// ErrTransactionOpen is returned by Undo while a multi-edit transaction is
// still open.
var ErrTransactionOpen = errors.New("multi-edit transaction still open")

func (m HistoryMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case MultiRecording:
		return "multi-recording"
	case Replaying:
		return "replaying"
	}
	return fmt.Sprintf("HistoryMode(%d)", int(m))
}

func (h *History) Mode() HistoryMode {
	switch {
	case h.replaying:
		return Replaying
	case h.multi > 0:
		return MultiRecording
	}
	return Idle
}

// Len returns the number of batches that can be undone.
func (h *History) Len() int { return len(h.ledger) }

// Batches returns the ledger, oldest batch first.
func (h *History) Batches() []UndoBatch { return h.ledger }

// record stores inverse commands. Outside a multi-edit transaction they form
// a new batch with the given cursor; inside one they are appended to the open
// batch. Nothing is recorded while replaying.
func (h *History) record(cursor Cursor, cmds ...Command) {
	if h.replaying || len(cmds) == 0 {
		return
	}
	if h.multi > 0 {
		last := &h.ledger[len(h.ledger)-1]
		last.Commands = append(last.Commands, cmds...)
		return
	}
	h.push(UndoBatch{Commands: cmds, Cursor: cursor.Copy()})
}

func (h *History) push(b UndoBatch) {
	h.ledger = append(h.ledger, b)
	if len(h.ledger) > maxUndo {
		copy(h.ledger, h.ledger[len(h.ledger)-maxUndo:])
		h.ledger = h.ledger[:maxUndo]
	}
}

func (h *History) openMulti(cursor Cursor) {
	if h.replaying {
		return
	}
	if h.multi == 0 {
		h.push(UndoBatch{Cursor: cursor.Copy()})
	}
	h.multi++
}

func (h *History) closeMulti() {
	if h.replaying || h.multi == 0 {
		return
	}
	h.multi--
	if h.multi == 0 && len(h.ledger[len(h.ledger)-1].Commands) == 0 {
		h.ledger = h.ledger[:len(h.ledger)-1]
	}
}

func (h *History) clear() {
	h.ledger = nil
	h.multi = 0
	h.replaying = false
}

func (m *Model) History() *History { return &m.history }

// OpenMulti starts a multi-edit transaction: every edit until the matching
// CloseMulti goes to the same undo batch. Transactions nest; only the
// outermost pair opens and closes the batch.
func (m *Model) OpenMulti() { m.history.openMulti(m.d.Cursor) }

// CloseMulti closes the innermost open transaction. Closing with no open
// transaction does nothing.
func (m *Model) CloseMulti() { m.history.closeMulti() }

// Undo reverts the last batch: its commands are applied in the reverse order
// they were recorded, then the cursor is restored. Undo with an empty ledger
// does nothing. If a command fails, the rest of the batch is abandoned and the
// error is returned.
func (m *Model) Undo() error {
	h := &m.history
	if h.multi > 0 {
		return ErrTransactionOpen
	}
	if len(h.ledger) == 0 {
		return nil
	}
	batch := h.ledger[len(h.ledger)-1]
	h.ledger = h.ledger[:len(h.ledger)-1]
	m.log.Debug("undo", zap.Int("commands", len(batch.Commands)), zap.Int("remaining", len(h.ledger)))
	h.replaying = true
	defer func() { h.replaying = false }()
	m.d.ChangedSinceSave = true
	m.changedSinceRecovery = true
	for i := len(batch.Commands) - 1; i >= 0; i-- {
		if err := m.apply(batch.Commands[i]); err != nil {
			m.clampCursor()
			return fmt.Errorf("undo %T: %w", batch.Commands[i], err)
		}
	}
	m.d.Cursor = batch.Cursor.Copy()
	m.clampCursor()
	return nil
}
