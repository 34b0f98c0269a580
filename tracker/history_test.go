package tracker_test

import (
	"testing"

	"github.com/qfs/radix"
	"github.com/qfs/radix/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoEmptyLedger(t *testing.T) {
	m := newTestModel(t, "10,11")
	before := m.Opus().Copy()
	if err := m.Undo(); err != nil {
		t.Fatalf("Undo on an empty ledger returned %v, expected nil", err)
	}
	if !before.Equal(m.Opus()) {
		t.Fatalf("Undo on an empty ledger changed the opus")
	}
}

func TestCompositeUndo(t *testing.T) {
	m := newTestModel(t, "[10,11],12", "20,21")
	before := m.Opus().Copy()
	cursor := m.Cursor()

	m.OpenMulti()
	require.NoError(t, m.SetEvent(key(0, 0, 1), nil, radix.Event{Octave: 4, Note: 4}))
	require.NoError(t, m.InsertBeat(0))
	m.OpenMulti()
	assert.Equal(t, tracker.MultiRecording, m.History().Mode())
	require.NoError(t, m.Remove(key(0, 0, 1), []int{0}))
	m.SetCursor(tracker.Cursor{Key: key(0, 1, 2)})
	require.NoError(t, m.RemoveLine(0, 0))
	m.CloseMulti()
	assert.ErrorIs(t, m.Undo(), tracker.ErrTransactionOpen)
	m.CloseMulti()
	assert.Equal(t, tracker.Idle, m.History().Mode())

	assert.Equal(t, 1, m.History().Len())
	require.NoError(t, m.Undo())
	assert.True(t, before.Equal(m.Opus()))
	assert.True(t, cursor.Equal(m.Cursor()))
	assert.Equal(t, 0, m.History().Len())
}

func TestEmptyTransactionIsDropped(t *testing.T) {
	m := newTestModel(t, "10,11")
	m.OpenMulti()
	assert.Error(t, m.RemoveBeat(5))
	m.CloseMulti()
	assert.Equal(t, 0, m.History().Len())
	// unmatched close does nothing
	m.CloseMulti()
	assert.Equal(t, tracker.Idle, m.History().Mode())
}

func TestSeparateEditsSeparateBatches(t *testing.T) {
	m := newTestModel(t, "10,11")
	require.NoError(t, m.SetEvent(key(0, 0, 0), nil, radix.Event{Note: 1}))
	require.NoError(t, m.SetEvent(key(0, 0, 1), nil, radix.Event{Note: 2}))
	assert.Equal(t, 2, m.History().Len())
	require.NoError(t, m.Undo())
	assert.Equal(t, "01", beatString(t, m, key(0, 0, 0)))
	assert.Equal(t, "11", beatString(t, m, key(0, 0, 1)))
}

func TestLedgerIsBounded(t *testing.T) {
	m := newTestModel(t, "10")
	for i := 0; i < 300; i++ {
		require.NoError(t, m.InsertBeat(0))
	}
	assert.Equal(t, 256, m.History().Len())
	for m.History().Len() > 0 {
		require.NoError(t, m.Undo())
	}
	assert.Equal(t, 45, m.Opus().BeatCount)
}

func TestUndoRestoresCursor(t *testing.T) {
	m := newTestModel(t, "[10,[11,12]],13")
	m.SetCursor(tracker.Cursor{Key: key(0, 0, 0), Position: []int{1, 1}})
	cursor := m.Cursor()
	require.NoError(t, m.Remove(key(0, 0, 0), []int{1}))
	assert.Empty(t, m.Cursor().Position)
	m.MoveRight()
	require.NoError(t, m.Undo())
	if !m.Cursor().Equal(cursor) {
		t.Fatalf("got cursor %v, expected %v", m.Cursor(), cursor)
	}
}

func TestUndoMarksChanged(t *testing.T) {
	m := newTestModel(t, "10")
	require.NoError(t, m.InsertBeat(1))
	require.NoError(t, m.Undo())
	assert.True(t, m.ChangedSinceSave())
}
