package tracker_test

import (
	"testing"

	"github.com/qfs/radix"
	"github.com/qfs/radix/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatesDrain(t *testing.T) {
	var c tracker.UpdatesCache
	u := tracker.Update{Channel: 1, Line: 2, Beat: 3, Op: tracker.OpChanged}
	c.Flag(tracker.BeatChangeUpdate, u)
	assert.Equal(t, []tracker.Update{u}, c.Fetch(tracker.BeatChangeUpdate, true))
	assert.Equal(t, []tracker.Update{u}, c.Fetch(tracker.BeatChangeUpdate, false))
	assert.Empty(t, c.Fetch(tracker.BeatChangeUpdate, false))

	c.Flag(tracker.LineUpdate, u)
	c.Flag(tracker.LineUpdate, u)
	c.Unflag(tracker.LineUpdate, u)
	assert.Len(t, c.Fetch(tracker.LineUpdate, false), 1)
	assert.Empty(t, c.Fetch(tracker.BeatUpdate, false))
}

func TestSetOpusFlagsEverything(t *testing.T) {
	m := newTestModel(t, "10,11,12", "20,21,22")
	assert.Equal(t, []tracker.Update{
		{Beat: 0, Op: tracker.OpNew},
		{Beat: 1, Op: tracker.OpNew},
		{Beat: 2, Op: tracker.OpNew},
	}, m.Updates().Fetch(tracker.BeatUpdate, false))
	assert.Equal(t, []tracker.Update{
		{Channel: 0, Line: 0, Op: tracker.OpInit},
		{Channel: 0, Line: 1, Op: tracker.OpInit},
	}, m.Updates().Fetch(tracker.LineUpdate, false))
}

func TestEditsFlag(t *testing.T) {
	m := newTestModel(t, "10,11", "20,21")
	m.Updates().Clear()

	require.NoError(t, m.LinkBeats(key(0, 1, 1), key(0, 0, 1)))
	require.NoError(t, m.SetEvent(key(0, 0, 1), nil, radix.Event{Note: 5}))
	assert.Equal(t, []tracker.Update{
		{Channel: 0, Line: 1, Beat: 1},
		{Channel: 0, Line: 0, Beat: 1},
		{Channel: 0, Line: 1, Beat: 1},
	}, m.Updates().Fetch(tracker.BeatChangeUpdate, false))

	require.NoError(t, m.InsertBeat(1))
	require.NoError(t, m.RemoveBeat(0))
	assert.Equal(t, []tracker.Update{
		{Beat: 1, Op: tracker.OpNew},
		{Beat: 0, Op: tracker.OpPop},
	}, m.Updates().Fetch(tracker.BeatUpdate, false))

	m.Updates().Clear()
	require.NoError(t, m.SwapChannels(0, 2))
	assert.Equal(t, []tracker.Update{
		{Channel: 0, Line: 1, Op: tracker.OpPop},
		{Channel: 0, Line: 0, Op: tracker.OpPop},
		{Channel: 2, Line: 0, Op: tracker.OpNew},
		{Channel: 2, Line: 1, Op: tracker.OpNew},
	}, m.Updates().Fetch(tracker.LineUpdate, false))
}

func TestUndoFlags(t *testing.T) {
	m := newTestModel(t, "10,11", "20,21")
	require.NoError(t, m.RemoveLine(0, 0))
	m.Updates().Clear()
	require.NoError(t, m.Undo())
	assert.Equal(t, []tracker.Update{{Channel: 0, Line: 0, Op: tracker.OpNew}}, m.Updates().Fetch(tracker.LineUpdate, false))
	assert.NotEmpty(t, m.Updates().Fetch(tracker.BeatChangeUpdate, false))
}
