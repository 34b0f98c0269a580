package tracker

import (
	"errors"
	"testing"

	"github.com/qfs/radix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDoer struct{}

func (failingDoer) Do() error { return errors.New("boom") }

func TestActionErrorBecomesAlert(t *testing.T) {
	m := NewModel(nil, nil, "")
	m.action(failingDoer{}).Do()
	a, ok := m.Alerts().Top()
	require.True(t, ok)
	assert.Equal(t, Error, a.Priority)
	assert.Equal(t, "boom", a.Message)

	// actions not bound to a model drop the error
	MakeAction(failingDoer{}).Do()
	assert.Len(t, m.Alerts().List(), 1)
	assert.False(t, Action{}.Enabled())
}

func TestRepopulateIsBreadthFirst(t *testing.T) {
	m := NewModel(nil, nil, "")
	require.NoError(t, m.ReplaceGrouping(m.d.Cursor.Key, nil, mustParseInternal(t, "[10,],20")))
	beat, _ := m.d.Opus.Beat(m.d.Cursor.Key)
	key := m.d.Cursor.Key
	got := repopulate(key, nil, beat).Commands
	expected := []Command{
		ResizeCmd{Key: key, Position: []int{}, Size: 2},
		ResizeCmd{Key: key, Position: []int{0}, Size: 2},
		SetEventsCmd{Key: key, Position: []int{1}, Events: beat.Child(1).Events()},
		SetEventsCmd{Key: key, Position: []int{0, 0}, Events: beat.Child(0).Child(0).Events()},
		UnsetCmd{Key: key, Position: []int{0, 1}},
	}
	assert.Equal(t, expected, got)
}

func mustParseInternal(t *testing.T, s string) *radix.Grouping {
	t.Helper()
	g, err := radix.Parse(s, radix.DefaultRadix)
	require.NoError(t, err)
	return g
}
