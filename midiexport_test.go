package radix_test

import (
	"bytes"
	"testing"

	"github.com/qfs/radix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

type noteEvent struct {
	tick int
	key  uint8
	on   bool
}

func TestWriteSMF(t *testing.T) {
	o := radix.NewOpus()
	o.Tempo = 90
	o.BeatCount = 2
	o.Channels[0] = []radix.Line{mustParseBeats(t, "[10,11|10,11]")}
	o.Channels[5] = []radix.Line{mustParseBeats(t, "30,")}

	var buf bytes.Buffer
	require.NoError(t, radix.WriteSMF(&buf, o, 480))
	s, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, smf.MetricTicks(480), s.TimeFormat)
	require.Len(t, s.Tracks, 3)

	var bpm float64
	found := false
	for _, ev := range s.Tracks[0] {
		if ev.Message.GetMetaTempo(&bpm) {
			found = true
		}
	}
	assert.True(t, found, "tempo track has no tempo")
	assert.InDelta(t, 90, bpm, 0.01)

	assert.Equal(t, []noteEvent{
		{0, 12, true}, {240, 12, false}, {240, 13, true}, {480, 13, false},
		{480, 12, true}, {720, 12, false}, {720, 13, true}, {960, 13, false},
	}, notesOf(s.Tracks[1], 0))
	assert.Equal(t, []noteEvent{{0, 36, true}, {480, 36, false}}, notesOf(s.Tracks[2], 5))
}

func TestWriteSMFInvalidPPQN(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, radix.WriteSMF(&buf, radix.NewOpus(), 0))
}

func notesOf(track smf.Track, channel uint8) []noteEvent {
	var ret []noteEvent
	tick := 0
	for _, ev := range track {
		tick += int(ev.Delta)
		var ch, key, vel uint8
		switch {
		case ev.Message.GetNoteStart(&ch, &key, &vel):
			if ch == channel {
				ret = append(ret, noteEvent{tick, key, true})
			}
		case ev.Message.GetNoteEnd(&ch, &key):
			if ch == channel {
				ret = append(ret, noteEvent{tick, key, false})
			}
		}
	}
	return ret
}
