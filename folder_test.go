package radix_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qfs/radix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderRoundTrip(t *testing.T) {
	o := radix.NewOpus()
	o.BeatCount = 2
	o.Channels[0] = []radix.Line{mustParseBeats(t, "[10,11],12"), mustParseBeats(t, ",+1")}
	o.Channels[4] = []radix.Line{mustParseBeats(t, "[[30,31],32],")}
	for _, lines := range o.Channels {
		for _, line := range lines {
			require.Len(t, line, o.BeatCount)
		}
	}
	dir := filepath.Join(t.TempDir(), "opus")
	require.NoError(t, radix.WriteFolder(o, dir))

	content, err := os.ReadFile(filepath.Join(dir, "channel_0"))
	require.NoError(t, err)
	assert.Equal(t, "{[10,11],12}\n{,+1}\n", string(content))

	o2, err := radix.ReadFolder(dir)
	require.NoError(t, err)
	if !o.Equal(o2) {
		t.Fatalf("folder round trip changed the opus")
	}
}

func TestWriteFolderRemovesUnusedChannels(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channel_3"), []byte("{10}\n"), 0644))
	require.NoError(t, radix.WriteFolder(radix.NewOpus(), dir))
	_, err := os.Stat(filepath.Join(dir, "channel_3"))
	assert.True(t, os.IsNotExist(err))
}

func TestReadFolderIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channel_1"), []byte("{10,11}\n{}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("{zz}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channel_99"), []byte("{zz}"), 0644))
	o, err := radix.ReadFolder(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, o.BeatCount)
	require.Len(t, o.Channels[1], 2)
	assert.True(t, o.Channels[1][1][1].IsUnset())
}

func TestReadFolderParseError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "channel_0"), []byte("{10[}\n"), 0644))
	_, err := radix.ReadFolder(dir)
	assert.ErrorIs(t, err, radix.ErrMissingComma)
}

func TestWriteFolderDropsBends(t *testing.T) {
	o := radix.NewOpus()
	o.BeatCount = 1
	o.Channels[2] = []radix.Line{mustParseBeats(t, "[10,11]")}
	require.NoError(t, o.Channels[2][0][0].Child(1).SetEvent(radix.Event{Octave: 1, Note: 1, Bend: 20}))
	dir := t.TempDir()
	require.NoError(t, radix.WriteFolder(o, dir))

	content, err := os.ReadFile(filepath.Join(dir, "channel_2"))
	require.NoError(t, err)
	assert.Equal(t, "{[10,11]}\n", string(content))
}
