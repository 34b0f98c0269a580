package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qfs/radix"
	"github.com/qfs/radix/compiler"
	"github.com/qfs/radix/tracker"
	"github.com/qfs/radix/tracker/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestFormatNotation(t *testing.T) {
	var out bytes.Buffer
	in := "[10, 11], 12\n\n[[20|21]]\n"
	require.NoError(t, formatNotation(strings.NewReader(in), &out, radix.DefaultRadix))
	assert.Equal(t, "[10,11],12\n[[20|21]]\n", out.String())

	out.Reset()
	err := formatNotation(strings.NewReader("10\n[10,11\n"), &out, radix.DefaultRadix)
	require.Error(t, err)
	assert.ErrorIs(t, err, radix.ErrUnclosedGrouping)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "^")
	assert.Equal(t, "10\n", out.String())
}

func TestFormatNotationLongLine(t *testing.T) {
	var out bytes.Buffer
	line := strings.Repeat("10,", 30000) + "10"
	require.NoError(t, formatNotation(strings.NewReader(line+"\n"), &out, radix.DefaultRadix))
	assert.Equal(t, line+"\n", out.String())
}

func writeSong(t *testing.T, notation string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.yml")
	m := tracker.NewModel(nil, nil, "")
	beats, err := radix.ParseBeats(notation, radix.DefaultRadix)
	require.NoError(t, err)
	o := radix.NewOpus()
	o.BeatCount = len(beats)
	o.Channels[0] = []radix.Line{beats}
	m.SetOpus(o)
	require.NoError(t, m.SaveFile(path))
	return path
}

func TestExportSong(t *testing.T) {
	path := writeSong(t, "[40,42],44")
	out := filepath.Join(filepath.Dir(path), "song.mid")
	require.NoError(t, exportSong(path, out, radix.DefaultPPQN))
	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	s, err := smf.ReadFrom(f)
	require.NoError(t, err)
	assert.Len(t, s.Tracks, 2)

	assert.Error(t, exportSong(filepath.Join(t.TempDir(), "missing.yml"), out, radix.DefaultPPQN))
}

func TestCompileSong(t *testing.T) {
	path := writeSong(t, "[40,42],44")
	o, err := loadOpus(path)
	require.NoError(t, err)
	comp, err := compiler.New(radix.DefaultPPQN)
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, compileSong(comp, o, "lines.txt", &out))
	assert.Equal(t, "0:0 [40,42],44\n", out.String())
}

func TestOpenSong(t *testing.T) {
	prefs := tui.Preferences{Radix: 16, Tempo: 90, Beats: 3}
	m := tracker.NewModel(nil, nil, "")
	newPath := filepath.Join(t.TempDir(), "new.yml")
	require.NoError(t, openSong(m, prefs, newPath))
	assert.Equal(t, newPath, m.FilePath())
	assert.Equal(t, 16, m.Opus().Radix)
	assert.Equal(t, 3, m.Opus().BeatCount)

	path := writeSong(t, "10,11")
	require.NoError(t, openSong(m, prefs, path))
	assert.Equal(t, 2, m.Opus().BeatCount)
	assert.Equal(t, path, m.FilePath())
}
