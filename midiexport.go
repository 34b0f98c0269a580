package radix

import (
	"fmt"
	"io"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	minPitchBend = -8192
	maxPitchBend = 8191
)

// WriteSMF writes the opus as a standard MIDI file: a tempo track followed by
// one track for every line. Each line track starts by resetting the pitch
// wheel of its channel. Pitches are clamped to the MIDI note range.
func WriteSMF(w io.Writer, o *Opus, ppqn int) error {
	if ppqn <= 0 || ppqn > 0x7fff {
		return fmt.Errorf("invalid pulses per quarter note: %d", ppqn)
	}
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ppqn)
	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(float64(o.Tempo)))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return err
	}
	for c, lines := range o.Channels {
		for _, line := range lines {
			if err := s.Add(lineTrack(line, c, ppqn)); err != nil {
				return err
			}
		}
	}
	_, err := s.WriteTo(w)
	return err
}

func lineTrack(line Line, channel, ppqn int) smf.Track {
	var track smf.Track
	ch := uint8(channel)
	track.Add(0, midi.Pitchbend(ch, 0))
	last := 0
	for _, in := range TrackInstructions(line, channel, ppqn) {
		delta := uint32(in.Tick - last)
		last = in.Tick
		switch in.Kind {
		case NoteOn:
			track.Add(delta, midi.NoteOn(ch, clampNote(in.Pitch), uint8(in.Velocity)))
		case NoteOff:
			track.Add(delta, midi.NoteOff(ch, clampNote(in.Pitch)))
		case PitchBend:
			track.Add(delta, midi.Pitchbend(ch, int16(min(max(in.Value, minPitchBend), maxPitchBend))))
		}
	}
	track.Close(uint32(len(line)*ppqn - last))
	return track
}

func clampNote(pitch int) uint8 {
	return uint8(min(max(pitch, 0), 127))
}
