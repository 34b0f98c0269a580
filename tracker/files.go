package tracker

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/google/uuid"
	"github.com/qfs/radix"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ReadSong replaces the edited opus with the one read from r. When r is a
// file, its path becomes the path of the opus.
func (m *Model) ReadSong(r io.ReadCloser) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not read song"))
	}
	if err := r.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("could not close song file"))
	}
	var o radix.Opus
	if err := yaml.Unmarshal(b, &o); err != nil {
		return fault.Wrap(err, fmsg.With("could not parse song"), ftag.With(ftag.InvalidArgument))
	}
	m.SetOpus(&o)
	m.d.FilePath = ""
	m.d.ChangedSinceSave = true
	if f, ok := r.(*os.File); ok {
		// a song just loaded from a file is persisted
		m.d.FilePath = f.Name()
		m.d.ChangedSinceSave = false
	}
	m.log.Info("song loaded", zap.String("path", m.d.FilePath))
	return nil
}

// WriteSong writes the opus to w as YAML and closes w. When w is a file, its
// path becomes the path of the opus.
func (m *Model) WriteSong(w io.WriteCloser) error {
	contents, err := yaml.Marshal(m.d.Opus)
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not marshal song"))
	}
	if _, err := w.Write(contents); err != nil {
		w.Close()
		return fault.Wrap(err, fmsg.With("could not write song"))
	}
	if err := w.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("could not close song file"))
	}
	if f, ok := w.(*os.File); ok {
		m.d.FilePath = f.Name()
		m.d.ChangedSinceSave = false
	}
	m.log.Info("song saved", zap.String("path", m.d.FilePath))
	return nil
}

// LoadFile loads an opus from path: a directory is read as a folder of
// channel files, anything else as a YAML song.
func (m *Model) LoadFile(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		o, err := radix.ReadFolder(path)
		if err != nil {
			return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not read folder %s", path)))
		}
		m.SetOpus(o)
		m.d.FilePath = path
		m.d.ChangedSinceSave = false
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not open %s", path)), ftag.With(ftag.NotFound))
	}
	return m.ReadSong(f)
}

// SaveFile saves the opus to path, or to the path it was loaded from if path
// is empty. A path without an extension is written as a folder of channel
// files.
func (m *Model) SaveFile(path string) error {
	if path == "" {
		path = m.d.FilePath
	}
	if path == "" {
		return fault.Wrap(fault.New("no file path"), ftag.With(ftag.InvalidArgument))
	}
	if filepath.Ext(path) == "" {
		if err := radix.WriteFolder(m.d.Opus, path); err != nil {
			return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not write folder %s", path)))
		}
		m.d.FilePath = path
		m.d.ChangedSinceSave = false
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With(fmt.Sprintf("could not create %s", path)))
	}
	return m.WriteSong(f)
}

// ExportSMF writes a copy of the opus as a standard MIDI file to w in the
// background. The outcome is reported as an alert through the broker.
func (m *Model) ExportSMF(w io.WriteCloser, ppqn int) {
	o := m.d.Opus.Copy()
	name := uuid.New().String()
	send := func(p AlertPriority, msg string) {
		TrySend(m.broker.ToModel, MsgToModel{Data: Alert{Name: name, Priority: p, Message: msg, Duration: defaultAlertDuration}})
	}
	go func() {
		var buf bytes.Buffer
		if err := radix.WriteSMF(&buf, o, ppqn); err != nil {
			w.Close()
			send(Error, fmt.Sprintf("Error exporting MIDI: %v", err))
			return
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			w.Close()
			send(Error, fmt.Sprintf("Error writing MIDI file: %v", err))
			return
		}
		if err := w.Close(); err != nil {
			send(Error, fmt.Sprintf("Error writing MIDI file: %v", err))
			return
		}
		send(Info, "MIDI file exported")
	}()
}

// SaveRecovery writes the model data to the recovery file, if anything
// changed since it was last written.
func (m *Model) SaveRecovery() error {
	if !m.changedSinceRecovery {
		return nil
	}
	if m.recoveryFilePath == "" {
		return fault.Wrap(fault.New("no recovery file path"), ftag.With(ftag.InvalidArgument))
	}
	out, err := yaml.Marshal(&m.d)
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not marshal recovery data"))
	}
	if err := os.MkdirAll(filepath.Dir(m.recoveryFilePath), os.ModePerm); err != nil {
		return fault.Wrap(err, fmsg.With("could not create recovery directory"))
	}
	if err := os.WriteFile(m.recoveryFilePath, out, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("could not write recovery file"))
	}
	m.changedSinceRecovery = false
	m.log.Debug("recovery saved", zap.String("path", m.recoveryFilePath))
	return nil
}

// LoadRecovery restores the model data from the recovery file. A missing
// recovery file is not an error. The undo ledger does not survive.
func (m *Model) LoadRecovery() error {
	b, err := os.ReadFile(m.recoveryFilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fault.Wrap(err, fmsg.With("could not read recovery file"))
	}
	var d modelData
	if err := yaml.Unmarshal(b, &d); err != nil {
		return fault.Wrap(err, fmsg.With("could not parse recovery file"), ftag.With(ftag.InvalidArgument))
	}
	if d.Opus == nil {
		return fault.Wrap(fault.New("recovery file has no opus"), ftag.With(ftag.InvalidArgument))
	}
	m.SetOpus(d.Opus)
	m.d.FilePath = d.FilePath
	m.d.ChangedSinceSave = d.ChangedSinceSave
	m.SetCursor(d.Cursor)
	m.changedSinceRecovery = false
	m.log.Info("recovery loaded", zap.String("path", m.recoveryFilePath))
	return nil
}

// DiscardRecovery removes the recovery file, e.g. when quitting after the
// opus was saved.
func (m *Model) DiscardRecovery() error {
	if m.recoveryFilePath == "" {
		return nil
	}
	if err := os.Remove(m.recoveryFilePath); err != nil && !os.IsNotExist(err) {
		return fault.Wrap(err, fmsg.With("could not remove recovery file"))
	}
	m.changedSinceRecovery = false
	return nil
}
