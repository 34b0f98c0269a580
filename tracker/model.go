package tracker

import (
	"github.com/qfs/radix"
	"go.uber.org/zap"
)

// Model implements the mutable state of the editor: the opus being edited,
// the cursor, the undo ledger and the queue of updates for the view.
//
// Model is not safe for concurrent use. It is owned by the UI goroutine;
// other goroutines reach it only by posting MsgToModel values to the broker,
// which the owner passes to ProcessMsg.
type (
	// modelData is the part of the model that gets saved to recovery files
	modelData struct {
		Opus             *radix.Opus `yaml:"opus"`
		Cursor           Cursor      `yaml:"cursor"`
		FilePath         string      `yaml:"filepath,omitempty"`
		ChangedSinceSave bool        `yaml:"changedsincesave,omitempty"`
	}

	Model struct {
		d       modelData
		history History
		updates UpdatesCache
		alerts  Alerts
		broker  *Broker
		log     *zap.Logger

		recoveryFilePath     string
		changedSinceRecovery bool

		mark       *radix.BeatKey
		splitCount int
		octave     int
		relative   bool
	}
)

// NewModel returns a model editing a new opus, or the opus of the recovery
// file if one exists at recoveryFilePath. A nil logger discards the logs; a
// nil broker is replaced by a new one.
func NewModel(broker *Broker, logger *zap.Logger, recoveryFilePath string) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	if broker == nil {
		broker = NewBroker()
	}
	m := &Model{broker: broker, log: logger, recoveryFilePath: recoveryFilePath, splitCount: 2}
	m.SetOpus(radix.NewOpus())
	if recoveryFilePath != "" {
		if err := m.LoadRecovery(); err != nil {
			logger.Warn("could not load recovery file", zap.String("path", recoveryFilePath), zap.Error(err))
		}
	}
	return m
}

// Opus returns the opus being edited. It must not be modified directly; use
// the edit methods so that the changes are recorded and flagged.
func (m *Model) Opus() *radix.Opus { return m.d.Opus }

// SetOpus replaces the edited opus. The undo ledger is cleared, every beat
// and line is flagged and the cursor moves to the first leaf.
func (m *Model) SetOpus(o *radix.Opus) {
	m.d.Opus = o
	m.d.Cursor = Cursor{}
	m.history.clear()
	m.updates.Clear()
	for b := 0; b < o.BeatCount; b++ {
		m.updates.Flag(BeatUpdate, Update{Beat: b, Op: OpNew})
	}
	for c, lines := range o.Channels {
		for l := range lines {
			m.updates.Flag(LineUpdate, Update{Channel: c, Line: l, Op: OpInit})
		}
	}
	m.clampCursor()
	m.log.Debug("opus set", zap.Int("lines", o.LineCount()), zap.Int("beats", o.BeatCount))
}

// ResetOpus starts editing a new opus with no file.
func (m *Model) ResetOpus() {
	m.SetOpus(radix.NewOpus())
	m.d.FilePath = ""
	m.d.ChangedSinceSave = false
}

func (m *Model) Updates() *UpdatesCache { return &m.updates }
func (m *Model) Broker() *Broker        { return m.broker }
func (m *Model) FilePath() string       { return m.d.FilePath }
func (m *Model) SetFilePath(value string) {
	m.d.FilePath = value
}
func (m *Model) ChangedSinceSave() bool { return m.d.ChangedSinceSave }

// ProcessMsg handles a message posted to the broker by another goroutine.
func (m *Model) ProcessMsg(msg MsgToModel) {
	switch e := msg.Data.(type) {
	case Alert:
		m.alerts.AddAlert(e)
	case SaveRecoveryMsg:
		if err := m.SaveRecovery(); err != nil {
			m.Alerts().Add(err.Error(), Error)
		}
	case func():
		e()
	}
}

// changed marks the opus as modified after a successful edit.
func (m *Model) changed() {
	m.d.ChangedSinceSave = true
	m.changedSinceRecovery = true
	m.clampCursor()
}
