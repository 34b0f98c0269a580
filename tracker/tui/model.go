package tui

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bep/debounce"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/qfs/radix"
	"github.com/qfs/radix/tracker"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const alertTick = 100 * time.Millisecond

type (
	// Model is the terminal front end of a tracker.Model. All edits happen in
	// the bubbletea update loop; the broker of the tracker model is drained
	// there too.
	Model struct {
		model    *tracker.Model
		keys     KeyMap
		prefs    Preferences
		beats    beatCache
		autosave func(func())
		caser    cases.Caser
		log      *zap.Logger
		lastTick time.Time
		quitting bool
	}

	brokerMsg tracker.MsgToModel
	tickMsg   time.Time
)

func NewModel(model *tracker.Model, keys KeyMap, prefs Preferences, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		model:    model,
		keys:     keys,
		prefs:    prefs,
		beats:    beatCache{beats: map[radix.BeatKey]string{}},
		autosave: debounce.New(prefs.AutosaveDelay()),
		caser:    cases.Title(language.English),
		log:      logger,
	}
	if prefs.YmlError != nil {
		model.Alerts().Add("preferences.yml: "+prefs.YmlError.Error(), tracker.Warning)
	}
	return m
}

// ListenForBroker returns a command that waits for the next message posted
// to the broker.
func ListenForBroker(b *tracker.Broker) tea.Cmd {
	return func() tea.Msg {
		return brokerMsg(<-b.ToModel)
	}
}

func tick() tea.Cmd {
	return tea.Tick(alertTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	m.lastTick = time.Now()
	return tea.Batch(ListenForBroker(m.model.Broker()), tick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.KeyEvent(msg.String())
		m.refresh()
		return m, cmd
	case brokerMsg:
		m.model.ProcessMsg(tracker.MsgToModel(msg))
		m.refresh()
		return m, ListenForBroker(m.model.Broker())
	case tickMsg:
		now := time.Time(msg)
		m.model.Alerts().Update(now.Sub(m.lastTick))
		m.lastTick = now
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return strings.Join([]string{
		m.renderStatus(),
		m.renderLines(),
		m.renderAlert(),
		m.renderHelp(),
	}, "\n")
}

// refresh drains the updates of the model and schedules the recovery file
// to be written once the edits settle down.
func (m *Model) refresh() {
	if m.beats.refresh(m.model.Updates()) {
		broker := m.model.Broker()
		m.autosave(func() {
			tracker.TrySend(broker.ToModel, tracker.MsgToModel{Data: tracker.SaveRecoveryMsg{}})
		})
	}
}

// KeyEvent runs the action bound to key. An unbound digit of the radix
// enters a note at the cursor.
func (m *Model) KeyEvent(key string) tea.Cmd {
	action, ok := m.keys.Action(key)
	if !ok {
		if note, ok := m.noteForKey(key); ok {
			m.model.SetEventAtCursor(m.model.EventForNote(note)).Do()
		}
		return nil
	}
	m.log.Debug("key", zap.String("key", key), zap.String("action", action))
	switch action {
	case "Quit":
		return m.quit()
	// Cursor
	case "MoveLeft":
		m.model.MoveLeft()
	case "MoveRight":
		m.model.MoveRight()
	case "MoveUp":
		m.model.MoveUp()
	case "MoveDown":
		m.model.MoveDown()
	case "Mark":
		m.model.Mark()
	// Actions
	case "Undo":
		m.model.UndoAction().Do()
	case "Remove":
		m.model.RemoveAtCursor().Do()
	case "Unset":
		m.model.UnsetAtCursor().Do()
	case "InsertAfter":
		m.model.InsertAfterCursor().Do()
	case "Split":
		m.model.SplitAtCursor().Do()
	case "InsertBeat":
		m.model.InsertBeatAtCursor().Do()
	case "RemoveBeat":
		m.model.RemoveBeatAtCursor().Do()
	case "NewLine":
		m.model.NewLineAtCursor().Do()
	case "RemoveLine":
		m.model.RemoveLineAtCursor().Do()
	case "LinkToMark":
		m.model.LinkToMark().Do()
	case "Unlink":
		m.model.UnlinkAtCursor().Do()
	case "PasteMark":
		m.model.PasteMark().Do()
	case "SwapChannelUp":
		m.swapChannel(-1)
	case "SwapChannelDown":
		m.swapChannel(1)
	// Values
	case "SplitCountUp":
		m.model.SplitCount().Int().Add(1)
	case "SplitCountDown":
		m.model.SplitCount().Int().Add(-1)
	case "OctaveUp":
		m.model.Octave().Int().Add(1)
	case "OctaveDown":
		m.model.Octave().Int().Add(-1)
	case "TempoUp":
		m.model.Tempo().Int().Add(1)
	case "TempoDown":
		m.model.Tempo().Int().Add(-1)
	case "ToggleRelative":
		m.model.RelativeEntry().Bool().Toggle()
	// Files
	case "Save":
		m.save()
	case "ExportMidi":
		m.exportMidi()
	default:
		m.log.Warn("unknown action", zap.String("action", action))
	}
	return nil
}

func (m *Model) noteForKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	var d int
	switch {
	case '0' <= c && c <= '9':
		d = int(c - '0')
	case 'a' <= c && c <= 'z':
		d = int(c-'a') + 10
	default:
		return 0, false
	}
	return d, d < m.model.Opus().Radix
}

func (m *Model) swapChannel(delta int) {
	c := m.model.Cursor().Key.Channel
	if err := m.model.SwapChannels(c, c+delta); err != nil {
		m.model.Alerts().Add(err.Error(), tracker.Warning)
	}
}

func (m *Model) save() {
	if err := m.model.SaveFile(""); err != nil {
		m.model.Alerts().Add(err.Error(), tracker.Error)
		return
	}
	m.model.Alerts().Add("Saved "+m.model.FilePath(), tracker.Info)
}

func (m *Model) exportMidi() {
	p := m.model.FilePath()
	if p == "" {
		m.model.Alerts().Add("Save the song before exporting", tracker.Warning)
		return
	}
	p = strings.TrimSuffix(p, filepath.Ext(p)) + ".mid"
	f, err := os.Create(p)
	if err != nil {
		m.model.Alerts().Add(err.Error(), tracker.Error)
		return
	}
	m.model.ExportSMF(f, m.prefs.PPQN)
}

// quit writes the recovery file if the song has unsaved changes and removes
// it otherwise.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	var err error
	if m.model.ChangedSinceSave() {
		err = m.model.SaveRecovery()
	} else {
		err = m.model.DiscardRecovery()
	}
	if err != nil {
		m.log.Error("recovery file", zap.Error(err))
	}
	return tea.Quit
}
