package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/qfs/radix"
	"github.com/qfs/radix/tracker"
	"golang.org/x/exp/slices"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	beatStyle   = lipgloss.NewStyle().PaddingRight(1)
	linkedStyle = beatStyle.Foreground(lipgloss.Color("14"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	unsetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	alertStyles = map[tracker.AlertPriority]lipgloss.Style{
		tracker.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tracker.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		tracker.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

const unsetGlyph = "·"

// beatCache holds the rendered text of the beats not under the cursor. It is
// invalidated from the updates of the model.
type beatCache struct {
	beats map[radix.BeatKey]string
}

func (c *beatCache) refresh(u *tracker.UpdatesCache) (changed bool) {
	// inserting or removing beats or lines shifts the keys of everything after
	if len(u.Fetch(tracker.LineUpdate, false)) > 0 {
		clear(c.beats)
		changed = true
	}
	if len(u.Fetch(tracker.BeatUpdate, false)) > 0 {
		clear(c.beats)
		changed = true
	}
	for _, b := range u.Fetch(tracker.BeatChangeUpdate, false) {
		delete(c.beats, radix.BeatKey{Channel: b.Channel, Line: b.Line, Beat: b.Beat})
		changed = true
	}
	return changed
}

func (c *beatCache) get(key radix.BeatKey, beat *radix.Grouping, r int) string {
	if s, ok := c.beats[key]; ok {
		return s
	}
	s := renderNode(beat, r, nil, nil)
	c.beats[key] = s
	return s
}

// renderNode writes g in the bracket notation, with unset leaves made
// visible. The leaf at cursor, if any, is drawn in cursorStyle.
func renderNode(g *radix.Grouping, r int, path, cursor []int) string {
	if !g.IsStructural() {
		s := unsetGlyph
		if g.IsEvent() {
			var err error
			if s, err = radix.FormatBeats([]*radix.Grouping{g}, r); err != nil {
				s = "?"
			}
		}
		if cursor != nil && slices.Equal(path, cursor) {
			return cursorStyle.Render(s)
		}
		if g.IsUnset() {
			return unsetStyle.Render(s)
		}
		return s
	}
	var b strings.Builder
	b.WriteByte(radix.ChOpen)
	for i := 0; i < g.Size(); i++ {
		if i > 0 {
			b.WriteByte(radix.ChNext)
		}
		b.WriteString(renderNode(g.Child(i), r, append(path, i), cursor))
	}
	b.WriteByte(radix.ChClose)
	return b.String()
}

func (m *Model) renderLines() string {
	o := m.model.Opus()
	c := m.model.Cursor()
	mark, marked := m.model.MarkedBeat()
	var b strings.Builder
	for ch := range o.Channels {
		for l, line := range o.Channels[ch] {
			b.WriteString(labelStyle.Render(fmt.Sprintf("%2d:%-3d ", ch, l)))
			for i, beat := range line {
				key := radix.BeatKey{Channel: ch, Line: l, Beat: i}
				var s string
				if key == c.Key {
					pos := c.Position
					if pos == nil {
						pos = []int{}
					}
					s = renderNode(beat, o.Radix, []int{}, pos)
				} else {
					s = m.beats.get(key, beat, o.Radix)
				}
				style := beatStyle
				if o.Links.IsLinked(key) {
					style = linkedStyle
				}
				if marked && key == mark {
					style = style.Underline(true)
				}
				b.WriteString(style.Render(s))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	o := m.model.Opus()
	title := "untitled"
	if p := m.model.FilePath(); p != "" {
		title = p
	}
	if m.model.ChangedSinceSave() {
		title += "*"
	}
	relative := "off"
	if m.model.RelativeEntry().Value() {
		relative = "on"
	}
	fields := []string{
		headerStyle.Render("radix " + title),
		m.label("tempo", o.Tempo),
		m.label("radix", o.Radix),
		m.label("octave", m.model.Octave().Value()),
		m.label("split count", m.model.SplitCount().Value()),
		m.label("relative entry", relative),
		m.label("undo", m.model.History().Len()),
	}
	return strings.Join(fields, "  ")
}

func (m *Model) label(name string, value any) string {
	return labelStyle.Render(m.caser.String(name)+":") + fmt.Sprint(value)
}

func (m *Model) renderHelp() string {
	hint := ""
	hint = m.keys.makeHint(hint, "%s split ", "Split")
	hint = m.keys.makeHint(hint, "%s remove ", "Remove")
	hint = m.keys.makeHint(hint, "%s insert ", "InsertAfter")
	hint = m.keys.makeHint(hint, "%s undo ", "Undo")
	hint = m.keys.makeHint(hint, "%s mark ", "Mark")
	hint = m.keys.makeHint(hint, "%s link ", "LinkToMark")
	hint = m.keys.makeHint(hint, "%s save ", "Save")
	hint = m.keys.makeHint(hint, "%s quit", "Quit")
	return helpStyle.Render(hint)
}

func (m *Model) renderAlert() string {
	a, ok := m.model.Alerts().Top()
	if !ok {
		return ""
	}
	return alertStyles[a.Priority].Render(a.Message)
}
