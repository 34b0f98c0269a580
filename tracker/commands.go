package tracker

import (
	"fmt"

	"github.com/qfs/radix"
)

type (
	// Command is a recorded inverse of an edit. The set of commands is closed;
	// Model.apply is the only place that executes them.
	Command interface {
		isCommand()
	}

	// ReplaceGroupingCmd puts a copy of Grouping at Position of the beat.
	ReplaceGroupingCmd struct {
		Key      radix.BeatKey
		Position []int
		Grouping *radix.Grouping
	}

	// ResizeCmd makes the node structural with Size fresh children.
	ResizeCmd struct {
		Key      radix.BeatKey
		Position []int
		Size     int
	}

	// SetEventsCmd makes the node a leaf holding exactly Events.
	SetEventsCmd struct {
		Key      radix.BeatKey
		Position []int
		Events   []radix.Event
	}

	UnsetCmd struct {
		Key      radix.BeatKey
		Position []int
	}

	InsertBeatCmd struct{ Index int }
	RemoveBeatCmd struct{ Index int }

	NewLineCmd struct {
		Channel int
		Index   int
	}

	RemoveLineCmd struct {
		Channel int
		Index   int
	}

	LinkBeatsCmd struct {
		Key    radix.BeatKey
		Target radix.BeatKey
	}

	UnlinkBeatCmd struct{ Key radix.BeatKey }

	SwapChannelsCmd struct{ A, B int }

	// RepopulateCmd rebuilds a subtree. Its commands run in the order they
	// were generated: a breadth-first walk of the subtree, so that a node is
	// always resized before its children are filled.
	RepopulateCmd struct {
		Commands []Command
	}
)

func (ReplaceGroupingCmd) isCommand() {}
func (ResizeCmd) isCommand()          {}
func (SetEventsCmd) isCommand()       {}
func (UnsetCmd) isCommand()           {}
func (InsertBeatCmd) isCommand()      {}
func (RemoveBeatCmd) isCommand()      {}
func (NewLineCmd) isCommand()         {}
func (RemoveLineCmd) isCommand()      {}
func (LinkBeatsCmd) isCommand()       {}
func (UnlinkBeatCmd) isCommand()      {}
func (SwapChannelsCmd) isCommand()    {}
func (RepopulateCmd) isCommand()      {}

// apply executes a command directly on the opus, without following links and
// without recording anything.
func (m *Model) apply(c Command) error {
	switch c := c.(type) {
	case ReplaceGroupingCmd:
		return m.replaceGrouping(c.Key, c.Position, c.Grouping)
	case ResizeCmd:
		return m.resize(c.Key, c.Position, c.Size)
	case SetEventsCmd:
		return m.setEvents(c.Key, c.Position, c.Events)
	case UnsetCmd:
		return m.unset(c.Key, c.Position)
	case InsertBeatCmd:
		return m.insertBeat(c.Index)
	case RemoveBeatCmd:
		return m.removeBeat(c.Index)
	case NewLineCmd:
		return m.newLine(c.Channel, c.Index)
	case RemoveLineCmd:
		return m.removeLine(c.Channel, c.Index)
	case LinkBeatsCmd:
		return m.linkBeats(c.Key, c.Target)
	case UnlinkBeatCmd:
		return m.unlinkBeat(c.Key)
	case SwapChannelsCmd:
		return m.swapChannels(c.A, c.B)
	case RepopulateCmd:
		for _, inner := range c.Commands {
			if err := m.apply(inner); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown command %T", c)
}

// repopulate returns the commands that rebuild the subtree currently at
// position of the beat at key.
func repopulate(key radix.BeatKey, position []int, node *radix.Grouping) RepopulateCmd {
	type item struct {
		position []int
		node     *radix.Grouping
	}
	var ret RepopulateCmd
	queue := []item{{clonePath(position), node}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		switch {
		case it.node.IsStructural():
			ret.Commands = append(ret.Commands, ResizeCmd{Key: key, Position: it.position, Size: it.node.Size()})
			for i := 0; i < it.node.Size(); i++ {
				queue = append(queue, item{append(clonePath(it.position), i), it.node.Child(i)})
			}
		case it.node.IsEvent():
			ret.Commands = append(ret.Commands, SetEventsCmd{Key: key, Position: it.position, Events: it.node.Events()})
		default:
			ret.Commands = append(ret.Commands, UnsetCmd{Key: key, Position: it.position})
		}
	}
	return ret
}

func clonePath(p []int) []int {
	ret := make([]int, len(p))
	copy(ret, p)
	return ret
}
