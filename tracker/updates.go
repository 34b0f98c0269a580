package tracker

import "golang.org/x/exp/slices"

type (
	// UpdatesCache queues the coordinates touched by edits, so that a view can
	// redraw only what changed. Each kind of update has its own queue.
	UpdatesCache struct {
		queues [numUpdateKinds][]Update
	}

	// Update describes one change. BeatChangeUpdate uses Channel, Line and
	// Beat; BeatUpdate uses Beat and Op; LineUpdate uses Channel, Line and Op.
	Update struct {
		Channel int
		Line    int
		Beat    int
		Op      UpdateOp
	}

	UpdateKind int
	UpdateOp   int
)

const (
	// BeatChangeUpdate is flagged when the content of a beat changed.
	BeatChangeUpdate UpdateKind = iota
	// BeatUpdate is flagged when a beat column was inserted or removed.
	BeatUpdate
	// LineUpdate is flagged when a line was inserted, removed or loaded.
	LineUpdate
	numUpdateKinds
)

const (
	OpChanged UpdateOp = iota
	OpNew
	OpPop
	OpInit
)

func (o UpdateOp) String() string {
	switch o {
	case OpChanged:
		return "changed"
	case OpNew:
		return "new"
	case OpPop:
		return "pop"
	case OpInit:
		return "init"
	}
	return "unknown"
}

func (c *UpdatesCache) Flag(kind UpdateKind, u Update) {
	c.queues[kind] = append(c.queues[kind], u)
}

// Unflag removes the first queued update equal to u, if any.
func (c *UpdatesCache) Unflag(kind UpdateKind, u Update) {
	if i := slices.Index(c.queues[kind], u); i >= 0 {
		c.queues[kind] = slices.Delete(c.queues[kind], i, i+1)
	}
}

// Fetch returns the queued updates of a kind in the order they were flagged.
// Unless noclobber is set, the queue is emptied.
func (c *UpdatesCache) Fetch(kind UpdateKind, noclobber bool) []Update {
	ret := c.queues[kind]
	if noclobber {
		return slices.Clone(ret)
	}
	c.queues[kind] = nil
	return ret
}

// Clear empties every queue.
func (c *UpdatesCache) Clear() {
	for i := range c.queues {
		c.queues[i] = nil
	}
}
