package radix

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

type (
	// Grouping is a node of the rhythm tree: a span of time that is either
	// empty, holds one or more simultaneous events, or is divided into an
	// ordered list of equally long child groupings. The state is a closed tag;
	// the payload fields are only meaningful for the matching state, so a
	// Grouping never holds children and events at the same time.
	//
	// Every child is exclusively owned by its parent. Methods that take a
	// *Grouping argument take ownership of it; use Copy to keep a version of
	// your own.
	Grouping struct {
		state    GroupingState
		events   []Event
		children []*Grouping
	}

	// GroupingState tags which payload a Grouping currently holds.
	GroupingState int
)

const (
	UnsetState GroupingState = iota
	EventState
	StructuralState
)

var (
	// ErrBadState is returned when a grouping cannot make the requested
	// transition from its current state, e.g. when resizing a node that still
	// holds events.
	ErrBadState = errors.New("bad grouping state")
	// ErrInvalidPosition is returned when a path or key does not address a
	// node of the tree.
	ErrInvalidPosition = errors.New("invalid position")
)

func (s GroupingState) String() string {
	switch s {
	case UnsetState:
		return "unset"
	case EventState:
		return "event"
	case StructuralState:
		return "structural"
	}
	return fmt.Sprintf("GroupingState(%d)", int(s))
}

// NewGrouping returns an unset leaf.
func NewGrouping() *Grouping {
	return &Grouping{}
}

func (g *Grouping) State() GroupingState { return g.state }
func (g *Grouping) IsUnset() bool        { return g.state == UnsetState }
func (g *Grouping) IsEvent() bool        { return g.state == EventState }
func (g *Grouping) IsStructural() bool   { return g.state == StructuralState }

// Size returns the number of direct children of a structural node and 1 for
// a leaf.
func (g *Grouping) Size() int {
	if g.state == StructuralState {
		return len(g.children)
	}
	return 1
}

// Resize makes the node structural with n fresh unset children, discarding
// the previous children. A node holding events must be cleared first.
func (g *Grouping) Resize(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: cannot resize to %d children", ErrBadState, n)
	}
	if g.state == EventState {
		return fmt.Errorf("%w: cannot subdivide a grouping holding events", ErrBadState)
	}
	g.children = make([]*Grouping, n)
	for i := range g.children {
		g.children[i] = NewGrouping()
	}
	g.state = StructuralState
	g.events = nil
	return nil
}

// SetEvent replaces the events of a leaf with exactly e.
func (g *Grouping) SetEvent(e Event) error {
	if g.state == StructuralState {
		return fmt.Errorf("%w: cannot place an event in a structural grouping", ErrBadState)
	}
	g.events = []Event{e}
	g.state = EventState
	return nil
}

// AddEvent adds e to the events of a leaf, so that one leaf can sound a
// chord.
func (g *Grouping) AddEvent(e Event) error {
	if g.state == StructuralState {
		return fmt.Errorf("%w: cannot place an event in a structural grouping", ErrBadState)
	}
	g.events = append(g.events, e)
	g.state = EventState
	return nil
}

// ClearEvents returns the node to the unset state. Children of a structural
// node are dropped as well.
func (g *Grouping) ClearEvents() {
	g.state = UnsetState
	g.events = nil
	g.children = nil
}

// Events returns a copy of the events of the node; nil unless IsEvent.
func (g *Grouping) Events() []Event {
	if g.state != EventState {
		return nil
	}
	ret := make([]Event, len(g.events))
	copy(ret, g.events)
	return ret
}

// Child returns the i:th child, or nil if the node is not structural or i is
// out of range.
func (g *Grouping) Child(i int) *Grouping {
	if g.state != StructuralState || i < 0 || i >= len(g.children) {
		return nil
	}
	return g.children[i]
}

// Get follows path from g, one child index per level.
func (g *Grouping) Get(path []int) (*Grouping, error) {
	node := g
	for depth, i := range path {
		next := node.Child(i)
		if next == nil {
			return nil, fmt.Errorf("%w: %v (level %d)", ErrInvalidPosition, path, depth)
		}
		node = next
	}
	return node, nil
}

// InsertChild inserts child at index i of a structural node, i in [0, Size()].
func (g *Grouping) InsertChild(i int, child *Grouping) error {
	if g.state != StructuralState {
		return fmt.Errorf("%w: cannot insert a child into a %v grouping", ErrBadState, g.state)
	}
	if i < 0 || i > len(g.children) {
		return fmt.Errorf("%w: child index %d", ErrInvalidPosition, i)
	}
	g.children = slices.Insert(g.children, i, child)
	return nil
}

// RemoveChild detaches and returns the i:th child. Removing the last child
// leaves the node unset.
func (g *Grouping) RemoveChild(i int) (*Grouping, error) {
	child := g.Child(i)
	if child == nil {
		return nil, fmt.Errorf("%w: child index %d", ErrInvalidPosition, i)
	}
	g.children = slices.Delete(g.children, i, i+1)
	if len(g.children) == 0 {
		g.ClearEvents()
	}
	return child, nil
}

// ReplaceChild puts child in place of the i:th child.
func (g *Grouping) ReplaceChild(i int, child *Grouping) error {
	if g.Child(i) == nil {
		return fmt.Errorf("%w: child index %d", ErrInvalidPosition, i)
	}
	g.children[i] = child
	return nil
}

// Assign makes g a deep copy of other, keeping the identity of g so that a
// parent keeps pointing to it.
func (g *Grouping) Assign(other *Grouping) {
	c := other.Copy()
	*g = *c
}

func (g *Grouping) Copy() *Grouping {
	ret := &Grouping{state: g.state}
	if g.events != nil {
		ret.events = make([]Event, len(g.events))
		copy(ret.events, g.events)
	}
	if g.children != nil {
		ret.children = make([]*Grouping, len(g.children))
		for i, c := range g.children {
			ret.children[i] = c.Copy()
		}
	}
	return ret
}

// Equal reports whether the two trees have the same shape and events.
func (g *Grouping) Equal(other *Grouping) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.state != other.state {
		return false
	}
	switch g.state {
	case EventState:
		return slices.Equal(g.events, other.events)
	case StructuralState:
		return slices.EqualFunc(g.children, other.children, (*Grouping).Equal)
	}
	return true
}

// Flatten returns the leaves of the tree in depth-first, left-to-right
// order. A leaf returns itself. Playback divides the span of g equally among
// the returned leaves, whatever their depth.
func (g *Grouping) Flatten() []*Grouping {
	return g.appendLeaves(nil)
}

func (g *Grouping) appendLeaves(leaves []*Grouping) []*Grouping {
	if g.state != StructuralState {
		return append(leaves, g)
	}
	for _, c := range g.children {
		leaves = c.appendLeaves(leaves)
	}
	return leaves
}

// LeafCount returns the number of leaves below g (1 for a leaf).
func (g *Grouping) LeafCount() int {
	if g.state != StructuralState {
		return 1
	}
	n := 0
	for _, c := range g.children {
		n += c.LeafCount()
	}
	return n
}

// LeafPaths returns the paths of the leaves in the same order as Flatten.
func (g *Grouping) LeafPaths() [][]int {
	var ret [][]int
	var walk func(node *Grouping, path []int)
	walk = func(node *Grouping, path []int) {
		if node.state != StructuralState {
			ret = append(ret, slices.Clone(path))
			return
		}
		for i, c := range node.children {
			walk(c, append(path, i))
		}
	}
	walk(g, []int{})
	return ret
}

// MarshalText writes the grouping in the bracket notation using the default
// radix.
func (g *Grouping) MarshalText() ([]byte, error) {
	s, err := Format(g, DefaultRadix)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalText parses the bracket notation using the default radix.
func (g *Grouping) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text), DefaultRadix)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}
