package radix_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/qfs/radix"
)

func TestGroupingStates(t *testing.T) {
	g := radix.NewGrouping()
	if !g.IsUnset() || g.Size() != 1 {
		t.Fatalf("new grouping should be an unset leaf, got %v of size %v", g.State(), g.Size())
	}
	if err := g.SetEvent(radix.Event{Octave: 4}); err != nil {
		t.Fatalf("SetEvent failed: %v", err)
	}
	if err := g.Resize(2); !errors.Is(err, radix.ErrBadState) {
		t.Fatalf("resizing an event leaf should fail with ErrBadState, got %v", err)
	}
	g.ClearEvents()
	if err := g.Resize(0); !errors.Is(err, radix.ErrBadState) {
		t.Fatalf("resizing to zero children should fail with ErrBadState, got %v", err)
	}
	if err := g.Resize(3); err != nil {
		t.Fatalf("Resize failed: %v", err)
	}
	if !g.IsStructural() || g.Size() != 3 {
		t.Fatalf("expected structural grouping of size 3, got %v of size %v", g.State(), g.Size())
	}
	if err := g.SetEvent(radix.Event{}); !errors.Is(err, radix.ErrBadState) {
		t.Fatalf("setting an event on a structural grouping should fail with ErrBadState, got %v", err)
	}
	if err := g.AddEvent(radix.Event{}); !errors.Is(err, radix.ErrBadState) {
		t.Fatalf("adding an event on a structural grouping should fail with ErrBadState, got %v", err)
	}
}

func TestSetEventReplacesChord(t *testing.T) {
	g := radix.NewGrouping()
	g.AddEvent(radix.Event{Octave: 1})
	g.AddEvent(radix.Event{Octave: 2})
	if len(g.Events()) != 2 {
		t.Fatalf("expected a chord of two events, got %v", g.Events())
	}
	g.SetEvent(radix.Event{Octave: 3})
	if expected := []radix.Event{{Octave: 3}}; !reflect.DeepEqual(g.Events(), expected) {
		t.Fatalf("got %v, expected %v", g.Events(), expected)
	}
}

func TestFlatten(t *testing.T) {
	for _, s := range []string{"12", "[12,34|56]", "[[[01,02],03],04]", "[,[,[,]]]", "[ab,[ab,ab,[ab,ab,ab,ab]]]"} {
		g, err := radix.Parse(s, radix.DefaultRadix)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", s, err)
		}
		leaves := g.Flatten()
		if len(leaves) != g.LeafCount() {
			t.Fatalf("%q: flatten gave %v leaves, leaf count is %v", s, len(leaves), g.LeafCount())
		}
		paths := g.LeafPaths()
		if len(paths) != len(leaves) {
			t.Fatalf("%q: %v leaf paths for %v leaves", s, len(paths), len(leaves))
		}
		for i, p := range paths {
			leaf, err := g.Get(p)
			if err != nil {
				t.Fatalf("%q: Get(%v) failed: %v", s, p, err)
			}
			if leaf != leaves[i] {
				t.Fatalf("%q: leaf path %v does not address leaf %v", s, p, i)
			}
		}
	}
}

func TestFlattenOrder(t *testing.T) {
	g, _ := radix.Parse("[[01,02],03]", radix.DefaultRadix)
	var notes []int
	for _, leaf := range g.Child(0).Flatten() {
		notes = append(notes, leaf.Events()[0].Note)
	}
	if expected := []int{1, 2, 3}; !reflect.DeepEqual(notes, expected) {
		t.Fatalf("leaves in wrong order: got %v, expected %v", notes, expected)
	}
}

func TestGet(t *testing.T) {
	g, _ := radix.Parse("[12,[34,56]]", radix.DefaultRadix)
	node, err := g.Get([]int{0, 1, 1})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if expected := []radix.Event{{Octave: 5, Note: 6}}; !reflect.DeepEqual(node.Events(), expected) {
		t.Fatalf("got %v, expected %v", node.Events(), expected)
	}
	for _, p := range [][]int{{1}, {0, 2}, {0, 0, 0}, {-1}} {
		if _, err := g.Get(p); !errors.Is(err, radix.ErrInvalidPosition) {
			t.Fatalf("Get(%v) should fail with ErrInvalidPosition, got %v", p, err)
		}
	}
}

func TestChildEditing(t *testing.T) {
	g := radix.NewGrouping()
	g.Resize(2)
	leaf := radix.NewGrouping()
	leaf.SetEvent(radix.Event{Note: 7})
	if err := g.InsertChild(1, leaf); err != nil {
		t.Fatalf("InsertChild failed: %v", err)
	}
	if g.Size() != 3 || g.Child(1) != leaf {
		t.Fatalf("child not inserted at index 1")
	}
	if err := g.InsertChild(4, radix.NewGrouping()); !errors.Is(err, radix.ErrInvalidPosition) {
		t.Fatalf("inserting past the end should fail with ErrInvalidPosition, got %v", err)
	}
	removed, err := g.RemoveChild(1)
	if err != nil || removed != leaf {
		t.Fatalf("RemoveChild did not return the removed child: %v", err)
	}
	g.RemoveChild(0)
	g.RemoveChild(0)
	if !g.IsUnset() {
		t.Fatalf("removing every child should leave the grouping unset, got %v", g.State())
	}
	if err := radix.NewGrouping().InsertChild(0, leaf); !errors.Is(err, radix.ErrBadState) {
		t.Fatalf("inserting into a leaf should fail with ErrBadState, got %v", err)
	}
}

func TestCopyIsDeep(t *testing.T) {
	g, _ := radix.Parse("[12,[34,56]]", radix.DefaultRadix)
	c := g.Copy()
	if !g.Equal(c) {
		t.Fatalf("copy differs from the original")
	}
	node, _ := c.Get([]int{0, 1, 0})
	node.SetEvent(radix.Event{Octave: 9})
	if g.Equal(c) {
		t.Fatalf("modifying the copy changed the original")
	}
	target := radix.NewGrouping()
	target.Assign(g)
	if !target.Equal(g) {
		t.Fatalf("Assign did not copy the tree")
	}
}
