package compiler_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/qfs/radix"
	"github.com/qfs/radix/compiler"
)

func testOpus(t *testing.T) *radix.Opus {
	t.Helper()
	o := radix.NewOpus()
	o.BeatCount = 2
	o.Channels[0] = nil
	for _, l := range []struct {
		channel  int
		notation string
	}{
		{0, "[10,11],12"},
		{0, "20,-1"},
		{3, "12,[10,11]"},
	} {
		beats, err := radix.ParseBeats(l.notation, o.Radix)
		if err != nil {
			t.Fatalf("could not parse %q: %v", l.notation, err)
		}
		o.Channels[l.channel] = append(o.Channels[l.channel], beats)
	}
	return o
}

func TestPatternReusing(t *testing.T) {
	table, err := compiler.ConstructPatterns(testOpus(t))
	if err != nil {
		t.Fatalf("error constructing patterns: %v", err)
	}
	expected := compiler.PatternTable{
		Patterns: []string{"[10,11]", "12", "20", "-1"},
		Sequences: []compiler.Sequence{
			{Channel: 0, Line: 0, Beats: []int{0, 1}},
			{Channel: 0, Line: 1, Beats: []int{2, 3}},
			{Channel: 3, Line: 0, Beats: []int{1, 0}},
		},
	}
	if !reflect.DeepEqual(*table, expected) {
		t.Fatalf("got different patterns than expected. got: %v expected: %v", *table, expected)
	}
}

func TestUnrepresentablePattern(t *testing.T) {
	o := radix.NewOpus()
	if err := o.Channels[0][0][1].SetEvent(radix.Event{Note: 3, Bend: 100}); err != nil {
		t.Fatal(err)
	}
	if _, err := compiler.ConstructPatterns(o); err == nil {
		t.Fatalf("expected an error for a bent note")
	}
}

func TestCompileLines(t *testing.T) {
	com, err := compiler.New(radix.DefaultPPQN)
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	if names := com.TemplateNames(); !reflect.DeepEqual(names, []string{"lines.txt", "patterns.txt", "summary.txt"}) {
		t.Fatalf("unexpected templates %v", names)
	}
	got, err := com.Compile(testOpus(t), "lines.txt")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if expected := "0:0 [10,11],12\n0:1 20,-1\n3:0 12,[10,11]\n"; got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestCompileSummary(t *testing.T) {
	com, err := compiler.New(radix.DefaultPPQN)
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	o := testOpus(t)
	o.Links.Link(radix.BeatKey{Channel: 3, Line: 0, Beat: 1}, radix.BeatKey{Channel: 0, Line: 0, Beat: 0})
	got, err := com.Compile(o, "summary.txt")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	for _, s := range []string{
		"tempo 120 bpm, 2 beats",
		"lines: 3",
		"notes: 8 (12..24)",
		"duration: 1.00 s",
		"Channel 3 Line 0: ",
		"linked beats 1",
	} {
		if !strings.Contains(got, s) {
			t.Errorf("summary does not contain %q:\n%s", s, got)
		}
	}
	got, err = com.Compile(o, "patterns.txt")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if !strings.Contains(got, "  3 -1") || !strings.Contains(got, "3:0 1 0") {
		t.Errorf("unexpected pattern table:\n%s", got)
	}
}

func TestCompileErrors(t *testing.T) {
	com, err := compiler.New(0)
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	if _, err := com.Compile(radix.NewOpus(), "lines.txt"); err == nil {
		t.Errorf("expected an error for ppqn 0")
	}
	com.PPQN = radix.DefaultPPQN
	if _, err := com.Compile(radix.NewOpus(), "missing.txt"); err == nil {
		t.Errorf("expected an error for a missing template")
	}
}

func TestCustomTemplates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "tempo.txt"), []byte("{{ .Opus.Tempo | add 1 }}"), 0644); err != nil {
		t.Fatal(err)
	}
	com, err := compiler.NewFromTemplates(radix.DefaultPPQN, dir)
	if err != nil {
		t.Fatalf("could not create compiler: %v", err)
	}
	got, err := com.Compile(radix.NewOpus(), "tempo.txt")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if got != "121" {
		t.Fatalf("got %q, expected 121", got)
	}
	if _, err := compiler.NewFromTemplates(radix.DefaultPPQN, filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
