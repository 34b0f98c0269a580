package compiler

import (
	"fmt"

	"github.com/qfs/radix"
)

type (
	// PatternTable stores every distinct beat of an opus once, as its
	// notation. Each line is a sequence of indices into the table, so linked
	// beats and repeated rhythms cost one entry.
	PatternTable struct {
		Patterns  []string
		Sequences []Sequence
	}

	Sequence struct {
		Channel int
		Line    int
		Beats   []int
	}
)

// addPatternsToTable looks up each pattern in the table, appending the ones
// not found. It returns the indices of the patterns and the updated table.
func addPatternsToTable(patterns []string, table []string, index map[string]int) ([]int, []string) {
	sequence := make([]int, len(patterns))
	for i, pat := range patterns {
		patternIndex, ok := index[pat]
		if !ok {
			patternIndex = len(table)
			table = append(table, pat)
			index[pat] = patternIndex
		}
		sequence[i] = patternIndex
	}
	return sequence, table
}

// ConstructPatterns builds the pattern table of the opus. Lines are visited
// channel by channel, so patterns are numbered by their first appearance.
func ConstructPatterns(o *radix.Opus) (*PatternTable, error) {
	var ret PatternTable
	index := map[string]int{}
	for c, lines := range o.Channels {
		for l, line := range lines {
			patterns := make([]string, len(line))
			for b, beat := range line {
				s, err := radix.FormatBeats([]*radix.Grouping{beat}, o.Radix)
				if err != nil {
					return nil, fmt.Errorf("channel %d line %d beat %d: %w", c, l, b, err)
				}
				patterns[b] = s
			}
			var sequence []int
			sequence, ret.Patterns = addPatternsToTable(patterns, ret.Patterns, index)
			ret.Sequences = append(ret.Sequences, Sequence{Channel: c, Line: l, Beats: sequence})
		}
	}
	return &ret, nil
}
