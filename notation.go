package radix

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Control characters of the bracket notation. ChCloseOpen is a shorthand
// for ChClose, ChNext and ChOpen in that order.
const (
	ChOpen      = '['
	ChClose     = ']'
	ChNext      = ','
	ChCloseOpen = '|'

	// relative event markers, each followed by a single digit
	ChAdd      = '+'
	ChSubtract = '-'
	ChUp       = '^'
	ChDown     = 'v'
)

const (
	DefaultRadix = 12
	MinRadix     = 2
	// MaxRadix stops below 32 because 'v' is taken by ChDown.
	MaxRadix = 31

	excerptContext = 19
	digitChars     = "0123456789abcdefghijklmnopqrstu"
)

var (
	ErrMissingComma     = errors.New("missing comma")
	ErrUnclosedGrouping = errors.New("unclosed grouping")
	ErrUnmatchedClose   = errors.New("unmatched close")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrIncompleteEvent  = errors.New("incomplete event")
	ErrUnrepresentable  = errors.New("cannot be written in notation")
	ErrInvalidRadix     = errors.New("invalid radix")
)

// ParseError reports where the notation could not be parsed. Input is the
// notation with whitespace removed and Offset indexes into it. Beat is the
// index of the top-level grouping being parsed when the error was found.
type ParseError struct {
	Err    error
	Input  string
	Offset int
	Beat   int
}

func (e *ParseError) Error() string {
	switch e.Err {
	case ErrMissingComma:
		return fmt.Sprintf("error in beat %d at position %d: can't place notes in structural subgrouping or vice versa, missing %q", e.Beat, e.Offset, ChNext)
	case ErrUnclosedGrouping:
		return fmt.Sprintf("unmatched %q or %q at position %d in beat %d", ChOpen, ChCloseOpen, e.Offset, e.Beat)
	case ErrUnmatchedClose:
		return fmt.Sprintf("unmatched %q at position %d in beat %d", ChClose, e.Offset, e.Beat)
	case ErrInvalidCharacter:
		r, _ := utf8.DecodeRuneInString(e.Input[min(max(e.Offset, 0), len(e.Input)):])
		return fmt.Sprintf("invalid character %q at position %d in beat %d", r, e.Offset, e.Beat)
	}
	return fmt.Sprintf("%v at position %d in beat %d", e.Err, e.Offset, e.Beat)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Excerpt renders the part of the input around Offset, at most 19
// characters on each side, between a marker line and a caret line. Cut ends
// are replaced with "...". For a missing comma a space is inserted at the
// offset, where the comma should go.
func (e *ParseError) Excerpt() string {
	input := []rune(e.Input)
	off := utf8.RuneCountInString(e.Input[:min(max(e.Offset, 0), len(e.Input))])
	a := max(0, off-excerptContext)
	b := min(len(input), off+excerptContext)
	chunk := append([]rune{}, input[a:off]...)
	if errors.Is(e.Err, ErrMissingComma) {
		chunk = append(chunk, ' ')
	}
	chunk = append(chunk, input[off:b]...)
	if a > 0 {
		chunk = append([]rune("..."), chunk[3:]...)
	}
	if b < len(input) {
		chunk = append(chunk[:len(chunk)-3], []rune("...")...)
	}
	marker := strings.Repeat("-", off-a)
	return marker + "!\n" + string(chunk) + "\n" + marker + "^"
}

// Parse reads the bracket notation into a structural grouping whose children
// are the top-level groupings of the input. Digits are read in the given
// radix, two at a time: octave, then note.
func Parse(repstring string, radix int) (*Grouping, error) {
	if err := checkRadix(radix); err != nil {
		return nil, err
	}
	p := parser{input: stripSpace(repstring), radix: radix}
	return p.parse()
}

// ParseBeats parses a line of beats, i.e. returns the children of the
// grouping Parse would return.
func ParseBeats(repstring string, radix int) ([]*Grouping, error) {
	root, err := Parse(repstring, radix)
	if err != nil {
		return nil, err
	}
	return root.children, nil
}

type parser struct {
	input string
	radix int

	root  *Grouping
	stack []*Grouping
	// offsets and beats of the openers of stack[1:]
	opened      []int
	openedBeats []int

	register   []int
	registerAt int
	relative   byte
	relativeAt int
}

func (p *parser) parse() (*Grouping, error) {
	p.root = NewGrouping()
	p.root.Resize(1)
	p.stack = []*Grouping{p.root}
	for i := 0; i < len(p.input); i++ {
		c := p.input[i]
		switch c {
		case ChOpen, ChClose, ChNext, ChCloseOpen:
			if p.relative != 0 {
				return nil, p.errorAt(ErrIncompleteEvent, p.relativeAt)
			}
			if err := p.control(c, i); err != nil {
				return nil, err
			}
		case ChAdd, ChSubtract, ChUp, ChDown:
			if p.relative != 0 || len(p.register) > 0 {
				return nil, p.errorAt(ErrIncompleteEvent, i)
			}
			p.relative, p.relativeAt = c, i
		default:
			d, ok := digitValue(c, p.radix)
			if !ok {
				return nil, p.errorAt(ErrInvalidCharacter, i)
			}
			if err := p.digit(d, i); err != nil {
				return nil, err
			}
		}
	}
	if n := len(p.opened); n > 0 {
		return nil, &ParseError{Err: ErrUnclosedGrouping, Input: p.input, Offset: p.opened[n-1], Beat: p.openedBeats[n-1]}
	}
	if p.relative != 0 {
		return nil, p.errorAt(ErrIncompleteEvent, p.relativeAt)
	}
	if len(p.register) > 0 {
		return nil, p.errorAt(ErrIncompleteEvent, p.registerAt)
	}
	return p.root, nil
}

func (p *parser) control(c byte, i int) error {
	if c == ChClose || c == ChCloseOpen {
		if len(p.stack) == 1 {
			return p.errorAt(ErrUnmatchedClose, i)
		}
		p.stack = p.stack[:len(p.stack)-1]
		p.opened = p.opened[:len(p.opened)-1]
		p.openedBeats = p.openedBeats[:len(p.openedBeats)-1]
	}
	if c == ChNext || c == ChCloseOpen {
		top := p.top()
		top.children = append(top.children, NewGrouping())
	}
	if c == ChOpen || c == ChCloseOpen {
		top := p.top()
		child := top.children[len(top.children)-1]
		if child.IsStructural() || child.Resize(1) != nil {
			return p.errorAt(ErrMissingComma, i)
		}
		p.stack = append(p.stack, child)
		p.opened = append(p.opened, i)
		p.openedBeats = append(p.openedBeats, p.beat())
	}
	return nil
}

func (p *parser) digit(d, i int) error {
	if p.relative != 0 {
		e := relativeEvent(p.relative, d)
		p.relative = 0
		return p.commit(e, p.relativeAt)
	}
	if len(p.register) == 0 {
		p.registerAt = i
	}
	p.register = append(p.register, d)
	if len(p.register) < 2 {
		return nil
	}
	e := Event{Octave: p.register[0], Note: p.register[1]}
	p.register = p.register[:0]
	return p.commit(e, p.registerAt)
}

func (p *parser) commit(e Event, at int) error {
	top := p.top()
	leaf := top.children[len(top.children)-1]
	if err := leaf.AddEvent(e); err != nil {
		return p.errorAt(ErrMissingComma, at)
	}
	return nil
}

func (p *parser) top() *Grouping { return p.stack[len(p.stack)-1] }

func (p *parser) beat() int { return p.root.Size() - 1 }

func (p *parser) errorAt(err error, offset int) error {
	return &ParseError{Err: err, Input: p.input, Offset: offset, Beat: p.beat()}
}

func relativeEvent(marker byte, d int) Event {
	switch marker {
	case ChSubtract:
		return Event{Note: -d, Relative: true}
	case ChUp:
		return Event{Octave: d, Relative: true}
	case ChDown:
		return Event{Octave: -d, Relative: true}
	}
	return Event{Note: d, Relative: true}
}

// Format writes g in the bracket notation. The children of a structural g
// become the top-level groupings, so that Parse(Format(g)) equals g for every
// g returned by Parse. A leaf g is written as the only top-level grouping.
func Format(g *Grouping, radix int) (string, error) {
	if g.IsStructural() {
		return FormatBeats(g.children, radix)
	}
	return FormatBeats([]*Grouping{g}, radix)
}

// FormatBeats writes a line of beats; the inverse of ParseBeats.
func FormatBeats(beats []*Grouping, radix int) (string, error) {
	if err := checkRadix(radix); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := formatChildren(&b, beats, radix); err != nil {
		return "", err
	}
	return strings.ReplaceAll(b.String(), string([]byte{ChClose, ChNext, ChOpen}), string(ChCloseOpen)), nil
}

func formatChildren(b *strings.Builder, children []*Grouping, radix int) error {
	for i, c := range children {
		if i > 0 {
			b.WriteByte(ChNext)
		}
		if err := formatNode(b, c, radix); err != nil {
			return err
		}
	}
	return nil
}

func formatNode(b *strings.Builder, g *Grouping, radix int) error {
	switch g.state {
	case EventState:
		for _, e := range g.events {
			if err := formatEvent(b, e, radix); err != nil {
				return err
			}
		}
	case StructuralState:
		b.WriteByte(ChOpen)
		if err := formatChildren(b, g.children, radix); err != nil {
			return err
		}
		b.WriteByte(ChClose)
	}
	return nil
}

func formatEvent(b *strings.Builder, e Event, radix int) error {
	if e.Bend != 0 {
		return fmt.Errorf("event %v: pitch bend %w", e, ErrUnrepresentable)
	}
	if !e.Relative {
		if e.Octave < 0 || e.Octave >= radix || e.Note < 0 || e.Note >= radix {
			return fmt.Errorf("event %v in radix %d: %w", e, radix, ErrUnrepresentable)
		}
		b.WriteByte(digitChars[e.Octave])
		b.WriteByte(digitChars[e.Note])
		return nil
	}
	var marker byte
	var d int
	switch {
	case e.Octave != 0 && e.Note != 0:
		return fmt.Errorf("relative event %v mixing octaves and notes: %w", e, ErrUnrepresentable)
	case e.Octave > 0:
		marker, d = ChUp, e.Octave
	case e.Octave < 0:
		marker, d = ChDown, -e.Octave
	case e.Note < 0:
		marker, d = ChSubtract, -e.Note
	default:
		marker, d = ChAdd, e.Note
	}
	if d >= radix {
		return fmt.Errorf("relative event %v in radix %d: %w", e, radix, ErrUnrepresentable)
	}
	b.WriteByte(marker)
	b.WriteByte(digitChars[d])
	return nil
}

func digitValue(c byte, radix int) (int, bool) {
	var d int
	switch {
	case '0' <= c && c <= '9':
		d = int(c - '0')
	case 'a' <= c && c <= 'z':
		d = int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		d = int(c-'A') + 10
	default:
		return 0, false
	}
	return d, d < radix
}

func checkRadix(radix int) error {
	if radix < MinRadix || radix > MaxRadix {
		return fmt.Errorf("%w: %d, should be in [%d, %d]", ErrInvalidRadix, radix, MinRadix, MaxRadix)
	}
	return nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
