package parser

import (
	"bytes"
	"strconv"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithState(state State) Option {
	return func(p *Parser) {
		p.state = state
	}
}

// State records the grammatical context a production is parsed in.
type State uint8

const (
	// StateNested is set while parsing the contents of a style rule.
	StateNested State = 1 << iota
)

func (s State) Has(flag State) bool {
	return s&flag != 0
}

// Checkpoint is a saved parser position. Rewinding to it restores the
// stream position and drops diagnostics reported after it was taken.
type Checkpoint struct {
	pos         int
	diagnostics int
}

// Parser owns the token stream of one source buffer, the arena its nodes
// are allocated in, and the diagnostics reported while parsing.
type Parser struct {
	file        string
	source      []byte
	tokens      []Cursor
	pos         int
	arena       *Arena
	diagnostics []*Diagnostic
	state       State
	lines       *LineIndex
}

func New(source []byte, opts ...Option) *Parser {
	p := &Parser{
		source: source,
		arena:  NewArena(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tokens = Tokenize(source)
	return p
}

func (p *Parser) File() string {
	return p.file
}

func (p *Parser) Source() []byte {
	return p.source
}

// Tokens returns the full token stream, trivia included. It must not be
// modified.
func (p *Parser) Tokens() []Cursor {
	return p.tokens
}

func (p *Parser) Arena() *Arena {
	return p.arena
}

func (p *Parser) Diagnostics() []*Diagnostic {
	return p.diagnostics
}

func (p *Parser) Lines() *LineIndex {
	if p.lines == nil {
		p.lines = NewLineIndex(p.source, p.file)
	}
	return p.lines
}

func (p *Parser) State() State {
	return p.state
}

// SetState replaces the parse state and returns the previous one.
func (p *Parser) SetState(state State) State {
	prev := p.state
	p.state = state
	return prev
}

// significant returns the index of the first non-trivia token at or after i.
// The stream always ends with Eof, so the scan is bounded.
func (p *Parser) significant(i int) int {
	for p.tokens[i].Kind.IsTrivia() {
		i++
	}
	return i
}

// Peek returns the next significant cursor without consuming it.
func (p *Parser) Peek() Cursor {
	return p.tokens[p.significant(p.pos)]
}

// PeekN returns the significant cursor n places after the next one.
func (p *Parser) PeekN(n int) Cursor {
	i := p.significant(p.pos)
	for ; n > 0 && p.tokens[i].Kind != KindEof; n-- {
		i = p.significant(i + 1)
	}
	return p.tokens[i]
}

// PeekRaw returns the next cursor, trivia included.
func (p *Parser) PeekRaw() Cursor {
	return p.tokens[p.pos]
}

// Next consumes any trivia and the following significant cursor.
func (p *Parser) Next() Cursor {
	i := p.significant(p.pos)
	c := p.tokens[i]
	if c.Kind != KindEof {
		i++
	}
	p.pos = i
	return c
}

// NextRaw consumes exactly one cursor, trivia included.
func (p *Parser) NextRaw() Cursor {
	c := p.tokens[p.pos]
	if c.Kind != KindEof {
		p.pos++
	}
	return c
}

func (p *Parser) AtEnd() bool {
	return p.Peek().Kind == KindEof
}

// Offset returns the byte offset of the next significant cursor.
func (p *Parser) Offset() int {
	return int(p.Peek().Span.Start)
}

func (p *Parser) Checkpoint() Checkpoint {
	return Checkpoint{pos: p.pos, diagnostics: len(p.diagnostics)}
}

func (p *Parser) Rewind(cp Checkpoint) {
	p.pos = cp.pos
	if len(p.diagnostics) > cp.diagnostics {
		clear(p.diagnostics[cp.diagnostics:])
		p.diagnostics = p.diagnostics[:cp.diagnostics]
	}
}

// Since returns the cursors consumed after cp, trivia included. The slice
// shares the token stream's backing array.
func (p *Parser) Since(cp Checkpoint) []Cursor {
	return p.tokens[cp.pos:p.pos]
}

func (p *Parser) Report(kind DiagnosticKind, span Span) *Diagnostic {
	d := &Diagnostic{Kind: kind, Span: span}
	p.diagnostics = append(p.diagnostics, d)
	return d
}

// Unexpected reports c as out of place.
func (p *Parser) Unexpected(c Cursor) *Diagnostic {
	switch {
	case c.Kind == KindEof:
		return p.Report(DiagUnexpectedEnd, c.Span)
	case c.Kind == KindIdent:
		d := p.Report(DiagUnexpectedIdent, c.Span)
		d.Detail = p.Text(c)
		return d
	case BadKinds.Has(c.Kind):
		d := p.Report(DiagBadToken, c.Span)
		d.Expected = c.Kind
		return d
	}
	return p.Report(DiagUnexpected, c.Span)
}

// Expected reports that got stood where a cursor of kind was required.
func (p *Parser) Expected(kind Kind, got Cursor) *Diagnostic {
	d := p.Report(DiagExpected, got.Span)
	d.Expected = kind
	return d
}

// Expect consumes the next cursor if it has the given kind. On mismatch the
// cursor is left in place and the reported diagnostic is returned.
func (p *Parser) Expect(kind Kind) (Cursor, error) {
	c := p.Peek()
	if c.Kind != kind {
		return c, p.Expected(kind, c)
	}
	return p.Next(), nil
}

func (p *Parser) expectNamed(kind Kind, name string) (Cursor, error) {
	c := p.Peek()
	if c.Kind != kind || !p.EqIgnoreCase(c, name) {
		d := p.Expected(kind, c)
		d.Detail = name
		return c, d
	}
	return p.Next(), nil
}

// ExpectIdent consumes an identifier equal to name, ignoring ASCII case.
func (p *Parser) ExpectIdent(name string) (Cursor, error) {
	return p.expectNamed(KindIdent, name)
}

func (p *Parser) ExpectAtKeyword(name string) (Cursor, error) {
	return p.expectNamed(KindAtKeyword, name)
}

func (p *Parser) ExpectFunction(name string) (Cursor, error) {
	return p.expectNamed(KindFunction, name)
}

func (p *Parser) ExpectString() (Cursor, error) {
	return p.Expect(KindString)
}

func (p *Parser) ExpectDelim(ch byte) (Cursor, error) {
	c := p.Peek()
	if c.Kind != KindDelim || c.Char(p.source) != ch {
		d := p.Expected(KindDelim, c)
		d.Detail = string(rune(ch))
		return c, d
	}
	return p.Next(), nil
}

// IsDelim reports whether c is the delimiter ch.
func (p *Parser) IsDelim(c Cursor, ch byte) bool {
	return c.Kind == KindDelim && c.Char(p.source) == ch
}

func (p *Parser) Text(c Cursor) string {
	return c.Text(p.source)
}

func (p *Parser) raw(c Cursor) []byte {
	if c.IsSynthetic() || int(c.Span.End) > len(p.source) {
		return nil
	}
	return p.source[c.Span.Start:c.Span.End]
}

// nameBytes strips the sigils of a name-bearing cursor.
func (p *Parser) nameBytes(c Cursor) []byte {
	b := p.raw(c)
	switch c.Kind {
	case KindAtKeyword, KindHash:
		if len(b) > 0 {
			b = b[1:]
		}
	case KindFunction:
		if len(b) > 0 {
			b = b[:len(b)-1]
		}
	case KindDimension:
		b = b[c.Aux:]
	}
	return b
}

// Name returns the escape-decoded name of an ident, function, at-keyword,
// hash or dimension unit.
func (p *Parser) Name(c Cursor) string {
	b := p.nameBytes(c)
	if c.Flags.Has(FlagEscaped) {
		return unescape(string(b))
	}
	return string(b)
}

// EqIgnoreCase compares the name of c with name, ignoring ASCII case.
func (p *Parser) EqIgnoreCase(c Cursor, name string) bool {
	if c.Flags.Has(FlagEscaped) {
		return strings.EqualFold(p.Name(c), name)
	}
	b := p.nameBytes(c)
	if len(b) != len(name) {
		return false
	}
	for i := 0; i < len(b); i++ {
		if lower(b[i]) != lower(name[i]) {
			return false
		}
	}
	return true
}

func lower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + 'a' - 'A'
	}
	return ch
}

// StringValue returns the decoded contents of a string cursor.
func (p *Parser) StringValue(c Cursor) string {
	b := p.raw(c)
	if c.Kind != KindString || len(b) == 0 {
		return ""
	}
	b = b[1:]
	if !c.Flags.Has(FlagUnterminated) && len(b) > 0 {
		b = b[:len(b)-1]
	}
	if !c.Flags.Has(FlagEscaped) && bytes.IndexByte(b, '\\') < 0 {
		return string(b)
	}
	return unescape(string(b))
}

// NumberValue returns the numeric value of a number, percentage or
// dimension cursor.
func (p *Parser) NumberValue(c Cursor) float64 {
	b := p.raw(c)
	switch c.Kind {
	case KindDimension:
		b = b[:c.Aux]
	case KindPercentage:
		b = b[:len(b)-1]
	case KindNumber:
	default:
		return 0
	}
	v, _ := strconv.ParseFloat(string(b), 64)
	return v
}

// Position converts a byte offset into a line and column.
func (p *Parser) Position(offset int) Position {
	return p.Lines().Position(offset)
}
