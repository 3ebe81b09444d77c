package parser

import (
	"encoding/json"
	"fmt"
)

// Span is a half-open byte range [Start, End) into the source buffer.
type Span struct {
	Start uint32
	End   uint32
}

func NewSpan(start, end int) Span {
	return Span{Start: uint32(start), End: uint32(end)}
}

// UpTo returns the span running from the start of s to the end of other.
func (s Span) UpTo(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// Join returns the smallest span enclosing both s and other. An empty zero
// span is treated as absent.
func (s Span) Join(other Span) Span {
	if s == (Span{}) {
		return other
	}
	if other == (Span{}) {
		return s
	}
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

func (s Span) Len() int {
	return int(s.End - s.Start)
}

func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

func (s Span) Contains(offset int) bool {
	return offset >= int(s.Start) && offset < int(s.End)
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

type Kind uint8

const (
	KindEof Kind = iota
	KindWhitespace
	KindComment
	KindIdent
	KindFunction
	KindAtKeyword
	KindHash
	KindString
	KindBadString
	KindUrl
	KindBadUrl
	KindNumber
	KindPercentage
	KindDimension
	KindBadNumber
	KindDelim
	KindCdo
	KindCdc
	KindColon
	KindSemicolon
	KindComma
	KindLeftSquare
	KindRightSquare
	KindLeftParen
	KindRightParen
	KindLeftCurly
	KindRightCurly

	kindCount
)

var kindNames = [kindCount]string{
	KindEof:         "eof",
	KindWhitespace:  "whitespace",
	KindComment:     "comment",
	KindIdent:       "ident",
	KindFunction:    "function",
	KindAtKeyword:   "at-keyword",
	KindHash:        "hash",
	KindString:      "string",
	KindBadString:   "bad-string",
	KindUrl:         "url",
	KindBadUrl:      "bad-url",
	KindNumber:      "number",
	KindPercentage:  "percentage",
	KindDimension:   "dimension",
	KindBadNumber:   "bad-number",
	KindDelim:       "delim",
	KindCdo:         "cdo",
	KindCdc:         "cdc",
	KindColon:       "colon",
	KindSemicolon:   "semicolon",
	KindComma:       "comma",
	KindLeftSquare:  "left-square",
	KindRightSquare: "right-square",
	KindLeftParen:   "left-paren",
	KindRightParen:  "right-paren",
	KindLeftCurly:   "left-curly",
	KindRightCurly:  "right-curly",
}

// Fixed source text for kinds that always spell the same way.
var kindText = [kindCount]string{
	KindWhitespace:  " ",
	KindCdo:         "<!--",
	KindCdc:         "-->",
	KindColon:       ":",
	KindSemicolon:   ";",
	KindComma:       ",",
	KindLeftSquare:  "[",
	KindRightSquare: "]",
	KindLeftParen:   "(",
	KindRightParen:  ")",
	KindLeftCurly:   "{",
	KindRightCurly:  "}",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// Text returns the canonical spelling of k, or "" when the kind has none.
func (k Kind) Text() string {
	if k < kindCount {
		return kindText[k]
	}
	return ""
}

func (k Kind) IsTrivia() bool {
	return k == KindWhitespace || k == KindComment
}

func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

type Flags uint8

const (
	// FlagInteger marks a numeric token written without fraction or exponent.
	FlagInteger Flags = 1 << iota
	// FlagSigned marks a numeric token with an explicit leading sign.
	FlagSigned
	// FlagHashID marks a hash whose name would start an identifier.
	FlagHashID
	// FlagSingleQuote marks a string (or bad string) quoted with '.
	FlagSingleQuote
	// FlagUnterminated marks a string or comment closed by end of input.
	FlagUnterminated
	// FlagEscaped marks a name-bearing token containing escapes.
	FlagEscaped
	// FlagDashed marks an ident starting with "--".
	FlagDashed
	// FlagSynthetic marks a cursor not backed by source text.
	FlagSynthetic
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Cursor is a single lexical token: a kind, a handful of flags, and the
// source span it covers. Cursors are small values and are copied freely.
type Cursor struct {
	Kind  Kind
	Flags Flags
	// Aux is the unit offset of a dimension, or the byte of a synthesized
	// delimiter.
	Aux  uint16
	Span Span
}

// Synthesize returns a cursor of the given kind that renders as the kind's
// canonical text.
func Synthesize(kind Kind) Cursor {
	return Cursor{Kind: kind, Flags: FlagSynthetic}
}

// SynthesizeDelim returns a synthesized delimiter cursor for ch.
func SynthesizeDelim(ch byte) Cursor {
	return Cursor{Kind: KindDelim, Flags: FlagSynthetic, Aux: uint16(ch)}
}

func (c Cursor) Is(kind Kind) bool {
	return c.Kind == kind
}

func (c Cursor) IsSynthetic() bool {
	return c.Flags.Has(FlagSynthetic)
}

// Text returns the source text of c, or its canonical text when synthesized.
func (c Cursor) Text(src []byte) string {
	if c.IsSynthetic() {
		if c.Kind == KindDelim {
			return string(rune(c.Aux))
		}
		return c.Kind.Text()
	}
	if int(c.Span.End) > len(src) || c.Span.Start > c.Span.End {
		return ""
	}
	return string(src[c.Span.Start:c.Span.End])
}

// Char returns the delimiter character of a delim cursor.
func (c Cursor) Char(src []byte) byte {
	if c.Kind != KindDelim {
		return 0
	}
	if c.IsSynthetic() {
		return byte(c.Aux)
	}
	if int(c.Span.Start) < len(src) {
		return src[c.Span.Start]
	}
	return 0
}

// Unit returns the unit part of a dimension cursor.
func (c Cursor) Unit(src []byte) string {
	if c.Kind != KindDimension {
		return ""
	}
	return string(src[int(c.Span.Start)+int(c.Aux) : c.Span.End])
}

func (c Cursor) String() string {
	return fmt.Sprintf("%s@%s", c.Kind, c.Span)
}

type jsonCursor struct {
	Kind  string `json:"kind"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

func (c Cursor) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonCursor{Kind: c.Kind.String(), Start: c.Span.Start, End: c.Span.End})
}

// Position is a human oriented source location.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex maps byte offsets to line and column numbers.
type LineIndex struct {
	file  string
	lines []int
}

func NewLineIndex(src []byte, file string) *LineIndex {
	idx := &LineIndex{file: file, lines: []int{0}}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n', '\f':
			idx.lines = append(idx.lines, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			idx.lines = append(idx.lines, i+1)
		}
	}
	return idx
}

// LineStart returns the offset of the first byte of the 1-based line.
func (idx *LineIndex) LineStart(line int) int {
	if line < 1 {
		return 0
	}
	if line > len(idx.lines) {
		return idx.lines[len(idx.lines)-1]
	}
	return idx.lines[line-1]
}

func (idx *LineIndex) Position(offset int) Position {
	lo, hi := 0, len(idx.lines)
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if idx.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Position{
		File:   idx.file,
		Offset: offset,
		Line:   lo + 1,
		Column: offset - idx.lines[lo] + 1,
	}
}
