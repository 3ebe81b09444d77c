package format

import (
	"bytes"
	"io"
	"reflect"

	"github.com/dhamidi/csskit/css/parser"
)

// Minify writes node without comments. Whitespace between two cursors is
// kept as a single space unless one of them is punctuation that makes it
// redundant, and a space is inserted where dropping a comment would glue
// two cursors into one token.
func Minify(w io.Writer, src []byte, tokens []parser.Cursor, node parser.ToCursors) error {
	sw := parser.NewSourceWriter(w, src)
	if node != nil {
		m := &minifySink{out: sw, src: src, tokens: tokens, colons: colonFields(node)}
		node.ToCursors(m)
	}
	return sw.Err()
}

type minifySink struct {
	out    parser.CursorSink
	src    []byte
	tokens []parser.Cursor
	next   int
	// colons holds the start offsets of declaration and media feature
	// colons, before which whitespace never matters.
	colons map[uint32]bool

	prev    parser.Cursor
	started bool
	space   bool
	comment bool
}

var space = parser.Synthesize(parser.KindWhitespace)

func (m *minifySink) Append(c parser.Cursor) {
	if !c.IsSynthetic() {
		for m.next < len(m.tokens) && m.tokens[m.next].Span.Start < c.Span.Start {
			m.noteTrivia(m.tokens[m.next])
			m.next++
		}
		for m.next < len(m.tokens) && m.tokens[m.next].Span.Start < c.Span.End {
			m.next++
		}
	}
	switch c.Kind {
	case parser.KindWhitespace, parser.KindComment:
		m.noteTrivia(c)
		return
	case parser.KindEof:
		return
	}

	if m.started {
		switch {
		case m.space && !m.redundantSpace(c):
			m.out.Append(space)
		case m.comment && !m.space && wouldMerge(m.src, m.prev, c):
			m.out.Append(space)
		}
	}
	m.out.Append(c)
	m.prev, m.started = c, true
	m.space, m.comment = false, false
}

func (m *minifySink) noteTrivia(c parser.Cursor) {
	switch c.Kind {
	case parser.KindWhitespace:
		m.space = true
	case parser.KindComment:
		m.comment = true
	}
}

// redundantSpace reports whether whitespace between the previous cursor
// and c can be dropped without changing how the output parses.
func (m *minifySink) redundantSpace(c parser.Cursor) bool {
	switch m.prev.Kind {
	case parser.KindLeftCurly, parser.KindRightCurly, parser.KindSemicolon,
		parser.KindComma, parser.KindColon, parser.KindLeftParen,
		parser.KindLeftSquare, parser.KindFunction:
		return true
	case parser.KindDelim:
		if m.prev.Char(m.src) == '>' {
			return true
		}
	}
	switch c.Kind {
	case parser.KindLeftCurly, parser.KindRightCurly, parser.KindSemicolon,
		parser.KindComma, parser.KindRightParen, parser.KindRightSquare:
		return true
	case parser.KindColon:
		return !c.IsSynthetic() && m.colons[c.Span.Start]
	case parser.KindDelim:
		ch := c.Char(m.src)
		return ch == '!' || ch == '>'
	}
	return false
}

// wouldMerge reports whether writing b directly after a could lex as a
// different sequence of tokens.
func wouldMerge(src []byte, a, b parser.Cursor) bool {
	var buf bytes.Buffer
	first := a.Text(src)
	buf.WriteString(first)
	buf.WriteString(b.Text(src))
	got := parser.Tokenize(buf.Bytes())
	return len(got) != 3 || got[0].Kind != a.Kind || got[1].Kind != b.Kind ||
		int(got[0].Span.End) != len(first)
}

// colonFields collects the colons the tree holds in fields named Colon:
// those of declarations and media features. Selector colons are kept as
// component values and never match.
func colonFields(node parser.ToCursors) map[uint32]bool {
	colons := make(map[uint32]bool)
	var walk func(v reflect.Value)
	walk = func(v reflect.Value) {
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if !v.IsNil() {
				walk(v.Elem())
			}
		case reflect.Struct:
			if v.Type() == cursorType {
				return
			}
			for i := 0; i < v.NumField(); i++ {
				f := v.Type().Field(i)
				if !f.IsExported() {
					continue
				}
				if f.Name == "Colon" {
					if c, ok := colonCursor(v.Field(i)); ok {
						colons[c.Span.Start] = true
					}
					continue
				}
				walk(v.Field(i))
			}
		case reflect.Slice:
			for i := 0; i < v.Len(); i++ {
				walk(v.Index(i))
			}
		}
	}
	walk(reflect.ValueOf(node))
	return colons
}

func colonCursor(v reflect.Value) (parser.Cursor, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return parser.Cursor{}, false
		}
		v = v.Elem()
	}
	c, ok := v.Interface().(parser.Cursor)
	return c, ok && c.Kind == parser.KindColon
}
