package parser

import (
	"io"
)

// CursorSink receives the cursors of a tree in source order.
type CursorSink interface {
	Append(c Cursor)
}

// CursorList collects cursors into a slice.
type CursorList []Cursor

func (l *CursorList) Append(c Cursor) {
	*l = append(*l, c)
}

// Cursors returns the cursors written by n.
func Cursors(n ToCursors) []Cursor {
	var l CursorList
	n.ToCursors(&l)
	return l
}

// SpanSink accumulates the span enclosing every source-backed cursor it
// receives.
type SpanSink struct {
	Span Span
	seen bool
}

func (s *SpanSink) Append(c Cursor) {
	if c.IsSynthetic() {
		return
	}
	if !s.seen {
		s.Span = c.Span
		s.seen = true
		return
	}
	s.Span = s.Span.Join(c.Span)
}

// SpanOf returns the source span covered by n.
func SpanOf(n ToCursors) Span {
	var s SpanSink
	n.ToCursors(&s)
	return s.Span
}

// TriviaSink forwards cursors to another sink and puts back the whitespace
// and comments the tree does not hold. Trivia in the token stream between
// two consecutive source-backed cursors is emitted in front of the second;
// Flush emits whatever trivia follows the last one.
type TriviaSink struct {
	sink    CursorSink
	tokens  []Cursor
	next    int
	lastEnd uint32
}

func NewTriviaSink(sink CursorSink, tokens []Cursor) *TriviaSink {
	return &TriviaSink{sink: sink, tokens: tokens}
}

func (t *TriviaSink) Append(c Cursor) {
	if c.IsSynthetic() {
		t.sink.Append(c)
		return
	}
	for t.next < len(t.tokens) && t.tokens[t.next].Span.Start < c.Span.Start {
		t.emitTrivia(t.tokens[t.next])
		t.next++
	}
	t.sink.Append(c)
	for t.next < len(t.tokens) && t.tokens[t.next].Span.Start < c.Span.End {
		t.next++
	}
	if c.Span.End > t.lastEnd {
		t.lastEnd = c.Span.End
	}
}

// Flush emits the trivia left after the last cursor.
func (t *TriviaSink) Flush() {
	for ; t.next < len(t.tokens); t.next++ {
		t.emitTrivia(t.tokens[t.next])
	}
}

func (t *TriviaSink) emitTrivia(c Cursor) {
	if c.Kind.IsTrivia() && c.Span.Start >= t.lastEnd {
		t.sink.Append(c)
		t.lastEnd = c.Span.End
	}
}

// SourceWriter renders cursors as text: the source slice of each cursor, or
// the canonical text of synthesized ones. The first write error sticks and
// later cursors are dropped.
type SourceWriter struct {
	w   io.Writer
	src []byte
	err error
}

func NewSourceWriter(w io.Writer, src []byte) *SourceWriter {
	return &SourceWriter{w: w, src: src}
}

func (sw *SourceWriter) Append(c Cursor) {
	if sw.err != nil {
		return
	}
	if c.IsSynthetic() {
		_, sw.err = io.WriteString(sw.w, c.Text(sw.src))
		return
	}
	if c.Kind == KindEof || int(c.Span.End) > len(sw.src) {
		return
	}
	_, sw.err = sw.w.Write(sw.src[c.Span.Start:c.Span.End])
}

func (sw *SourceWriter) Err() error {
	return sw.err
}
