package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dhamidi/csskit/css/parser"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// text is a document body with a line index, converting between byte
// offsets and the UTF-16 line/character positions LSP clients send.
type text struct {
	src   []byte
	lines *parser.LineIndex
}

func newText(src []byte) *text {
	return &text{src: src, lines: parser.NewLineIndex(src, "")}
}

// position converts a byte offset into an LSP position.
func (t *text) position(offset int) protocol.Position {
	if offset > len(t.src) {
		offset = len(t.src)
	}
	pos := t.lines.Position(offset)
	start := offset - (pos.Column - 1)
	return protocol.Position{
		Line:      protocol.UInteger(pos.Line - 1),
		Character: protocol.UInteger(utf16Len(t.src[start:offset])),
	}
}

func (t *text) rangeOf(span parser.Span) protocol.Range {
	return protocol.Range{
		Start: t.position(int(span.Start)),
		End:   t.position(int(span.End)),
	}
}

// offset converts an LSP position into a byte offset. Positions past the
// end of a line clamp to the line end.
func (t *text) offset(pos protocol.Position) int {
	line := int(pos.Line) + 1
	start := t.lines.LineStart(line)
	end := t.lines.LineStart(line + 1)
	if line >= t.lineCount() {
		end = len(t.src)
	}
	units := int(pos.Character)
	i := start
	for i < end && units > 0 {
		r, size := utf8.DecodeRune(t.src[i:])
		if r == '\n' || r == '\r' || r == '\f' {
			break
		}
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units -= n
		i += size
	}
	return i
}

func (t *text) lineCount() int {
	return t.lines.Position(len(t.src)).Line
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if k := utf16.RuneLen(r); k > 0 {
			n += k
		} else {
			n++
		}
		b = b[size:]
	}
	return n
}
