// Package parser provides the lexer and the backtracking parser framework
// the CSS tree in package ast is built on.
//
// # Overview
//
// Source bytes are lexed up front into a stream of cursors. Whitespace and
// comments stay in the stream as trivia, so nothing is lost between lexing
// and rendering the tree back out. The lexer never fails: malformed strings,
// urls and numbers become dedicated bad kinds.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │────▶│   Sink      │
//	│  (bytes)    │     │  (cursors)  │     │   (tree)    │     │  (cursors)  │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//	                                               │
//	                                               ▼
//	                                        ┌─────────────┐
//	                                        │ Diagnostics │
//	                                        └─────────────┘
//
// # Cursors
//
// A Cursor is a kind, a few flags and a byte span:
//
//	type Cursor struct {
//	    Kind  Kind
//	    Flags Flags
//	    Aux   uint16
//	    Span  Span
//	}
//
// Cursors do not copy source text. Use Parser.Text, Parser.Name and
// Parser.StringValue to read it.
//
// # Productions
//
// Tree types take part in parsing by implementing one of two contracts.
// Single-cursor values implement Is and Build:
//
//	func (*Ident) Is(p *parser.Parser, c parser.Cursor) bool { return c.Kind == parser.KindIdent }
//	func (id *Ident) Build(p *parser.Parser, c parser.Cursor) { id.Cursor = c }
//
// Everything else implements Parse:
//
//	func (d *Declaration) Parse(p *parser.Parser) error
//
// The generic drivers Peek, Parse, ParseValue, TryParse and ParseIf work
// with either. Parse allocates nodes in the parser's Arena, which is freed
// as a whole.
//
// # Backtracking
//
// Checkpoint saves the stream position and the number of diagnostics;
// Rewind restores both. TryParse wraps a parse in a checkpoint so ordered
// choice reads naturally:
//
//	if color, err := parser.TryParse[Color](p); err == nil {
//	    return color, nil
//	}
//	return parser.Parse[ComponentValues](p)
//
// # Lists and Recovery
//
// ParseRuleList drives rule and declaration lists. An entry that fails to
// parse is replaced by a placeholder holding the skipped cursors verbatim,
// with exactly one diagnostic, and parsing continues after it.
//
// # Writing
//
// Nodes implement ToCursors and append their cursors in source order to a
// CursorSink. Wrapping the sink in a TriviaSink puts the whitespace and
// comments back, and a SourceWriter turns cursors into text:
//
//	sw := parser.NewSourceWriter(w, src)
//	ts := parser.NewTriviaSink(sw, p.Tokens())
//	sheet.ToCursors(ts)
//	ts.Flush()
//
// For well-formed input the output equals the source byte for byte.
package parser
