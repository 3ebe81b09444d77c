// Package format writes parsed stylesheets back out: as source text, as
// minified text, as JSON token and tree dumps, and as diagnostic lines.
package format

import (
	"bytes"
	"encoding"
	"io"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/parser"
)

// Document is a parsed source together with everything an encoder needs.
type Document struct {
	File        string
	Source      []byte
	Tokens      []parser.Cursor
	Node        parser.ToCursors
	Diagnostics []*parser.Diagnostic
}

// FromResult wraps a parse result. A result without a tree yields a
// document whose Node is nil.
func FromResult[T any](r *ast.Result[T]) *Document {
	doc := &Document{
		File:        r.File,
		Source:      r.Source,
		Tokens:      r.Tokens,
		Diagnostics: r.Diagnostics,
	}
	if n, ok := any(r.Node).(parser.ToCursors); ok && r.Node != nil {
		doc.Node = n
	}
	return doc
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(doc *Document) error
}

// Render writes node with the whitespace and comments of the token stream
// restored between its cursors.
func Render(w io.Writer, src []byte, tokens []parser.Cursor, node parser.ToCursors) error {
	sw := parser.NewSourceWriter(w, src)
	ts := parser.NewTriviaSink(sw, tokens)
	if node != nil {
		node.ToCursors(ts)
	}
	ts.Flush()
	return sw.Err()
}

// SourceEncoder writes documents back as they were parsed.
type SourceEncoder struct {
	w   io.Writer
	doc *Document
}

func NewSourceEncoder(w io.Writer) *SourceEncoder {
	return &SourceEncoder{w: w}
}

func (e *SourceEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SourceEncoder) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	err := Render(&buf, e.doc.Source, e.doc.Tokens, e.doc.Node)
	return buf.Bytes(), err
}
