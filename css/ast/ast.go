// Package ast holds the CSS syntax tree and the entry points that parse
// source into it.
//
// Every node implements parser.ToCursors and writes back the significant
// cursors it was built from, in source order. Whitespace and comments are
// not stored in the tree; Result.WriteTo puts them back from the token
// stream, so writing an unmodified tree reproduces the input byte for byte.
//
// Parsing never fails outright. Invalid rules and declarations are kept as
// *BadRule and *BadDeclaration nodes and reported in Result.Diagnostics.
package ast

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

// Result is a parsed tree together with the source and tokens needed to
// write it back.
type Result[T any] struct {
	Node        *T
	Diagnostics []*parser.Diagnostic
	Source      []byte
	Tokens      []parser.Cursor
	File        string
}

func newResult[T any](p *parser.Parser, node *T) *Result[T] {
	return &Result[T]{
		Node:        node,
		Diagnostics: p.Diagnostics(),
		Source:      p.Source(),
		Tokens:      p.Tokens(),
		File:        p.File(),
	}
}

// Err joins the diagnostics into one error, or returns nil when there are
// none.
func (r *Result[T]) Err() error {
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}
	return errors.Join(errs...)
}

// Lines returns a line index over the source.
func (r *Result[T]) Lines() *parser.LineIndex {
	return parser.NewLineIndex(r.Source, r.File)
}

// WriteTo writes the tree with its whitespace and comments restored.
func (r *Result[T]) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	sw := parser.NewSourceWriter(cw, r.Source)
	ts := parser.NewTriviaSink(sw, r.Tokens)
	if n, ok := any(r.Node).(parser.ToCursors); ok && r.Node != nil {
		n.ToCursors(ts)
	}
	ts.Flush()
	return cw.n, sw.Err()
}

// Render returns the text WriteTo would write.
func (r *Result[T]) Render() string {
	var buf bytes.Buffer
	r.WriteTo(&buf)
	return buf.String()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// ParseFragment parses src as a single T that must span the whole input.
// Input left over after T is reported as unexpected.
func ParseFragment[T any](src []byte, opts ...parser.Option) *Result[T] {
	p := parser.New(src, opts...)
	node, err := parser.Parse[T](p)
	if err != nil {
		node = nil
	} else if !p.AtEnd() {
		p.Unexpected(p.Peek())
	}
	return newResult(p, node)
}

// ParseStyleSheet parses a complete stylesheet.
func ParseStyleSheet(src []byte, opts ...parser.Option) *Result[StyleSheet] {
	p := parser.New(src, opts...)
	sheet, _ := parser.Parse[StyleSheet](p)
	return newResult(p, sheet)
}

// ParseDeclarationValue parses src as the value of property, as it would
// appear after the colon of a declaration.
func ParseDeclarationValue(property string, src []byte, opts ...parser.Option) *Result[DeclarationValue] {
	p := parser.New(src, opts...)
	dv := parser.Alloc[DeclarationValue](p.Arena())
	dv.Property = property
	if !strings.HasPrefix(property, "--") {
		dv.Property = strings.ToLower(property)
	}
	if err := dv.Parse(p); err != nil {
		dv = nil
	} else if !p.AtEnd() {
		p.Unexpected(p.Peek())
	}
	return newResult(p, dv)
}
