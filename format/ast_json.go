package format

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

// ASTJSONEncoder writes a document's tree and diagnostics as JSON. Every
// node is written with its Go type name, its source span and its exported
// fields.
type ASTJSONEncoder struct {
	w   io.Writer
	doc *Document
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	if _, err = e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	c := &astConverter{
		src:   e.doc.Source,
		lines: parser.NewLineIndex(e.doc.Source, e.doc.File),
	}
	out := astJSONDocument{
		File:        e.doc.File,
		Diagnostics: []*astJSONDiagnostic{},
	}
	if e.doc.Node != nil {
		out.Root = c.convert(reflect.ValueOf(e.doc.Node))
	}
	for _, d := range e.doc.Diagnostics {
		out.Diagnostics = append(out.Diagnostics, &astJSONDiagnostic{
			Kind:    d.Kind.String(),
			Message: d.Message(),
			Span:    c.span(d.Span),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

type astJSONDocument struct {
	File        string               `json:"file,omitempty"`
	Root        any                  `json:"root"`
	Diagnostics []*astJSONDiagnostic `json:"diagnostics"`
}

type astJSONDiagnostic struct {
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
	Span    *astJSONSpan `json:"span"`
}

type astJSONNode struct {
	Kind   string         `json:"kind"`
	Span   *astJSONSpan   `json:"span,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

type astJSONCursor struct {
	Kind string       `json:"kind"`
	Text string       `json:"text"`
	Span *astJSONSpan `json:"span,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

var (
	cursorType    = reflect.TypeOf(parser.Cursor{})
	toCursorsType = reflect.TypeOf((*parser.ToCursors)(nil)).Elem()
	stringerType  = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

type astConverter struct {
	src   []byte
	lines *parser.LineIndex
}

func (c *astConverter) span(s parser.Span) *astJSONSpan {
	start := c.lines.Position(int(s.Start))
	end := c.lines.Position(int(s.End))
	return &astJSONSpan{
		Start: astJSONPosition{Offset: start.Offset, Line: start.Line, Column: start.Column},
		End:   astJSONPosition{Offset: end.Offset, Line: end.Line, Column: end.Column},
	}
}

func (c *astConverter) convert(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		return c.convert(v.Elem())
	case reflect.Struct:
		if v.Type() == cursorType {
			return c.cursor(v.Interface().(parser.Cursor))
		}
		node := &astJSONNode{Kind: typeName(v.Type())}
		if v.CanAddr() && v.Addr().Type().Implements(toCursorsType) {
			s := parser.SpanOf(v.Addr().Interface().(parser.ToCursors))
			if !s.IsEmpty() {
				node.Span = c.span(s)
			}
		}
		c.fields(v, node)
		return node
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = c.convert(v.Index(i))
		}
		return out
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64:
		return v.Interface()
	}
	if v.Type().Implements(stringerType) {
		return v.Interface().(fmt.Stringer).String()
	}
	return v.Interface()
}

// fields adds the exported fields of v to node, flattening embedded
// structs into their parent.
func (c *astConverter) fields(v reflect.Value, node *astJSONNode) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := v.Field(i)
		if f.Anonymous && fv.Kind() == reflect.Struct && fv.Type() != cursorType {
			c.fields(fv, node)
			continue
		}
		if fv.Type() == cursorType && fv.IsZero() {
			continue
		}
		val := c.convert(fv)
		if val == nil {
			continue
		}
		if node.Fields == nil {
			node.Fields = make(map[string]any)
		}
		node.Fields[f.Name] = val
	}
}

func (c *astConverter) cursor(cur parser.Cursor) *astJSONCursor {
	out := &astJSONCursor{Kind: cur.Kind.String(), Text: cur.Text(c.src)}
	if !cur.IsSynthetic() {
		out.Span = c.span(cur.Span)
	}
	return out
}

// typeName strips type parameters from generic type names.
func typeName(t reflect.Type) string {
	name := t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}
