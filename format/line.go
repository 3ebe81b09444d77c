package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

// LineEncoder writes one line per diagnostic in the conventional
// file:line:column form, followed by a tab separated kind and message.
type LineEncoder struct {
	w   io.Writer
	doc *Document
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	e.doc = doc
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	d := e.doc
	if len(d.Diagnostics) == 0 {
		return nil, nil
	}

	lines := parser.NewLineIndex(d.Source, e.fileName())
	for _, diag := range d.Diagnostics {
		pos := lines.Position(int(diag.Span.Start))
		fmt.Fprintf(&sb, "%s\t%s\t%s\n", pos, diag.Kind, diag.Message())
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) fileName() string {
	if e.doc.File == "" {
		return "<stdin>"
	}
	return e.doc.File
}
