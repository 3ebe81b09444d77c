package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/csskit/css/parser"
)

// TokenJSONEncoder writes the token stream of a source as a JSON array of
// kind, start, end and text records. Trivia is included.
type TokenJSONEncoder struct {
	w      io.Writer
	src    []byte
	tokens []parser.Cursor
}

func NewTokenJSONEncoder(w io.Writer) *TokenJSONEncoder {
	return &TokenJSONEncoder{w: w}
}

type tokenJSON struct {
	Kind  string   `json:"kind"`
	Start uint32   `json:"start"`
	End   uint32   `json:"end"`
	Text  string   `json:"text"`
	Flags []string `json:"flags,omitempty"`
}

func (e *TokenJSONEncoder) Encode(src []byte, tokens []parser.Cursor) error {
	e.src, e.tokens = src, tokens
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

func (e *TokenJSONEncoder) MarshalText() ([]byte, error) {
	out := make([]tokenJSON, 0, len(e.tokens))
	for _, c := range e.tokens {
		out = append(out, tokenJSON{
			Kind:  c.Kind.String(),
			Start: c.Span.Start,
			End:   c.Span.End,
			Text:  c.Text(e.src),
			Flags: flagNames(c.Flags),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

var flagList = []struct {
	flag parser.Flags
	name string
}{
	{parser.FlagInteger, "integer"},
	{parser.FlagSigned, "signed"},
	{parser.FlagHashID, "id"},
	{parser.FlagSingleQuote, "single-quote"},
	{parser.FlagUnterminated, "unterminated"},
	{parser.FlagEscaped, "escaped"},
	{parser.FlagDashed, "dashed"},
	{parser.FlagSynthetic, "synthetic"},
}

func flagNames(f parser.Flags) []string {
	var out []string
	for _, fl := range flagList {
		if f.Has(fl.flag) {
			out = append(out, fl.name)
		}
	}
	return out
}
