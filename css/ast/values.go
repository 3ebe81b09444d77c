package ast

import (
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

// ComponentValue is a preserved token, a simple block or a function.
// Exactly one of Token, Block and Function is set; Token is valid when the
// other two are nil.
type ComponentValue struct {
	Token    parser.Cursor
	Block    *SimpleBlock
	Function *Function
}

func (v *ComponentValue) Parse(p *parser.Parser) error {
	var err error
	switch c := p.Peek(); c.Kind {
	case parser.KindEof:
		return p.Unexpected(p.Next())
	case parser.KindFunction:
		v.Function, err = parser.Parse[Function](p)
	case parser.KindLeftParen, parser.KindLeftSquare, parser.KindLeftCurly:
		v.Block, err = parser.Parse[SimpleBlock](p)
	default:
		v.Token = p.Next()
	}
	return err
}

func (v *ComponentValue) ToCursors(s parser.CursorSink) {
	switch {
	case v.Function != nil:
		v.Function.ToCursors(s)
	case v.Block != nil:
		v.Block.ToCursors(s)
	default:
		s.Append(v.Token)
	}
}

// IsDelim reports whether v is the delimiter ch.
func (v *ComponentValue) IsDelim(p *parser.Parser, ch byte) bool {
	return v.Block == nil && v.Function == nil && p.IsDelim(v.Token, ch)
}

// IsIdent reports whether v is the identifier name, ignoring ASCII case.
func (v *ComponentValue) IsIdent(p *parser.Parser, name string) bool {
	return v.Block == nil && v.Function == nil &&
		v.Token.Kind == parser.KindIdent && p.EqIgnoreCase(v.Token, name)
}

// parseBody parses component values up to the cursor closing open. A block
// left open at end of input is kept and reported.
func parseBody(p *parser.Parser, open parser.Cursor) (values []*ComponentValue, end parser.Cursor, closed bool, err error) {
	closer := parser.CloserOf(open.Kind)
	values, err = parser.ParseUntil[ComponentValue](p, parser.NewKindSet(closer))
	if err != nil {
		return values, end, false, err
	}
	end, closed = closeBlock(p, open, closer)
	return values, end, closed, nil
}

func closeBlock(p *parser.Parser, open parser.Cursor, closer parser.Kind) (parser.Cursor, bool) {
	if c := p.Peek(); c.Kind == closer {
		return p.Next(), true
	}
	p.Report(parser.DiagUnclosedBlock, open.Span)
	return parser.Cursor{}, false
}

// SimpleBlock is a (), [] or {} block of component values.
type SimpleBlock struct {
	Open   parser.Cursor
	Values []*ComponentValue
	Close  parser.Cursor
	Closed bool
}

func (b *SimpleBlock) Parse(p *parser.Parser) error {
	b.Open = p.Next()
	if parser.CloserOf(b.Open.Kind) == parser.KindEof {
		return p.Unexpected(b.Open)
	}
	var err error
	b.Values, b.Close, b.Closed, err = parseBody(p, b.Open)
	return err
}

func (b *SimpleBlock) ToCursors(s parser.CursorSink) {
	s.Append(b.Open)
	for _, v := range b.Values {
		v.ToCursors(s)
	}
	if b.Closed {
		s.Append(b.Close)
	}
}

// Function is a function token, its arguments and the closing parenthesis.
type Function struct {
	Name   parser.Cursor
	Values []*ComponentValue
	Close  parser.Cursor
	Closed bool
}

func (f *Function) Parse(p *parser.Parser) error {
	var err error
	if f.Name, err = p.Expect(parser.KindFunction); err != nil {
		return err
	}
	f.Values, f.Close, f.Closed, err = parseBody(p, f.Name)
	return err
}

func (f *Function) ToCursors(s parser.CursorSink) {
	s.Append(f.Name)
	for _, v := range f.Values {
		v.ToCursors(s)
	}
	if f.Closed {
		s.Append(f.Close)
	}
}

// FunctionName returns the lower-cased function name.
func (f *Function) FunctionName(p *parser.Parser) string {
	return strings.ToLower(p.Name(f.Name))
}

// ComponentValues is an untyped declaration value.
type ComponentValues struct {
	Values []*ComponentValue
}

func (v *ComponentValues) ToCursors(s parser.CursorSink) {
	for _, cv := range v.Values {
		cv.ToCursors(s)
	}
}

// Important is a trailing `!important`.
type Important struct {
	Bang    parser.Cursor
	Keyword parser.Cursor
}

func (imp *Important) Is(p *parser.Parser, c parser.Cursor) bool {
	return p.IsDelim(c, '!')
}

func (imp *Important) Parse(p *parser.Parser) error {
	var err error
	if imp.Bang, err = p.ExpectDelim('!'); err != nil {
		return err
	}
	imp.Keyword, err = p.ExpectIdent("important")
	return err
}

func (imp *Important) ToCursors(s parser.CursorSink) {
	s.Append(imp.Bang)
	s.Append(imp.Keyword)
}

// splitImportant removes a trailing `! important` from values.
func splitImportant(p *parser.Parser, values []*ComponentValue) ([]*ComponentValue, *Important) {
	n := len(values)
	if n < 2 || !values[n-2].IsDelim(p, '!') || !values[n-1].IsIdent(p, "important") {
		return values, nil
	}
	imp := parser.Alloc[Important](p.Arena())
	imp.Bang = values[n-2].Token
	imp.Keyword = values[n-1].Token
	return values[:n-2], imp
}
