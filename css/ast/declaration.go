package ast

import (
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

// stateInParens is set while parsing a declaration inside a
// parenthesized condition, such as `@supports (display: grid)`.
const stateInParens parser.State = 1 << 4

// Value is a declaration value: *Color, *DisplayKeyword, *CssWideKeyword
// or *ComponentValues.
type Value interface {
	parser.ToCursors
}

// DeclarationValue is the part of a declaration after the colon. Property
// selects the typed value tried before falling back to component values.
type DeclarationValue struct {
	Property  string
	Value     Value
	Important *Important
}

func (dv *DeclarationValue) custom() bool {
	return strings.HasPrefix(dv.Property, "--")
}

func (dv *DeclarationValue) Parse(p *parser.Parser) error {
	start := p.Checkpoint()
	if v := dv.typed(p); v != nil {
		dv.Value = v
		if !parser.Peek[Important](p) {
			return nil
		}
		if imp, err := parser.TryParse[Important](p); err == nil && valueEnds(p) {
			dv.Important = imp
			return nil
		}
		p.Rewind(start)
		dv.Value = nil
	}

	stop := parser.RightCurlyOrSemicolon
	if p.State().Has(stateInParens) {
		stop = stop.Add(parser.KindRightParen)
	}
	if !dv.custom() {
		stop = stop.Add(parser.KindLeftCurly)
	}
	values, err := parser.ParseUntil[ComponentValue](p, stop)
	if err != nil {
		return err
	}
	if c := p.Peek(); c.Kind == parser.KindLeftCurly && !dv.custom() {
		return p.Unexpected(c)
	}
	values, dv.Important = splitImportant(p, values)
	if len(values) == 0 && !dv.custom() {
		return p.Unexpected(p.Peek())
	}
	cv := parser.Alloc[ComponentValues](p.Arena())
	cv.Values = values
	dv.Value = cv
	return nil
}

// typed tries the value types known for the property. It leaves the parser
// untouched and returns nil when none matches the whole value.
func (dv *DeclarationValue) typed(p *parser.Parser) Value {
	if v, ok := parseWhole[CssWideKeyword](p); ok {
		return v
	}
	switch {
	case colorProperties[dv.Property]:
		if v, ok := parseWhole[Color](p); ok {
			return v
		}
	case dv.Property == "display":
		if v, ok := parseWhole[DisplayKeyword](p); ok {
			return v
		}
	}
	return nil
}

func parseWhole[T any](p *parser.Parser) (*T, bool) {
	cp := p.Checkpoint()
	v, err := parser.Parse[T](p)
	if err == nil && (valueEnds(p) || parser.Peek[Important](p)) {
		return v, true
	}
	p.Rewind(cp)
	return nil, false
}

func valueEnds(p *parser.Parser) bool {
	switch p.Peek().Kind {
	case parser.KindEof, parser.KindSemicolon, parser.KindRightCurly:
		return true
	case parser.KindRightParen:
		return p.State().Has(stateInParens)
	}
	return false
}

func (dv *DeclarationValue) ToCursors(s parser.CursorSink) {
	if dv.Value != nil {
		dv.Value.ToCursors(s)
	}
	if dv.Important != nil {
		dv.Important.ToCursors(s)
	}
}

// Declaration is `name: value` with an optional `!important` and
// terminating semicolon.
type Declaration struct {
	Name      parser.Cursor
	Colon     parser.Cursor
	Value     DeclarationValue
	Semicolon *parser.Cursor
}

func (d *Declaration) Is(p *parser.Parser, c parser.Cursor) bool {
	return c.Kind == parser.KindIdent && p.PeekN(1).Kind == parser.KindColon
}

func (d *Declaration) Parse(p *parser.Parser) error {
	var err error
	if d.Name, err = p.Expect(parser.KindIdent); err != nil {
		return err
	}
	if d.Colon, err = p.Expect(parser.KindColon); err != nil {
		return err
	}
	d.Value.Property = d.Property(p)
	if err = d.Value.Parse(p); err != nil {
		return err
	}
	if c := p.Peek(); c.Kind == parser.KindSemicolon {
		c = p.Next()
		d.Semicolon = &c
	}
	return nil
}

// Property returns the lower-cased property name. Custom property names are
// case-sensitive and returned as written.
func (d *Declaration) Property(p *parser.Parser) string {
	name := p.Name(d.Name)
	if strings.HasPrefix(name, "--") {
		return name
	}
	return strings.ToLower(name)
}

func (d *Declaration) ToCursors(s parser.CursorSink) {
	s.Append(d.Name)
	s.Append(d.Colon)
	d.Value.ToCursors(s)
	if d.Semicolon != nil {
		s.Append(*d.Semicolon)
	}
}

func (*Declaration) isDeclarationItem() {}

// BadDeclaration keeps the cursors of an entry in a declaration block that
// could not be parsed.
type BadDeclaration struct {
	Cursors []parser.Cursor
}

func (b *BadDeclaration) ToCursors(s parser.CursorSink) {
	for _, c := range b.Cursors {
		s.Append(c)
	}
}

func (*BadDeclaration) isDeclarationItem() {}

// Marker is a cursor kept for fidelity that carries no meaning: CDO and CDC
// at the top level of a stylesheet and stray semicolons in blocks.
type Marker struct {
	Cursor parser.Cursor
}

func (m *Marker) ToCursors(s parser.CursorSink) {
	s.Append(m.Cursor)
}

func (*Marker) isRule()            {}
func (*Marker) isDeclarationItem() {}

// DeclarationItem is an entry of a declaration block: *Declaration,
// *BadDeclaration, *Marker, or a nested rule.
type DeclarationItem interface {
	parser.ToCursors
	isDeclarationItem()
}

func declarationList() parser.RuleList[DeclarationItem] {
	return parser.RuleList[DeclarationItem]{
		Stop:       parser.NewKindSet(parser.KindRightCurly),
		Skip:       parser.NewKindSet(parser.KindSemicolon),
		Item:       parseDeclarationItem,
		Bad:        newBadDeclaration,
		Diagnostic: parser.DiagBadDeclaration,
	}
}

func parseDeclarationItem(p *parser.Parser) (DeclarationItem, error) {
	switch c := p.Peek(); {
	case c.Kind == parser.KindAtKeyword:
		return parseAtRule(p)
	case parser.Peek[Declaration](p):
		if d, err := parser.TryParse[Declaration](p); err == nil {
			return d, nil
		}
	}
	return parser.Parse[QualifiedRule](p)
}

func newBadDeclaration(p *parser.Parser, skipped []parser.Cursor) DeclarationItem {
	if len(skipped) == 1 && skipped[0].Kind == parser.KindSemicolon {
		return &Marker{Cursor: skipped[0]}
	}
	return &BadDeclaration{Cursors: skipped}
}

// DeclarationBlock is the `{}` body of a style rule: declarations mixed
// with nested rules.
type DeclarationBlock struct {
	Open   parser.Cursor
	Items  []DeclarationItem
	Close  parser.Cursor
	Closed bool
}

func (b *DeclarationBlock) Parse(p *parser.Parser) error {
	var err error
	if b.Open, err = p.Expect(parser.KindLeftCurly); err != nil {
		return err
	}
	prev := p.SetState((p.State() | parser.StateNested) &^ stateInParens)
	b.Items = parser.ParseRuleList(p, declarationList())
	p.SetState(prev)
	b.Close, b.Closed = closeBlock(p, b.Open, parser.KindRightCurly)
	return nil
}

func (b *DeclarationBlock) ToCursors(s parser.CursorSink) {
	s.Append(b.Open)
	for _, item := range b.Items {
		item.ToCursors(s)
	}
	if b.Closed {
		s.Append(b.Close)
	}
}

// Declarations returns the declarations of the block, in order.
func (b *DeclarationBlock) Declarations() []*Declaration {
	var out []*Declaration
	for _, item := range b.Items {
		if d, ok := item.(*Declaration); ok {
			out = append(out, d)
		}
	}
	return out
}
