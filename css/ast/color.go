package ast

import (
	"strings"

	"github.com/dhamidi/csskit/css/grammar"
	"github.com/dhamidi/csskit/css/parser"
)

// Keyword is an identifier value taken from a keyword table.
type Keyword struct {
	Cursor parser.Cursor
	// Name is the lower-cased, escape-decoded keyword.
	Name string
}

func (k *Keyword) build(p *parser.Parser, c parser.Cursor) {
	k.Cursor = c
	k.Name = strings.ToLower(p.Name(c))
}

func (k *Keyword) ToCursors(s parser.CursorSink) {
	s.Append(k.Cursor)
}

func isKeyword(p *parser.Parser, c parser.Cursor, set *grammar.KeywordSet) bool {
	return c.Kind == parser.KindIdent && set.Has(p.Name(c))
}

// NamedColor is one of the named colors, like `red`.
type NamedColor struct {
	Keyword
}

func (*NamedColor) Is(p *parser.Parser, c parser.Cursor) bool {
	return isKeyword(p, c, grammar.NamedColors())
}

func (n *NamedColor) Build(p *parser.Parser, c parser.Cursor) {
	n.build(p, c)
}

// DisplayKeyword is a keyword value of the display property.
type DisplayKeyword struct {
	Keyword
}

func (*DisplayKeyword) Is(p *parser.Parser, c parser.Cursor) bool {
	return isKeyword(p, c, grammar.DisplayKeywords())
}

func (k *DisplayKeyword) Build(p *parser.Parser, c parser.Cursor) {
	k.build(p, c)
}

// CssWideKeyword is one of the keywords every property accepts, like
// `inherit`.
type CssWideKeyword struct {
	Keyword
}

func (*CssWideKeyword) Is(p *parser.Parser, c parser.Cursor) bool {
	return isKeyword(p, c, grammar.CssWideKeywords())
}

func (k *CssWideKeyword) Build(p *parser.Parser, c parser.Cursor) {
	k.build(p, c)
}

type ColorKind uint8

const (
	ColorNamed ColorKind = iota
	ColorHex
	ColorFunction
	ColorCurrent
	ColorTransparent
)

var colorKindNames = [...]string{
	ColorNamed:       "named",
	ColorHex:         "hex",
	ColorFunction:    "function",
	ColorCurrent:     "currentcolor",
	ColorTransparent: "transparent",
}

func (k ColorKind) String() string {
	if int(k) < len(colorKindNames) {
		return colorKindNames[k]
	}
	return "unknown"
}

func (k ColorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Color is a color value. Named is set for named colors, Function for
// color functions, and Token holds the hash or keyword otherwise.
type Color struct {
	Kind     ColorKind
	Named    *NamedColor
	Token    parser.Cursor
	Function *Function
}

func (*Color) Is(p *parser.Parser, c parser.Cursor) bool {
	switch c.Kind {
	case parser.KindHash:
		return true
	case parser.KindFunction:
		return grammar.ColorFunctions().Has(p.Name(c))
	case parser.KindIdent:
		return grammar.NamedColors().Has(p.Name(c)) || grammar.Lookup("SpecialColor").Has(p.Name(c))
	}
	return false
}

func (col *Color) Parse(p *parser.Parser) error {
	c := p.Peek()
	if !col.Is(p, c) {
		return p.Unexpected(p.Next())
	}
	var err error
	switch c.Kind {
	case parser.KindHash:
		col.Kind = ColorHex
		col.Token = p.Next()
		if !isHexColor(p.Name(col.Token)) {
			return p.Unexpected(col.Token)
		}
	case parser.KindFunction:
		col.Kind = ColorFunction
		col.Function, err = parser.Parse[Function](p)
	default:
		switch {
		case p.EqIgnoreCase(c, "currentcolor"):
			col.Kind = ColorCurrent
			col.Token = p.Next()
		case p.EqIgnoreCase(c, "transparent"):
			col.Kind = ColorTransparent
			col.Token = p.Next()
		default:
			col.Kind = ColorNamed
			col.Named, err = parser.Parse[NamedColor](p)
		}
	}
	return err
}

func (col *Color) ToCursors(s parser.CursorSink) {
	switch {
	case col.Named != nil:
		col.Named.ToCursors(s)
	case col.Function != nil:
		col.Function.ToCursors(s)
	default:
		s.Append(col.Token)
	}
}

func isHexColor(digits string) bool {
	switch len(digits) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

// colorProperties take a single color as their value.
var colorProperties = map[string]bool{
	"color":                 true,
	"background-color":      true,
	"border-color":          true,
	"border-top-color":      true,
	"border-right-color":    true,
	"border-bottom-color":   true,
	"border-left-color":     true,
	"outline-color":         true,
	"text-decoration-color": true,
	"column-rule-color":     true,
	"caret-color":           true,
	"accent-color":          true,
	"fill":                  true,
	"stroke":                true,
}

// ColorProperty reports whether the lower-cased property takes a single
// color.
func ColorProperty(name string) bool {
	return colorProperties[name]
}
