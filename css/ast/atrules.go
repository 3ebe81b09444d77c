package ast

import (
	"github.com/dhamidi/csskit/css/parser"
)

// expectEnd consumes the semicolon ending a statement at-rule. End of input
// is accepted in its place.
func expectEnd(p *parser.Parser) (*parser.Cursor, error) {
	c := p.Peek()
	switch c.Kind {
	case parser.KindSemicolon:
		c = p.Next()
		return &c, nil
	case parser.KindEof:
		return nil, nil
	}
	return nil, p.Expected(parser.KindSemicolon, c)
}

func appendOptional(s parser.CursorSink, c *parser.Cursor) {
	if c != nil {
		s.Append(*c)
	}
}

// CharsetRule is `@charset "utf-8";`.
type CharsetRule struct {
	AtKeyword parser.Cursor
	Encoding  parser.Cursor
	Semicolon *parser.Cursor
}

func (r *CharsetRule) Parse(p *parser.Parser) error {
	var err error
	if r.AtKeyword, err = p.ExpectAtKeyword("charset"); err != nil {
		return err
	}
	if r.Encoding, err = p.ExpectString(); err != nil {
		return err
	}
	r.Semicolon, err = expectEnd(p)
	return err
}

func (r *CharsetRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	s.Append(r.Encoding)
	appendOptional(s, r.Semicolon)
}

func (*CharsetRule) isRule()            {}
func (*CharsetRule) isDeclarationItem() {}

// ImportRule is `@import url [layer] [supports()] [media queries];`.
type ImportRule struct {
	AtKeyword parser.Cursor
	// URL is a string, a url token or a url() function.
	URL *ComponentValue
	// Layer is the `layer` keyword or a `layer()` function.
	Layer *ComponentValue
	// Supports is the `supports()` function.
	Supports  *ComponentValue
	Media     *MediaQueryList
	Semicolon *parser.Cursor
}

func (r *ImportRule) Parse(p *parser.Parser) error {
	var err error
	if r.AtKeyword, err = p.ExpectAtKeyword("import"); err != nil {
		return err
	}
	switch c := p.Peek(); {
	case c.Kind == parser.KindString, c.Kind == parser.KindUrl,
		c.Kind == parser.KindFunction && p.EqIgnoreCase(c, "url"):
		if r.URL, err = parser.Parse[ComponentValue](p); err != nil {
			return err
		}
	default:
		return p.Expected(parser.KindString, c)
	}

	if c := p.Peek(); (c.Kind == parser.KindIdent || c.Kind == parser.KindFunction) && p.EqIgnoreCase(c, "layer") {
		if r.Layer, err = parser.Parse[ComponentValue](p); err != nil {
			return err
		}
	}
	if c := p.Peek(); c.Kind == parser.KindFunction && p.EqIgnoreCase(c, "supports") {
		if r.Supports, err = parser.Parse[ComponentValue](p); err != nil {
			return err
		}
	}
	if c := p.Peek(); c.Kind != parser.KindSemicolon && c.Kind != parser.KindEof {
		if r.Media, err = parser.Parse[MediaQueryList](p); err != nil {
			return err
		}
	}
	r.Semicolon, err = expectEnd(p)
	return err
}

func (r *ImportRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	r.URL.ToCursors(s)
	if r.Layer != nil {
		r.Layer.ToCursors(s)
	}
	if r.Supports != nil {
		r.Supports.ToCursors(s)
	}
	if r.Media != nil {
		r.Media.ToCursors(s)
	}
	appendOptional(s, r.Semicolon)
}

func (*ImportRule) isRule()            {}
func (*ImportRule) isDeclarationItem() {}

// MediaRule is `@media queries { ... }`.
type MediaRule struct {
	AtKeyword parser.Cursor
	Queries   *MediaQueryList
	// Block is a *RuleBlock, or a *DeclarationBlock inside a style rule.
	Block parser.ToCursors
}

func (r *MediaRule) Parse(p *parser.Parser) error {
	var err error
	if r.AtKeyword, err = p.ExpectAtKeyword("media"); err != nil {
		return err
	}
	if r.Queries, err = parser.Parse[MediaQueryList](p); err != nil {
		return err
	}
	r.Block, err = parseGroupBody(p)
	return err
}

func (r *MediaRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	r.Queries.ToCursors(s)
	r.Block.ToCursors(s)
}

func (*MediaRule) isRule()            {}
func (*MediaRule) isDeclarationItem() {}

// SupportsRule is `@supports condition { ... }`.
type SupportsRule struct {
	AtKeyword parser.Cursor
	Condition *SupportsCondition
	Block     parser.ToCursors
}

func (r *SupportsRule) Parse(p *parser.Parser) error {
	var err error
	if r.AtKeyword, err = p.ExpectAtKeyword("supports"); err != nil {
		return err
	}
	if r.Condition, err = parser.Parse[SupportsCondition](p); err != nil {
		return err
	}
	r.Block, err = parseGroupBody(p)
	return err
}

func (r *SupportsRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	r.Condition.ToCursors(s)
	r.Block.ToCursors(s)
}

func (*SupportsRule) isRule()            {}
func (*SupportsRule) isDeclarationItem() {}

// LayerName is a dotted cascade layer name like `base.reset`.
type LayerName struct {
	// Parts alternates identifiers and `.` delimiters.
	Parts []parser.Cursor
}

func (*LayerName) Is(p *parser.Parser, c parser.Cursor) bool {
	return c.Kind == parser.KindIdent
}

func (n *LayerName) Parse(p *parser.Parser) error {
	c, err := p.Expect(parser.KindIdent)
	if err != nil {
		return err
	}
	n.Parts = append(n.Parts, c)
	for p.IsDelim(p.PeekRaw(), '.') {
		dot := p.NextRaw()
		ident := p.PeekRaw()
		if ident.Kind != parser.KindIdent {
			return p.Expected(parser.KindIdent, ident)
		}
		n.Parts = append(n.Parts, dot, p.NextRaw())
	}
	return nil
}

func (n *LayerName) ToCursors(s parser.CursorSink) {
	for _, c := range n.Parts {
		s.Append(c)
	}
}

// Names returns the identifiers of the dotted name.
func (n *LayerName) Names(p *parser.Parser) []string {
	var out []string
	for i := 0; i < len(n.Parts); i += 2 {
		out = append(out, p.Name(n.Parts[i]))
	}
	return out
}

// LayerRule is the `@layer a, b;` statement or the `@layer name { ... }`
// block. Anonymous layers have no names.
type LayerRule struct {
	AtKeyword parser.Cursor
	Names     parser.CommaSeparated[LayerName]
	Block     parser.ToCursors
	Semicolon *parser.Cursor
}

func (r *LayerRule) Parse(p *parser.Parser) error {
	var err error
	if r.AtKeyword, err = p.ExpectAtKeyword("layer"); err != nil {
		return err
	}
	if parser.Peek[LayerName](p) {
		if r.Names, err = parser.ParseCommaSeparated[LayerName](p, parser.LeftCurlyOrSemicolon); err != nil {
			return err
		}
	}
	if p.Peek().Kind == parser.KindLeftCurly {
		if r.Names.Len() > 1 {
			return p.Unexpected(p.Peek())
		}
		r.Block, err = parseGroupBody(p)
		return err
	}
	if r.Names.Len() == 0 {
		return p.Expected(parser.KindIdent, p.Peek())
	}
	r.Semicolon, err = expectEnd(p)
	return err
}

func (r *LayerRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	r.Names.ToCursors(s)
	if r.Block != nil {
		r.Block.ToCursors(s)
	}
	appendOptional(s, r.Semicolon)
}

func (*LayerRule) isRule()            {}
func (*LayerRule) isDeclarationItem() {}

// FontFaceRule is `@font-face { descriptors }`.
type FontFaceRule struct {
	AtKeyword parser.Cursor
	Block     *DeclarationBlock
}

func (r *FontFaceRule) Parse(p *parser.Parser) error {
	var err error
	if r.AtKeyword, err = p.ExpectAtKeyword("font-face"); err != nil {
		return err
	}
	r.Block, err = parser.Parse[DeclarationBlock](p)
	return err
}

func (r *FontFaceRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	r.Block.ToCursors(s)
}

func (*FontFaceRule) isRule()            {}
func (*FontFaceRule) isDeclarationItem() {}

// KeyframeSelector is `from`, `to` or a percentage.
type KeyframeSelector struct {
	Cursor parser.Cursor
}

func (*KeyframeSelector) Is(p *parser.Parser, c parser.Cursor) bool {
	return c.Kind == parser.KindPercentage ||
		c.Kind == parser.KindIdent && (p.EqIgnoreCase(c, "from") || p.EqIgnoreCase(c, "to"))
}

func (k *KeyframeSelector) Build(p *parser.Parser, c parser.Cursor) {
	k.Cursor = c
}

func (k *KeyframeSelector) ToCursors(s parser.CursorSink) {
	s.Append(k.Cursor)
}

// Offset returns the position of the keyframe between 0 and 1.
func (k *KeyframeSelector) Offset(p *parser.Parser) float64 {
	switch {
	case k.Cursor.Kind == parser.KindPercentage:
		return p.NumberValue(k.Cursor) / 100
	case p.EqIgnoreCase(k.Cursor, "to"):
		return 1
	}
	return 0
}

// Keyframe is one block of a @keyframes rule.
type Keyframe struct {
	Selectors parser.CommaSeparated[KeyframeSelector]
	Block     *DeclarationBlock
}

func (k *Keyframe) Parse(p *parser.Parser) error {
	var err error
	if k.Selectors, err = parser.ParseCommaSeparated[KeyframeSelector](p, parser.LeftCurlyOrSemicolon); err != nil {
		return err
	}
	k.Block, err = parser.Parse[DeclarationBlock](p)
	return err
}

func (k *Keyframe) ToCursors(s parser.CursorSink) {
	k.Selectors.ToCursors(s)
	k.Block.ToCursors(s)
}

func (*Keyframe) isRule() {}

// KeyframesRule is `@keyframes name { keyframes }`.
type KeyframesRule struct {
	AtKeyword parser.Cursor
	// Name is an identifier or a string.
	Name   parser.Cursor
	Open   parser.Cursor
	Frames []Rule
	Close  parser.Cursor
	Closed bool
}

func (r *KeyframesRule) Parse(p *parser.Parser) error {
	r.AtKeyword = p.Next()
	c := p.Peek()
	if c.Kind != parser.KindIdent && c.Kind != parser.KindString {
		return p.Expected(parser.KindIdent, c)
	}
	r.Name = p.Next()

	var err error
	if r.Open, err = p.Expect(parser.KindLeftCurly); err != nil {
		return err
	}
	prev := p.SetState(p.State() &^ parser.StateNested)
	r.Frames = parser.ParseRuleList(p, parser.RuleList[Rule]{
		Stop: parser.NewKindSet(parser.KindRightCurly),
		Item: func(p *parser.Parser) (Rule, error) {
			return parser.Parse[Keyframe](p)
		},
		Bad:        newBadRule,
		Diagnostic: parser.DiagBadRule,
	})
	p.SetState(prev)
	r.Close, r.Closed = closeBlock(p, r.Open, parser.KindRightCurly)
	return nil
}

// Keyframes returns the parsed keyframe blocks, skipping bad ones.
func (r *KeyframesRule) Keyframes() []*Keyframe {
	var out []*Keyframe
	for _, f := range r.Frames {
		if k, ok := f.(*Keyframe); ok {
			out = append(out, k)
		}
	}
	return out
}

func (r *KeyframesRule) ToCursors(s parser.CursorSink) {
	s.Append(r.AtKeyword)
	s.Append(r.Name)
	s.Append(r.Open)
	for _, f := range r.Frames {
		f.ToCursors(s)
	}
	if r.Closed {
		s.Append(r.Close)
	}
}

func (*KeyframesRule) isRule()            {}
func (*KeyframesRule) isDeclarationItem() {}
