package ast

import (
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

var connectives = []string{"and", "or"}

// MediaQueryList is the comma separated list of queries of `@media` and
// `@import`. An empty list matches all media.
type MediaQueryList struct {
	parser.CommaSeparated[MediaQuery]
}

func (l *MediaQueryList) Parse(p *parser.Parser) error {
	if c := p.Peek(); c.Kind == parser.KindLeftCurly || c.Kind == parser.KindEof {
		return nil
	}
	var err error
	l.CommaSeparated, err = parser.ParseCommaSeparated[MediaQuery](p, parser.LeftCurlyOrSemicolon)
	return err
}

// MediaQuery is `[not|only] type [and condition]` or a bare condition.
type MediaQuery struct {
	Modifier  *parser.Cursor
	Type      *parser.Cursor
	And       *parser.Cursor
	Condition *MediaCondition
}

func (q *MediaQuery) Parse(p *parser.Parser) error {
	c := p.Peek()
	if c.Kind != parser.KindIdent || p.EqIgnoreCase(c, "not") && p.PeekN(1).Kind != parser.KindIdent {
		var err error
		q.Condition, err = parser.Parse[MediaCondition](p)
		return err
	}

	if (p.EqIgnoreCase(c, "not") || p.EqIgnoreCase(c, "only")) && p.PeekN(1).Kind == parser.KindIdent {
		m := p.Next()
		q.Modifier = &m
	}
	t, err := p.Expect(parser.KindIdent)
	if err != nil {
		return err
	}
	if p.EqIgnoreCase(t, "and") || p.EqIgnoreCase(t, "or") || p.EqIgnoreCase(t, "only") {
		return p.Unexpected(t)
	}
	q.Type = &t

	if c := p.Peek(); c.Kind == parser.KindIdent && p.EqIgnoreCase(c, "and") {
		and := p.Next()
		q.And = &and
		q.Condition, err = parser.Parse[MediaCondition](p)
	}
	return err
}

func (q *MediaQuery) ToCursors(s parser.CursorSink) {
	appendOptional(s, q.Modifier)
	appendOptional(s, q.Type)
	appendOptional(s, q.And)
	if q.Condition != nil {
		q.Condition.ToCursors(s)
	}
}

// MediaType returns the lower-cased media type, or "" for a bare
// condition.
func (q *MediaQuery) MediaType(p *parser.Parser) string {
	if q.Type == nil {
		return ""
	}
	return strings.ToLower(p.Name(*q.Type))
}

// MediaCondition is `not <in-parens>` or in-parens terms joined by one
// kind of connective.
type MediaCondition struct {
	Not   *parser.Cursor
	Terms parser.Conditions[*MediaInParens]
}

func (m *MediaCondition) Parse(p *parser.Parser) error {
	if c := p.Peek(); c.Kind == parser.KindIdent && p.EqIgnoreCase(c, "not") {
		not := p.Next()
		m.Not = &not
		term, err := parser.Parse[MediaInParens](p)
		if err != nil {
			return err
		}
		m.Terms.Items = []*MediaInParens{term}
		return nil
	}
	var err error
	m.Terms, err = parser.ParseConditionList(p, parser.ConditionList[*MediaInParens]{
		Connectives: connectives,
		Item:        parser.Parse[MediaInParens],
	})
	return err
}

func (m *MediaCondition) ToCursors(s parser.CursorSink) {
	appendOptional(s, m.Not)
	writeConditions(s, m.Terms)
}

func writeConditions[E parser.ToCursors](s parser.CursorSink, c parser.Conditions[E]) {
	for i, item := range c.Items {
		item.ToCursors(s)
		if i < len(c.Connectives) {
			s.Append(c.Connectives[i])
		}
	}
}

// MediaInParens is a media feature, a parenthesized condition, or any
// other block or function kept as written.
type MediaInParens struct {
	Feature   *MediaFeature
	Open      parser.Cursor
	Condition *MediaCondition
	Close     parser.Cursor
	Enclosed  *ComponentValue
}

func (m *MediaInParens) Parse(p *parser.Parser) error {
	var err error
	switch p.Peek().Kind {
	case parser.KindLeftParen:
		if f, err := parser.TryParse[MediaFeature](p); err == nil {
			m.Feature = f
			return nil
		}
		cp := p.Checkpoint()
		m.Open = p.Next()
		if m.Condition, err = parser.Parse[MediaCondition](p); err == nil {
			if m.Close, err = p.Expect(parser.KindRightParen); err == nil {
				return nil
			}
		}
		p.Rewind(cp)
		m.Condition = nil
		m.Enclosed, err = parser.Parse[ComponentValue](p)
		return err
	case parser.KindFunction:
		m.Enclosed, err = parser.Parse[ComponentValue](p)
		return err
	}
	return p.Unexpected(p.Next())
}

func (m *MediaInParens) ToCursors(s parser.CursorSink) {
	switch {
	case m.Feature != nil:
		m.Feature.ToCursors(s)
	case m.Enclosed != nil:
		m.Enclosed.ToCursors(s)
	default:
		s.Append(m.Open)
		m.Condition.ToCursors(s)
		s.Append(m.Close)
	}
}

type FeatureKind uint8

const (
	// FeatureBoolean is `(name)`.
	FeatureBoolean FeatureKind = iota
	// FeaturePlain is `(name: value)`.
	FeaturePlain
	// FeatureRange is `(name > value)`, `(value < name)` or
	// `(value < name < value)`.
	FeatureRange
)

var featureKindNames = [...]string{
	FeatureBoolean: "boolean",
	FeaturePlain:   "plain",
	FeatureRange:   "range",
}

func (k FeatureKind) String() string {
	if int(k) < len(featureKindNames) {
		return featureKindNames[k]
	}
	return "unknown"
}

func (k FeatureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MediaFeature is a parenthesized media feature test.
type MediaFeature struct {
	Kind  FeatureKind
	Open  parser.Cursor
	Low   *MediaValue
	LowOp *Comparison
	Name  parser.Cursor
	Colon *parser.Cursor
	// Value is the value of a plain feature or the right-hand side of a
	// range.
	Value *MediaValue
	Op    *Comparison
	Close parser.Cursor
}

func (f *MediaFeature) Is(p *parser.Parser, c parser.Cursor) bool {
	return c.Kind == parser.KindLeftParen
}

func (f *MediaFeature) Parse(p *parser.Parser) error {
	var err error
	if f.Open, err = p.Expect(parser.KindLeftParen); err != nil {
		return err
	}

	if c, next := p.Peek(), p.PeekN(1); c.Kind != parser.KindIdent ||
		next.Kind != parser.KindColon && next.Kind != parser.KindRightParen && !isComparison(p, next) {
		f.Kind = FeatureRange
		if f.Low, err = parser.Parse[MediaValue](p); err != nil {
			return err
		}
		if f.LowOp, err = parser.Parse[Comparison](p); err != nil {
			return err
		}
	}
	if f.Name, err = p.Expect(parser.KindIdent); err != nil {
		return err
	}

	switch c := p.Peek(); {
	case c.Kind == parser.KindColon && f.Low == nil:
		f.Kind = FeaturePlain
		colon := p.Next()
		f.Colon = &colon
		if f.Value, err = parser.Parse[MediaValue](p); err != nil {
			return err
		}
	case isComparison(p, c):
		f.Kind = FeatureRange
		if f.Op, err = parser.Parse[Comparison](p); err != nil {
			return err
		}
		if f.Value, err = parser.Parse[MediaValue](p); err != nil {
			return err
		}
	}
	f.Close, err = p.Expect(parser.KindRightParen)
	return err
}

func (f *MediaFeature) ToCursors(s parser.CursorSink) {
	s.Append(f.Open)
	if f.Low != nil {
		f.Low.ToCursors(s)
		f.LowOp.ToCursors(s)
	}
	s.Append(f.Name)
	appendOptional(s, f.Colon)
	if f.Op != nil {
		f.Op.ToCursors(s)
	}
	if f.Value != nil {
		f.Value.ToCursors(s)
	}
	s.Append(f.Close)
}

// FeatureName returns the lower-cased feature name.
func (f *MediaFeature) FeatureName(p *parser.Parser) string {
	return strings.ToLower(p.Name(f.Name))
}

// MediaValue is a number, dimension, identifier or ratio like `16/9`.
type MediaValue struct {
	Value       parser.Cursor
	Slash       *parser.Cursor
	Denominator *parser.Cursor
}

func (v *MediaValue) Parse(p *parser.Parser) error {
	switch c := p.Peek(); c.Kind {
	case parser.KindNumber, parser.KindDimension, parser.KindIdent:
	default:
		return p.Unexpected(p.Next())
	}
	v.Value = p.Next()
	if v.Value.Kind == parser.KindNumber && p.IsDelim(p.Peek(), '/') && p.PeekN(1).Kind == parser.KindNumber {
		slash, denom := p.Next(), p.Next()
		v.Slash, v.Denominator = &slash, &denom
	}
	return nil
}

func (v *MediaValue) ToCursors(s parser.CursorSink) {
	s.Append(v.Value)
	appendOptional(s, v.Slash)
	appendOptional(s, v.Denominator)
}

// Comparison is one of `<`, `<=`, `>`, `>=` and `=`.
type Comparison struct {
	Op parser.Cursor
	Eq *parser.Cursor
}

func isComparison(p *parser.Parser, c parser.Cursor) bool {
	return p.IsDelim(c, '<') || p.IsDelim(c, '>') || p.IsDelim(c, '=')
}

func (cmp *Comparison) Parse(p *parser.Parser) error {
	c := p.Peek()
	if !isComparison(p, c) {
		return p.Unexpected(p.Next())
	}
	cmp.Op = p.Next()
	if !p.IsDelim(cmp.Op, '=') && p.IsDelim(p.PeekRaw(), '=') {
		eq := p.NextRaw()
		cmp.Eq = &eq
	}
	return nil
}

func (cmp *Comparison) ToCursors(s parser.CursorSink) {
	s.Append(cmp.Op)
	appendOptional(s, cmp.Eq)
}

// String returns the operator as written without whitespace.
func (cmp *Comparison) String(p *parser.Parser) string {
	if cmp.Eq != nil {
		return p.Text(cmp.Op) + "="
	}
	return p.Text(cmp.Op)
}

// SupportsCondition is the condition of `@supports`.
type SupportsCondition struct {
	Not   *parser.Cursor
	Terms parser.Conditions[*SupportsInParens]
}

func (sc *SupportsCondition) Parse(p *parser.Parser) error {
	if c := p.Peek(); c.Kind == parser.KindIdent && p.EqIgnoreCase(c, "not") {
		not := p.Next()
		sc.Not = &not
		term, err := parser.Parse[SupportsInParens](p)
		if err != nil {
			return err
		}
		sc.Terms.Items = []*SupportsInParens{term}
		return nil
	}
	var err error
	sc.Terms, err = parser.ParseConditionList(p, parser.ConditionList[*SupportsInParens]{
		Connectives: connectives,
		Item:        parser.Parse[SupportsInParens],
	})
	return err
}

func (sc *SupportsCondition) ToCursors(s parser.CursorSink) {
	appendOptional(s, sc.Not)
	writeConditions(s, sc.Terms)
}

// SupportsInParens is a parenthesized condition or declaration, or a
// function such as `selector()` kept as written.
type SupportsInParens struct {
	Open        parser.Cursor
	Condition   *SupportsCondition
	Declaration *Declaration
	Close       parser.Cursor
	Enclosed    *ComponentValue
}

func (si *SupportsInParens) Parse(p *parser.Parser) error {
	var err error
	switch p.Peek().Kind {
	case parser.KindLeftParen:
		cp := p.Checkpoint()
		si.Open = p.Next()
		prev := p.SetState(p.State() | stateInParens)
		if parser.Peek[Declaration](p) {
			si.Declaration, err = parser.Parse[Declaration](p)
		} else {
			si.Condition, err = parser.Parse[SupportsCondition](p)
		}
		p.SetState(prev)
		if err == nil {
			if si.Close, err = p.Expect(parser.KindRightParen); err == nil {
				return nil
			}
		}
		p.Rewind(cp)
		si.Declaration, si.Condition = nil, nil
		si.Enclosed, err = parser.Parse[ComponentValue](p)
		return err
	case parser.KindFunction:
		si.Enclosed, err = parser.Parse[ComponentValue](p)
		return err
	}
	return p.Unexpected(p.Next())
}

func (si *SupportsInParens) ToCursors(s parser.CursorSink) {
	switch {
	case si.Enclosed != nil:
		si.Enclosed.ToCursors(s)
	default:
		s.Append(si.Open)
		if si.Declaration != nil {
			si.Declaration.ToCursors(s)
		} else {
			si.Condition.ToCursors(s)
		}
		s.Append(si.Close)
	}
}
