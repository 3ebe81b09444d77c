package ast

import (
	"strings"

	"github.com/dhamidi/csskit/css/parser"
)

// Rule is a top-level entry of a stylesheet or of a conditional group
// rule: *QualifiedRule, an at-rule, *BadRule or *Marker.
type Rule interface {
	parser.ToCursors
	isRule()
}

// AtRule is a rule introduced by an at-keyword. At-rules may appear both
// among rules and nested in declaration blocks.
type AtRule interface {
	Rule
	DeclarationItem
}

// StyleSheet is the root of a parsed stylesheet.
type StyleSheet struct {
	Rules []Rule
}

func (s *StyleSheet) Parse(p *parser.Parser) error {
	l := ruleList()
	l.Stop = 0
	l.Skip = parser.NewKindSet(parser.KindCdo, parser.KindCdc)
	s.Rules = parser.ParseRuleList(p, l)
	return nil
}

func (s *StyleSheet) ToCursors(sink parser.CursorSink) {
	for _, r := range s.Rules {
		r.ToCursors(sink)
	}
}

func ruleList() parser.RuleList[Rule] {
	return parser.RuleList[Rule]{
		Stop:       parser.NewKindSet(parser.KindRightCurly),
		Item:       parseRule,
		Bad:        newBadRule,
		Diagnostic: parser.DiagBadRule,
	}
}

func parseRule(p *parser.Parser) (Rule, error) {
	if p.Peek().Kind == parser.KindAtKeyword {
		return parseAtRule(p)
	}
	return parser.Parse[QualifiedRule](p)
}

func parseAtRule(p *parser.Parser) (AtRule, error) {
	c := p.Peek()
	name := strings.ToLower(p.Name(c))
	switch name {
	case "charset":
		return parser.Parse[CharsetRule](p)
	case "import":
		return parser.Parse[ImportRule](p)
	case "media":
		return parser.Parse[MediaRule](p)
	case "supports":
		return parser.Parse[SupportsRule](p)
	case "layer":
		return parser.Parse[LayerRule](p)
	case "font-face":
		return parser.Parse[FontFaceRule](p)
	case "keyframes", "-webkit-keyframes", "-moz-keyframes":
		return parser.Parse[KeyframesRule](p)
	}
	d := p.Report(parser.DiagUnknownAtRule, c.Span)
	d.Detail = name
	return nil, d
}

func newBadRule(p *parser.Parser, skipped []parser.Cursor) Rule {
	if len(skipped) == 1 {
		switch skipped[0].Kind {
		case parser.KindCdo, parser.KindCdc:
			return &Marker{Cursor: skipped[0]}
		}
	}
	return &BadRule{Cursors: skipped}
}

// BadRule keeps the cursors of a rule that could not be parsed.
type BadRule struct {
	Cursors []parser.Cursor
}

func (b *BadRule) ToCursors(s parser.CursorSink) {
	for _, c := range b.Cursors {
		s.Append(c)
	}
}

func (*BadRule) isRule()            {}
func (*BadRule) isDeclarationItem() {}

// Selector is one complex selector of a selector list, kept as component
// values.
type Selector struct {
	Values []*ComponentValue
}

func (sel *Selector) Parse(p *parser.Parser) error {
	stop := parser.NewKindSet(parser.KindComma, parser.KindLeftCurly, parser.KindSemicolon)
	if p.State().Has(parser.StateNested) {
		stop = stop.Add(parser.KindRightCurly)
	}
	var err error
	if sel.Values, err = parser.ParseUntil[ComponentValue](p, stop); err != nil {
		return err
	}
	if len(sel.Values) == 0 {
		return p.Unexpected(p.Peek())
	}
	return nil
}

func (sel *Selector) ToCursors(s parser.CursorSink) {
	for _, v := range sel.Values {
		v.ToCursors(s)
	}
}

// QualifiedRule is a style rule: a selector list and a declaration block.
type QualifiedRule struct {
	Selectors parser.CommaSeparated[Selector]
	Block     *DeclarationBlock
}

func (r *QualifiedRule) Parse(p *parser.Parser) error {
	stop := parser.LeftCurlyOrSemicolon
	if p.State().Has(parser.StateNested) {
		stop = stop.Add(parser.KindRightCurly)
	}
	var err error
	if r.Selectors, err = parser.ParseCommaSeparated[Selector](p, stop); err != nil {
		return err
	}
	r.Block, err = parser.Parse[DeclarationBlock](p)
	return err
}

func (r *QualifiedRule) ToCursors(s parser.CursorSink) {
	r.Selectors.ToCursors(s)
	r.Block.ToCursors(s)
}

func (*QualifiedRule) isRule()            {}
func (*QualifiedRule) isDeclarationItem() {}

// RuleBlock is a `{}` block holding rules, like the body of `@media` at
// the top level.
type RuleBlock struct {
	Open   parser.Cursor
	Rules  []Rule
	Close  parser.Cursor
	Closed bool
}

func (b *RuleBlock) Parse(p *parser.Parser) error {
	var err error
	if b.Open, err = p.Expect(parser.KindLeftCurly); err != nil {
		return err
	}
	b.Rules = parser.ParseRuleList(p, ruleList())
	b.Close, b.Closed = closeBlock(p, b.Open, parser.KindRightCurly)
	return nil
}

func (b *RuleBlock) ToCursors(s parser.CursorSink) {
	s.Append(b.Open)
	for _, r := range b.Rules {
		r.ToCursors(s)
	}
	if b.Closed {
		s.Append(b.Close)
	}
}

// parseGroupBody parses the block of a conditional group rule: rules at
// the top level, declarations and nested rules inside a style rule.
func parseGroupBody(p *parser.Parser) (parser.ToCursors, error) {
	if p.State().Has(parser.StateNested) {
		return parser.Parse[DeclarationBlock](p)
	}
	return parser.Parse[RuleBlock](p)
}
