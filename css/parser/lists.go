package parser

import "errors"

// ParseUntil parses Ts until end of input or a cursor in stop. Every round
// either consumes input or ends the loop.
func ParseUntil[T any](p *Parser, stop KindSet) ([]*T, error) {
	var items []*T
	for {
		c := p.Peek()
		if c.Kind == KindEof || stop.Has(c.Kind) {
			return items, nil
		}
		start := p.pos
		item, err := Parse[T](p)
		if err != nil {
			return items, err
		}
		if p.pos == start {
			return items, p.Unexpected(p.Next())
		}
		items = append(items, item)
	}
}

// ParsePrelude parses the Ts in front of a rule body or terminating
// semicolon.
func ParsePrelude[T any](p *Parser) ([]*T, error) {
	return ParseUntil[T](p, LeftCurlyOrSemicolon)
}

// CommaSeparated holds a non-empty list of items and the commas between
// them. A trailing comma, if any, is the last entry of Commas.
type CommaSeparated[T any] struct {
	Items  []*T
	Commas []Cursor
}

func (l *CommaSeparated[T]) Len() int {
	return len(l.Items)
}

func (l *CommaSeparated[T]) ToCursors(s CursorSink) {
	for i, item := range l.Items {
		if w, ok := any(item).(ToCursors); ok {
			w.ToCursors(s)
		}
		if i < len(l.Commas) {
			s.Append(l.Commas[i])
		}
	}
}

// ParseCommaSeparated parses one or more Ts separated by commas. The list
// ends at end of input or a cursor in stop, which is left unconsumed; a comma
// directly in front of the stop cursor is kept and ends the list too.
func ParseCommaSeparated[T any](p *Parser, stop KindSet) (CommaSeparated[T], error) {
	var out CommaSeparated[T]
	for {
		item, err := Parse[T](p)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, item)

		c := p.Peek()
		if c.Kind == KindEof || stop.Has(c.Kind) {
			return out, nil
		}
		if c.Kind != KindComma {
			return out, p.Expected(KindComma, c)
		}
		out.Commas = append(out.Commas, p.Next())

		if c := p.Peek(); c.Kind == KindEof || stop.Has(c.Kind) {
			return out, nil
		}
	}
}

// RuleList describes a list of rules or declarations.
type RuleList[E any] struct {
	// Stop ends the list without being consumed, usually `}`.
	Stop KindSet
	// Skip kinds are consumed on their own and kept through Bad without a
	// diagnostic, like CDO and CDC at the top level of a stylesheet.
	Skip KindSet
	// Item parses one entry.
	Item func(p *Parser) (E, error)
	// Bad wraps skipped cursors into a placeholder entry.
	Bad func(p *Parser, skipped []Cursor) E
	// Diagnostic is reported once for every placeholder built after a
	// failed item.
	Diagnostic DiagnosticKind
}

// ParseRuleList parses entries until end of input or a Stop cursor. An entry
// that fails to parse never aborts the list: the parser rewinds, skips to
// the next recovery boundary and keeps the skipped cursors in a placeholder.
func ParseRuleList[E any](p *Parser, l RuleList[E]) []E {
	var items []E
	for {
		c := p.Peek()
		if c.Kind == KindEof || l.Stop.Has(c.Kind) {
			return items
		}
		if l.Skip.Has(c.Kind) {
			i := p.significant(p.pos)
			p.Next()
			items = append(items, l.Bad(p, p.tokens[i:i+1]))
			continue
		}

		cp := p.Checkpoint()
		item, err := l.Item(p)
		if err == nil && p.pos > cp.pos {
			items = append(items, item)
			continue
		}
		p.Rewind(cp)

		skipped := skipToBoundary(p, l.Stop)
		d := p.Report(l.Diagnostic, spanOfSignificant(skipped))
		var cause *Diagnostic
		if errors.As(err, &cause) && cause.Kind == DiagUnknownAtRule {
			d.Kind, d.Detail = cause.Kind, cause.Detail
		}
		items = append(items, l.Bad(p, skipped))
	}
}

// skipToBoundary consumes cursors up to and including the next `;` at depth
// zero or the end of the next `{}` block, or up to a stop cursor at depth
// zero. At least one cursor is always consumed.
func skipToBoundary(p *Parser, stop KindSet) []Cursor {
	p.pos = p.significant(p.pos)
	start := p.pos
	var closers []Kind
	for {
		c := p.tokens[p.pos]
		if c.Kind == KindEof {
			break
		}
		depth := len(closers)
		if depth == 0 && p.pos > start && stop.Has(c.Kind) {
			break
		}
		p.pos++
		switch {
		case depth == 0 && c.Kind == KindSemicolon:
			return p.trimTrivia(start)
		case OpenBrackets.Has(c.Kind):
			closers = append(closers, CloserOf(c.Kind))
		case depth > 0 && c.Kind == closers[depth-1]:
			closers = closers[:depth-1]
			if depth == 1 && c.Kind == KindRightCurly {
				return p.trimTrivia(start)
			}
		}
	}
	return p.trimTrivia(start)
}

// trimTrivia returns the cursors consumed since start, moving the position
// back in front of any trailing trivia so it stays with what follows.
func (p *Parser) trimTrivia(start int) []Cursor {
	for p.pos > start && p.tokens[p.pos-1].Kind.IsTrivia() {
		p.pos--
	}
	return p.tokens[start:p.pos]
}

func spanOfSignificant(cursors []Cursor) Span {
	var span Span
	first := true
	for _, c := range cursors {
		if c.Kind.IsTrivia() {
			continue
		}
		if first {
			span = c.Span
			first = false
			continue
		}
		span = span.UpTo(c.Span)
	}
	return span
}

// ConditionList describes items joined by keyword connectives such as
// `and` and `or`.
type ConditionList[E any] struct {
	Connectives []string
	Item        func(p *Parser) (E, error)
}

// Conditions is a parsed condition list. Connectives[i] sits between
// Items[i] and Items[i+1].
type Conditions[E any] struct {
	Items       []E
	Connectives []Cursor
}

// ParseConditionList parses one item followed by any number of connective
// and item pairs. All connectives in one list must be the same keyword.
func ParseConditionList[E any](p *Parser, l ConditionList[E]) (Conditions[E], error) {
	var out Conditions[E]
	item, err := l.Item(p)
	if err != nil {
		return out, err
	}
	out.Items = append(out.Items, item)

	used := ""
	for {
		c := p.Peek()
		name := l.connective(p, c)
		if name == "" {
			return out, nil
		}
		if used != "" && name != used {
			d := p.Report(DiagMixedConnectives, c.Span)
			d.Detail = name
			return out, d
		}
		used = name
		out.Connectives = append(out.Connectives, p.Next())

		item, err := l.Item(p)
		if err != nil {
			return out, err
		}
		out.Items = append(out.Items, item)
	}
}

func (l ConditionList[E]) connective(p *Parser, c Cursor) string {
	if c.Kind != KindIdent {
		return ""
	}
	for _, name := range l.Connectives {
		if p.EqIgnoreCase(c, name) {
			return name
		}
	}
	return ""
}
