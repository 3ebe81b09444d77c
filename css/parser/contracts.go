package parser

import "fmt"

// Peekable is implemented by productions that can tell from one cursor
// whether a value of their type starts there. Is must not consume input and
// is called on a zero value.
type Peekable interface {
	Is(p *Parser, c Cursor) bool
}

// Buildable is implemented by single-cursor productions. Build is called
// with the cursor Is accepted, after it has been consumed, and cannot fail.
type Buildable interface {
	Peekable
	Build(p *Parser, c Cursor)
}

// Parseable is implemented by productions that consume input themselves.
type Parseable interface {
	Parse(p *Parser) error
}

// ToCursors is implemented by every node that can be written back out.
type ToCursors interface {
	ToCursors(s CursorSink)
}

// Peek reports whether the next significant cursor starts a T.
func Peek[T any](p *Parser) bool {
	var zero T
	v, ok := any(&zero).(Peekable)
	if !ok {
		panic(fmt.Sprintf("parser: %T does not implement Is", &zero))
	}
	return v.Is(p, p.Peek())
}

// Parse allocates a T in the parser's arena and parses it. Types that only
// implement Is and Build are parsed by peeking, consuming and building; when
// Is rejects the next cursor it is consumed anyway so the caller always makes
// progress, and an unexpected-token diagnostic is returned.
func Parse[T any](p *Parser) (*T, error) {
	v := Alloc[T](p.arena)
	if err := parseInto(p, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseValue is Parse for small values kept off the arena.
func ParseValue[T any](p *Parser) (T, error) {
	var v T
	err := parseInto(p, &v)
	return v, err
}

// TryParse parses a T and rewinds to where it started if that fails.
func TryParse[T any](p *Parser) (*T, error) {
	cp := p.Checkpoint()
	v, err := Parse[T](p)
	if err != nil {
		p.Rewind(cp)
	}
	return v, err
}

func TryParseValue[T any](p *Parser) (T, error) {
	cp := p.Checkpoint()
	v, err := ParseValue[T](p)
	if err != nil {
		p.Rewind(cp)
	}
	return v, err
}

// ParseIf parses a T only when the next cursor starts one. It returns nil
// without consuming anything otherwise.
func ParseIf[T any](p *Parser) (*T, error) {
	if !Peek[T](p) {
		return nil, nil
	}
	return Parse[T](p)
}

func parseInto(p *Parser, v any) error {
	switch v := v.(type) {
	case Parseable:
		return v.Parse(p)
	case Buildable:
		c := p.Peek()
		if !v.Is(p, c) {
			return p.Unexpected(p.Next())
		}
		v.Build(p, p.Next())
		return nil
	}
	panic(fmt.Sprintf("parser: %T implements neither Parse nor Is and Build", v))
}

// Write appends the cursors of every non-nil node to s, in order.
func Write(s CursorSink, nodes ...ToCursors) {
	for _, n := range nodes {
		if n != nil {
			n.ToCursors(s)
		}
	}
}
