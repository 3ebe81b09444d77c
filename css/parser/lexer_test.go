package parser

import (
	"strings"
	"testing"
)

type lexed struct {
	kind Kind
	text string
}

func lex(input string) []lexed {
	src := []byte(input)
	var out []lexed
	for _, c := range Tokenize(src) {
		out = append(out, lexed{c.Kind, c.Text(src)})
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input string
		want  []lexed
	}{
		{
			"a{color:red}",
			[]lexed{
				{KindIdent, "a"},
				{KindLeftCurly, "{"},
				{KindIdent, "color"},
				{KindColon, ":"},
				{KindIdent, "red"},
				{KindRightCurly, "}"},
				{KindEof, ""},
			},
		},
		{
			"  /* x */\n\t",
			[]lexed{
				{KindWhitespace, "  "},
				{KindComment, "/* x */"},
				{KindWhitespace, "\n\t"},
				{KindEof, ""},
			},
		},
		{
			"@media screen,print",
			[]lexed{
				{KindAtKeyword, "@media"},
				{KindWhitespace, " "},
				{KindIdent, "screen"},
				{KindComma, ","},
				{KindIdent, "print"},
				{KindEof, ""},
			},
		},
		{
			"rgb(1 2 3)",
			[]lexed{
				{KindFunction, "rgb("},
				{KindNumber, "1"},
				{KindWhitespace, " "},
				{KindNumber, "2"},
				{KindWhitespace, " "},
				{KindNumber, "3"},
				{KindRightParen, ")"},
				{KindEof, ""},
			},
		},
		{
			"[a=b]",
			[]lexed{
				{KindLeftSquare, "["},
				{KindIdent, "a"},
				{KindDelim, "="},
				{KindIdent, "b"},
				{KindRightSquare, "]"},
				{KindEof, ""},
			},
		},
		{
			"<!-- --> -- -",
			[]lexed{
				{KindCdo, "<!--"},
				{KindWhitespace, " "},
				{KindCdc, "-->"},
				{KindWhitespace, " "},
				{KindIdent, "--"},
				{KindWhitespace, " "},
				{KindDelim, "-"},
				{KindEof, ""},
			},
		},
		{
			"url( 'a.png' )",
			[]lexed{
				{KindFunction, "url("},
				{KindWhitespace, " "},
				{KindString, "'a.png'"},
				{KindWhitespace, " "},
				{KindRightParen, ")"},
				{KindEof, ""},
			},
		},
		{
			"1px+2",
			[]lexed{
				{KindDimension, "1px"},
				{KindNumber, "+2"},
				{KindEof, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := lex(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v %q, want %v %q", i, got[i].kind, got[i].text, tt.want[i].kind, tt.want[i].text)
				}
			}
		})
	}
}

func TestLexerSingleTokens(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		flags Flags
	}{
		{"foo", KindIdent, 0},
		{"--main-color", KindIdent, FlagDashed},
		{"-webkit-box", KindIdent, 0},
		{`\66oo`, KindIdent, FlagEscaped},
		{"calc(", KindFunction, 0},
		{"@font-face", KindAtKeyword, 0},
		{"#fff", KindHash, FlagHashID},
		{"#123", KindHash, 0},
		{`"abc"`, KindString, 0},
		{`'abc'`, KindString, FlagSingleQuote},
		{`"abc`, KindString, FlagUnterminated},
		{`"a\"b"`, KindString, FlagEscaped},
		{"url(foo.png)", KindUrl, 0},
		{"URL(foo.png)", KindUrl, 0},
		{"url(foo.png", KindUrl, FlagUnterminated},
		{"12", KindNumber, FlagInteger},
		{"1.5", KindNumber, 0},
		{".5", KindNumber, 0},
		{"-3", KindNumber, FlagInteger | FlagSigned},
		{"1e3", KindNumber, 0},
		{"50%", KindPercentage, FlagInteger},
		{"10px", KindDimension, FlagInteger},
		{"-1.5em", KindDimension, FlagSigned},
		{"/* open", KindComment, FlagUnterminated},
		{"!", KindDelim, 0},
		{"#", KindDelim, 0},
		{"@", KindDelim, 0},
		{";", KindSemicolon, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			src := []byte(tt.input)
			tokens := Tokenize(src)
			if len(tokens) != 2 {
				t.Fatalf("got %d tokens %v, want one token and Eof", len(tokens), tokens)
			}
			tok := tokens[0]
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Flags != tt.flags {
				t.Errorf("Flags = %08b, want %08b", tok.Flags, tt.flags)
			}
			if got := tok.Text(src); got != tt.input {
				t.Errorf("Text = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestLexerBadTokens(t *testing.T) {
	tests := []struct {
		input string
		kind  Kind
		text  string
	}{
		{"\"ab\ncd\"", KindBadString, `"ab`},
		{"'x\r\n'", KindBadString, `'x`},
		{"url(a b)", KindBadUrl, "url(a b)"},
		{"url(a\"b) c", KindBadUrl, "url(a\"b)"},
		{"url(a(b)", KindBadUrl, "url(a(b)"},
		{"url(a\\\nb)", KindBadUrl, "url(a\\\nb)"},
		{"1e400", KindBadNumber, "1e400"},
		{"1e400px", KindBadNumber, "1e400px"},
		{"-" + strings.Repeat("9", 310), KindBadNumber, "-" + strings.Repeat("9", 310)},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			src := []byte(tt.input)
			tok := Tokenize(src)[0]
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if got := tok.Text(src); got != tt.text {
				t.Errorf("Text = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestLexerEofIsStable(t *testing.T) {
	src := []byte("a ")
	l := NewLexer(src)
	l.Advance()
	l.Advance()
	for i := 0; i < 3; i++ {
		tok := l.Advance()
		if tok.Kind != KindEof {
			t.Fatalf("Advance %d: Kind = %v, want Eof", i, tok.Kind)
		}
		if tok.Span != NewSpan(2, 2) {
			t.Errorf("Advance %d: Span = %v, want 2..2", i, tok.Span)
		}
	}
}

func TestLexerIsLossless(t *testing.T) {
	inputs := []string{
		"a { color: red; }",
		"@media (min-width: 100px) and (hover) { .x > .y ~ z + w {} }",
		"\"unterminated",
		"url(  spaced  ) url(bad\"url) 'bad\nstring'",
		"/* c */ <!-- --> \\\n \\41 BC #-- #--1 -.5e-3% 1e400",
		"émoji 🎉 \x00 \x7f",
		"}}}]]]))){{{",
	}
	for _, input := range inputs {
		src := []byte(input)
		var sb strings.Builder
		end := uint32(0)
		for _, tok := range Tokenize(src) {
			if tok.Span.Start != end {
				t.Errorf("%q: %v starts at %d, want %d", input, tok.Kind, tok.Span.Start, end)
			}
			end = tok.Span.End
			sb.WriteString(tok.Text(src))
		}
		if sb.String() != input {
			t.Errorf("concatenated tokens = %q, want %q", sb.String(), input)
		}
	}
}

func TestParserNames(t *testing.T) {
	tests := []struct {
		input string
		name  string
	}{
		{"color", "color"},
		{`\66oo`, "foo"},
		{`\31 0`, "10"},
		{"@Media", "Media"},
		{"#main", "main"},
		{"rgba(", "rgba"},
		{"12px", "px"},
		{`a\:b`, "a:b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New([]byte(tt.input))
			c := p.Next()
			if got := p.Name(c); got != tt.name {
				t.Errorf("Name = %q, want %q", got, tt.name)
			}
			if !p.EqIgnoreCase(c, strings.ToUpper(tt.name)) {
				t.Errorf("EqIgnoreCase(%q) = false, want true", strings.ToUpper(tt.name))
			}
		})
	}
}

func TestParserStringValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"abc"`, "abc"},
		{`'a"b'`, `a"b`},
		{`"a\"b"`, `a"b`},
		{`"\41 B"`, "AB"},
		{"\"a\\\nb\"", "ab"},
		{`"open`, "open"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New([]byte(tt.input))
			if got := p.StringValue(p.Next()); got != tt.want {
				t.Errorf("StringValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParserNumberValue(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"12", 12},
		{"-1.5em", -1.5},
		{"50%", 50},
		{"+.25", 0.25},
		{"1e3", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := New([]byte(tt.input))
			if got := p.NumberValue(p.Next()); got != tt.want {
				t.Errorf("NumberValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLineIndex(t *testing.T) {
	src := []byte("a {\r\n  b: c;\n}\fd")
	idx := NewLineIndex(src, "x.css")
	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{5, 2, 1},
		{7, 2, 3},
		{13, 3, 1},
		{15, 4, 1},
	}
	for _, tt := range tests {
		pos := idx.Position(tt.offset)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
		if pos.File != "x.css" {
			t.Errorf("File = %q, want %q", pos.File, "x.css")
		}
	}
}
