package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/parser"
)

func parseDoc(src string) *Document {
	return FromResult(ast.ParseStyleSheet([]byte(src), parser.WithFile("test.css")))
}

func TestRender(t *testing.T) {
	tests := []string{
		"",
		"a { color : red } /* tail */\n",
		"/* only */",
		"@media print { a{b:c} }",
		"a{color:red", // unclosed
		"@bogus x y; a {}",
	}
	for _, src := range tests {
		doc := parseDoc(src)
		var buf bytes.Buffer
		if err := NewSourceEncoder(&buf).Encode(doc); err != nil {
			t.Fatalf("Encode(%q): %v", src, err)
		}
		if buf.String() != src {
			t.Errorf("render %q = %q", src, buf.String())
		}
	}
}

func TestMinify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a , b { color : red ; margin : 0  auto ; }", "a,b{color:red;margin:0 auto;}"},
		{"/* c */ a  b > c { x : y }  /* end */", "a b>c{x:y}"},
		{"a{width:1px/**/2px}", "a{width:1px 2px}"},
		{"a/**/b{}", "a b{}"},
		{"a { color: red !important }", "a{color:red!important}"},
		{"@media screen and (min-width : 600px) { a { b : c } }", "@media screen and (min-width:600px){a{b:c}}"},
		{"a :hover { x: y }", "a :hover{x:y}"},
		{"a{x:y}\n\n/* gap */\nb{}", "a{x:y}b{}"},
		{"@import url(a.css) screen ;", "@import url(a.css) screen;"},
		{"a { width: calc( 100% - 2px ) }", "a{width:calc(100% - 2px)}"},
		{"<!-- a {} -->", "<!-- a{}-->"},
	}
	for _, tt := range tests {
		doc := parseDoc(tt.input)
		var buf bytes.Buffer
		if err := Minify(&buf, doc.Source, doc.Tokens, doc.Node); err != nil {
			t.Fatalf("Minify(%q): %v", tt.input, err)
		}
		if buf.String() != tt.want {
			t.Errorf("Minify(%q) = %q, want %q", tt.input, buf.String(), tt.want)
		}
		again := ast.ParseStyleSheet(buf.Bytes())
		if len(again.Diagnostics) > 0 {
			t.Errorf("Minify(%q) does not re-parse cleanly: %v", tt.input, again.Err())
		}
	}
}

func TestWouldMerge(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"a", "b", true},
		{"1px", "2px", true},
		{"1", "%", true},
		{"a", "{", false},
		{"a", "(", true},
		{"#x", ".y", false},
		{";", "b", false},
	}
	for _, tt := range tests {
		src := []byte(tt.a + " " + tt.b)
		tokens := parser.Tokenize(src)
		got := wouldMerge(src, tokens[0], tokens[2])
		if got != tt.want {
			t.Errorf("wouldMerge(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenJSONEncoder(t *testing.T) {
	src := []byte("a { }")
	var buf bytes.Buffer
	if err := NewTokenJSONEncoder(&buf).Encode(src, parser.Tokenize(src)); err != nil {
		t.Fatal(err)
	}
	var got []tokenJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	want := []tokenJSON{
		{Kind: "ident", Start: 0, End: 1, Text: "a"},
		{Kind: "whitespace", Start: 1, End: 2, Text: " "},
		{Kind: "left-curly", Start: 2, End: 3, Text: "{"},
		{Kind: "whitespace", Start: 3, End: 4, Text: " "},
		{Kind: "right-curly", Start: 4, End: 5, Text: "}"},
		{Kind: "eof", Start: 5, End: 5, Text: ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i].Kind != want[i].Kind || got[i].Start != want[i].Start ||
			got[i].End != want[i].End || got[i].Text != want[i].Text {
			t.Errorf("token %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTokenJSONFlags(t *testing.T) {
	src := []byte("-5 'x")
	var buf bytes.Buffer
	if err := NewTokenJSONEncoder(&buf).Encode(src, parser.Tokenize(src)); err != nil {
		t.Fatal(err)
	}
	var got []tokenJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if strings.Join(got[0].Flags, ",") != "integer,signed" {
		t.Errorf("number flags = %v", got[0].Flags)
	}
	if strings.Join(got[2].Flags, ",") != "single-quote,unterminated" {
		t.Errorf("string flags = %v", got[2].Flags)
	}
}

func TestASTJSONEncoder(t *testing.T) {
	doc := parseDoc("a { color: red }\n@bogus;")
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).Encode(doc); err != nil {
		t.Fatal(err)
	}

	var out struct {
		File string `json:"file"`
		Root struct {
			Kind   string                     `json:"kind"`
			Fields map[string]json.RawMessage `json:"fields"`
		} `json:"root"`
		Diagnostics []struct {
			Kind    string `json:"kind"`
			Message string `json:"message"`
			Span    struct {
				Start struct{ Line, Column int } `json:"start"`
			} `json:"span"`
		} `json:"diagnostics"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.File != "test.css" {
		t.Errorf("file = %q", out.File)
	}
	if out.Root.Kind != "StyleSheet" {
		t.Errorf("root kind = %q", out.Root.Kind)
	}
	if _, ok := out.Root.Fields["Rules"]; !ok {
		t.Errorf("root has no Rules field: %s", buf.String())
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Kind != "UnknownAtRule" {
		t.Fatalf("diagnostics = %+v", out.Diagnostics)
	}
	if out.Diagnostics[0].Span.Start.Line != 2 || out.Diagnostics[0].Span.Start.Column != 1 {
		t.Errorf("diagnostic position = %+v", out.Diagnostics[0].Span.Start)
	}

	text := buf.String()
	for _, want := range []string{`"kind": "QualifiedRule"`, `"kind": "NamedColor"`, `"Name": "red"`, `"kind": "BadRule"`} {
		if !strings.Contains(text, want) {
			t.Errorf("output does not contain %s", want)
		}
	}
}

func TestLineEncoder(t *testing.T) {
	doc := parseDoc("a{}\n@bogus x;\nb { color: }")
	var buf bytes.Buffer
	if err := NewLineEncoder(&buf).Encode(doc); err != nil {
		t.Fatal(err)
	}
	want := "test.css:2:1\tUnknownAtRule\tUnknown at-rule \"bogus\"\n" +
		"test.css:3:5\tBadDeclaration\tInvalid declaration was skipped\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}

	buf.Reset()
	if err := NewLineEncoder(&buf).Encode(parseDoc("a{}")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("clean document produced output: %q", buf.String())
	}
}
