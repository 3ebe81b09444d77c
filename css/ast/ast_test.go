package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/csskit/css/parser"
)

func parseSheet(t *testing.T, src string) *Result[StyleSheet] {
	t.Helper()
	res := ParseStyleSheet([]byte(src))
	require.NotNil(t, res.Node)
	assert.Equal(t, src, res.Render(), "stylesheet does not round trip")
	return res
}

func parseClean(t *testing.T, src string) *Result[StyleSheet] {
	t.Helper()
	res := parseSheet(t, src)
	require.Empty(t, res.Diagnostics, "unexpected diagnostics: %v", res.Err())
	return res
}

func kinds(diags []*parser.Diagnostic) []parser.DiagnosticKind {
	out := make([]parser.DiagnosticKind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"/* only a comment */",
		"a{}",
		"a, b > c ,d { color : red ; margin: 0 auto }",
		"a{color:red;/* between */margin:0}\n",
		"<!-- a{} -->",
		"@charset \"utf-8\";\nbody { background: url(img.png) no-repeat }",
		"@import url(\"a.css\") layer(base) supports(display: grid) screen and (color);",
		"@media screen and (min-width: 600px), print { a { color: #fff } }",
		"@media (400px <= width < 800px) {}",
		"@supports (display: grid) and (not (display: inline-grid)) { a { display: grid } }",
		"@layer base.reset, theme;\n@layer { a {} }",
		"@font-face { font-family: \"Foo\"; src: url(foo.woff2) format(\"woff2\") }",
		"@keyframes spin { from { opacity: 0 } 50% { opacity: .5 } to { opacity: 1 } }",
		"a { color: red; &:hover { color: blue } @media print { color: black } }",
		"a { --custom: { anything [goes] here }; --empty:; }",
		"a{color:red !important;margin:0 ! IMPORTANT}",
		// invalid input still round trips
		"a{color:;}",
		"@unknown-rule foo bar; a{}",
		"a{color:red",
		"}}} a{} {{",
		"a{b:c}; ;; @media {",
		"a{ x: ( ] }",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			parseSheet(t, src)
		})
	}
}

func TestReparseIsIdempotent(t *testing.T) {
	srcs := []string{
		"a { color : red } /* c */ @media print { b { margin : 0 } }",
		"@bogus x; a{color:;} b{",
	}
	for _, src := range srcs {
		first := ParseStyleSheet([]byte(src))
		second := ParseStyleSheet([]byte(first.Render()))
		assert.Equal(t, first.Render(), second.Render())
		assert.Equal(t, len(parser.Cursors(first.Node)), len(parser.Cursors(second.Node)))
		assert.Equal(t, kinds(first.Diagnostics), kinds(second.Diagnostics))
	}
}

func TestQualifiedRule(t *testing.T) {
	res := parseClean(t, "h1, .title > a:hover { color: red; margin: 0 auto }")
	require.Len(t, res.Node.Rules, 1)
	rule, ok := res.Node.Rules[0].(*QualifiedRule)
	require.True(t, ok)
	assert.Equal(t, 2, rule.Selectors.Len())

	decls := rule.Block.Declarations()
	require.Len(t, decls, 2)
	p := parser.New(res.Source)
	assert.Equal(t, "color", decls[0].Property(p))
	assert.Equal(t, "margin", decls[1].Property(p))
	assert.NotNil(t, decls[0].Semicolon)
	assert.Nil(t, decls[1].Semicolon)

	values, ok := decls[1].Value.Value.(*ComponentValues)
	require.True(t, ok)
	assert.Len(t, values.Values, 2)
}

func TestNamedColor(t *testing.T) {
	res := parseClean(t, "a { color: Red }")
	decl := res.Node.Rules[0].(*QualifiedRule).Block.Declarations()[0]
	color, ok := decl.Value.Value.(*Color)
	require.True(t, ok, "got %T", decl.Value.Value)
	assert.Equal(t, ColorNamed, color.Kind)
	require.NotNil(t, color.Named)
	assert.Equal(t, "red", color.Named.Name)
}

func TestDeclarationValue(t *testing.T) {
	tests := []struct {
		property string
		src      string
		check    func(t *testing.T, v Value)
	}{
		{"color", "#ff0000", func(t *testing.T, v Value) {
			c := v.(*Color)
			assert.Equal(t, ColorHex, c.Kind)
		}},
		{"background-color", "#abcd", func(t *testing.T, v Value) {
			assert.Equal(t, ColorHex, v.(*Color).Kind)
		}},
		{"color", "#12345", func(t *testing.T, v Value) {
			assert.IsType(t, &ComponentValues{}, v)
		}},
		{"color", "rgb(0 0 0 / 50%)", func(t *testing.T, v Value) {
			c := v.(*Color)
			assert.Equal(t, ColorFunction, c.Kind)
			assert.NotNil(t, c.Function)
		}},
		{"Color", "currentColor", func(t *testing.T, v Value) {
			assert.Equal(t, ColorCurrent, v.(*Color).Kind)
		}},
		{"color", "transparent", func(t *testing.T, v Value) {
			assert.Equal(t, ColorTransparent, v.(*Color).Kind)
		}},
		{"color", "red blue", func(t *testing.T, v Value) {
			assert.IsType(t, &ComponentValues{}, v)
		}},
		{"display", "flex", func(t *testing.T, v Value) {
			assert.Equal(t, "flex", v.(*DisplayKeyword).Name)
		}},
		{"margin", "INHERIT", func(t *testing.T, v Value) {
			assert.Equal(t, "inherit", v.(*CssWideKeyword).Name)
		}},
		{"width", "calc(100% - 2px)", func(t *testing.T, v Value) {
			cv := v.(*ComponentValues)
			require.Len(t, cv.Values, 1)
			assert.NotNil(t, cv.Values[0].Function)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.property+":"+tt.src, func(t *testing.T) {
			res := ParseDeclarationValue(tt.property, []byte(tt.src))
			require.Empty(t, res.Diagnostics, "%v", res.Err())
			require.NotNil(t, res.Node)
			assert.Equal(t, tt.src, res.Render())
			tt.check(t, res.Node.Value)
		})
	}
}

func TestImportant(t *testing.T) {
	res := parseClean(t, "a { color: red !important; margin: 0 ! important; width: 1px }")
	decls := res.Node.Rules[0].(*QualifiedRule).Block.Declarations()
	require.Len(t, decls, 3)

	assert.NotNil(t, decls[0].Value.Important)
	assert.IsType(t, &Color{}, decls[0].Value.Value)

	assert.NotNil(t, decls[1].Value.Important)
	values := decls[1].Value.Value.(*ComponentValues)
	assert.Len(t, values.Values, 1)

	assert.Nil(t, decls[2].Value.Important)
}

func TestCustomProperty(t *testing.T) {
	res := parseClean(t, "a { --Main-Color: { a: b }; --empty:; }")
	decls := res.Node.Rules[0].(*QualifiedRule).Block.Declarations()
	require.Len(t, decls, 2)
	p := parser.New(res.Source)
	assert.Equal(t, "--Main-Color", decls[0].Property(p))
	assert.Empty(t, decls[1].Value.Value.(*ComponentValues).Values)
}

func TestBadDeclaration(t *testing.T) {
	res := parseSheet(t, "a { color:; margin: 0 }")
	block := res.Node.Rules[0].(*QualifiedRule).Block
	require.Len(t, block.Items, 2)
	assert.IsType(t, &BadDeclaration{}, block.Items[0])
	assert.IsType(t, &Declaration{}, block.Items[1])
	assert.Equal(t, []parser.DiagnosticKind{parser.DiagBadDeclaration}, kinds(res.Diagnostics))
}

func TestStraySemicolons(t *testing.T) {
	res := parseClean(t, "a { ; color: red;; }")
	block := res.Node.Rules[0].(*QualifiedRule).Block
	require.Len(t, block.Items, 3)
	assert.IsType(t, &Marker{}, block.Items[0])
	assert.IsType(t, &Declaration{}, block.Items[1])
	assert.IsType(t, &Marker{}, block.Items[2])
}

func TestUnknownAtRule(t *testing.T) {
	res := parseSheet(t, "a {}\n@unknown-rule foo bar;\nb {}")
	require.Len(t, res.Node.Rules, 3)
	assert.IsType(t, &QualifiedRule{}, res.Node.Rules[0])
	assert.IsType(t, &BadRule{}, res.Node.Rules[1])
	assert.IsType(t, &QualifiedRule{}, res.Node.Rules[2])

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, parser.DiagUnknownAtRule, d.Kind)
	assert.Equal(t, "unknown-rule", d.Detail)
	assert.Equal(t, "@unknown-rule foo bar;", string(res.Source[d.Span.Start:d.Span.End]))
}

func TestCdoCdc(t *testing.T) {
	res := parseClean(t, "<!-- a {} -->")
	require.Len(t, res.Node.Rules, 3)
	assert.IsType(t, &Marker{}, res.Node.Rules[0])
	assert.IsType(t, &QualifiedRule{}, res.Node.Rules[1])
	assert.IsType(t, &Marker{}, res.Node.Rules[2])
}

func TestUnclosedBlock(t *testing.T) {
	res := parseSheet(t, "a { color: red")
	assert.Equal(t, []parser.DiagnosticKind{parser.DiagUnclosedBlock}, kinds(res.Diagnostics))
	rule := res.Node.Rules[0].(*QualifiedRule)
	assert.False(t, rule.Block.Closed)
	assert.Len(t, rule.Block.Declarations(), 1)
}

func TestNesting(t *testing.T) {
	res := parseClean(t, "a { color: red; &:hover { color: blue } b:focus { x: y } @media print { color: black } }")
	block := res.Node.Rules[0].(*QualifiedRule).Block
	require.Len(t, block.Items, 4)
	assert.IsType(t, &Declaration{}, block.Items[0])
	assert.IsType(t, &QualifiedRule{}, block.Items[1])
	assert.IsType(t, &QualifiedRule{}, block.Items[2])

	media, ok := block.Items[3].(*MediaRule)
	require.True(t, ok)
	inner, ok := media.Block.(*DeclarationBlock)
	require.True(t, ok, "nested @media holds declarations, got %T", media.Block)
	assert.Len(t, inner.Declarations(), 1)
}

func firstMediaFeature(t *testing.T, res *Result[StyleSheet]) *MediaFeature {
	t.Helper()
	media := res.Node.Rules[0].(*MediaRule)
	require.Equal(t, 1, media.Queries.Len())
	cond := media.Queries.Items[0].Condition
	require.NotNil(t, cond)
	require.NotEmpty(t, cond.Terms.Items)
	feature := cond.Terms.Items[0].Feature
	require.NotNil(t, feature)
	return feature
}

func TestMediaFeatures(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		res := parseClean(t, "@media (grid:1) {}")
		f := firstMediaFeature(t, res)
		assert.Equal(t, FeaturePlain, f.Kind)
		require.NotNil(t, f.Value)
		assert.Equal(t, parser.KindNumber, f.Value.Value.Kind)
		assert.Equal(t, "grid", f.FeatureName(parser.New(res.Source)))
	})
	t.Run("boolean", func(t *testing.T) {
		res := parseClean(t, "@media (grid) {}")
		f := firstMediaFeature(t, res)
		assert.Equal(t, FeatureBoolean, f.Kind)
		assert.Nil(t, f.Value)
	})
	t.Run("ratio", func(t *testing.T) {
		res := parseClean(t, "@media (aspect-ratio: 16/9) {}")
		f := firstMediaFeature(t, res)
		require.NotNil(t, f.Value.Denominator)
	})
	t.Run("range", func(t *testing.T) {
		res := parseClean(t, "@media (width >= 600px) {}")
		f := firstMediaFeature(t, res)
		assert.Equal(t, FeatureRange, f.Kind)
		assert.Equal(t, ">=", f.Op.String(parser.New(res.Source)))
	})
	t.Run("double range", func(t *testing.T) {
		res := parseClean(t, "@media (400px < width <= 800px) {}")
		f := firstMediaFeature(t, res)
		assert.Equal(t, FeatureRange, f.Kind)
		require.NotNil(t, f.Low)
		p := parser.New(res.Source)
		assert.Equal(t, "<", f.LowOp.String(p))
		assert.Equal(t, "<=", f.Op.String(p))
		assert.Equal(t, "width", f.FeatureName(p))
	})
}

func TestMediaQueries(t *testing.T) {
	res := parseClean(t, "@media not screen and (color), only print, (not (hover)) {}")
	media := res.Node.Rules[0].(*MediaRule)
	require.Equal(t, 3, media.Queries.Len())
	p := parser.New(res.Source)

	q := media.Queries.Items[0]
	require.NotNil(t, q.Modifier)
	assert.Equal(t, "screen", q.MediaType(p))
	assert.NotNil(t, q.Condition)

	assert.Equal(t, "print", media.Queries.Items[1].MediaType(p))

	q = media.Queries.Items[2]
	assert.Equal(t, "", q.MediaType(p))
	nested := q.Condition.Terms.Items[0]
	require.NotNil(t, nested.Condition)
	assert.NotNil(t, nested.Condition.Not)
}

func TestEmptyMediaQueryList(t *testing.T) {
	res := parseClean(t, "@media { a {} }")
	media := res.Node.Rules[0].(*MediaRule)
	assert.Equal(t, 0, media.Queries.Len())
	assert.Len(t, media.Block.(*RuleBlock).Rules, 1)
}

func TestMixedConnectives(t *testing.T) {
	res := ParseFragment[MediaCondition]([]byte("(a) and (b) or (c)"))
	assert.Nil(t, res.Node)
	assert.Contains(t, kinds(res.Diagnostics), parser.DiagMixedConnectives)

	res = ParseFragment[MediaCondition]([]byte("(a) AND (b) and (c)"))
	require.NotNil(t, res.Node)
	assert.Empty(t, res.Diagnostics)
	assert.Len(t, res.Node.Terms.Items, 3)
}

func TestSupports(t *testing.T) {
	res := parseClean(t, "@supports (display: grid) and (not (display: inline-grid)) and selector(a > b) { a {} }")
	rule := res.Node.Rules[0].(*SupportsRule)
	terms := rule.Condition.Terms.Items
	require.Len(t, terms, 3)

	require.NotNil(t, terms[0].Declaration)
	assert.IsType(t, &DisplayKeyword{}, terms[0].Declaration.Value.Value)

	require.NotNil(t, terms[1].Condition)
	assert.NotNil(t, terms[1].Condition.Not)

	require.NotNil(t, terms[2].Enclosed)
	assert.NotNil(t, terms[2].Enclosed.Function)
}

func TestImportRule(t *testing.T) {
	res := parseClean(t, `@import url("a.css") layer(base) supports(display: grid) screen and (color);`)
	rule := res.Node.Rules[0].(*ImportRule)
	assert.NotNil(t, rule.URL.Function)
	assert.NotNil(t, rule.Layer)
	assert.NotNil(t, rule.Supports)
	require.NotNil(t, rule.Media)
	assert.Equal(t, 1, rule.Media.Len())
	assert.NotNil(t, rule.Semicolon)

	res = parseClean(t, `@import "b.css";`)
	rule = res.Node.Rules[0].(*ImportRule)
	assert.Equal(t, parser.KindString, rule.URL.Token.Kind)
	assert.Nil(t, rule.Media)
}

func TestCharset(t *testing.T) {
	res := parseClean(t, `@charset "utf-8";`)
	rule := res.Node.Rules[0].(*CharsetRule)
	assert.Equal(t, "utf-8", parser.New(res.Source).StringValue(rule.Encoding))
}

func TestLayerRule(t *testing.T) {
	res := parseClean(t, "@layer base.reset, theme;\n@layer components { a {} }\n@layer { b {} }")
	require.Len(t, res.Node.Rules, 3)
	p := parser.New(res.Source)

	stmt := res.Node.Rules[0].(*LayerRule)
	require.Equal(t, 2, stmt.Names.Len())
	assert.Equal(t, []string{"base", "reset"}, stmt.Names.Items[0].Names(p))
	assert.Equal(t, []string{"theme"}, stmt.Names.Items[1].Names(p))
	assert.Nil(t, stmt.Block)

	block := res.Node.Rules[1].(*LayerRule)
	assert.Equal(t, 1, block.Names.Len())
	assert.NotNil(t, block.Block)

	anon := res.Node.Rules[2].(*LayerRule)
	assert.Equal(t, 0, anon.Names.Len())
	assert.NotNil(t, anon.Block)
}

func TestLayerListWithBlockIsBad(t *testing.T) {
	res := parseSheet(t, "@layer a, b { c {} }")
	assert.IsType(t, &BadRule{}, res.Node.Rules[0])
	assert.Equal(t, []parser.DiagnosticKind{parser.DiagBadRule}, kinds(res.Diagnostics))
}

func TestKeyframes(t *testing.T) {
	res := parseClean(t, "@keyframes spin { from { opacity: 0 } 50%, 75% { opacity: .5 } to { opacity: 1 } }")
	rule := res.Node.Rules[0].(*KeyframesRule)
	frames := rule.Keyframes()
	require.Len(t, frames, 3)
	p := parser.New(res.Source)

	assert.Equal(t, 0.0, frames[0].Selectors.Items[0].Offset(p))
	require.Equal(t, 2, frames[1].Selectors.Len())
	assert.Equal(t, 0.5, frames[1].Selectors.Items[0].Offset(p))
	assert.Equal(t, 0.75, frames[1].Selectors.Items[1].Offset(p))
	assert.Equal(t, 1.0, frames[2].Selectors.Items[0].Offset(p))
}

func TestBadKeyframe(t *testing.T) {
	res := parseSheet(t, "@keyframes spin { bogus { opacity: 0 } to { opacity: 1 } }")
	rule := res.Node.Rules[0].(*KeyframesRule)
	require.Len(t, rule.Frames, 2)
	assert.IsType(t, &BadRule{}, rule.Frames[0])
	assert.Len(t, rule.Keyframes(), 1)
	assert.Equal(t, []parser.DiagnosticKind{parser.DiagBadRule}, kinds(res.Diagnostics))
}

func TestFontFace(t *testing.T) {
	res := parseClean(t, `@font-face { font-family: "Foo"; src: url(foo.woff2) }`)
	rule := res.Node.Rules[0].(*FontFaceRule)
	assert.Len(t, rule.Block.Declarations(), 2)
}

func TestParseFragmentTrailingInput(t *testing.T) {
	res := ParseFragment[Declaration]([]byte("color: red } x"))
	require.NotNil(t, res.Node)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, parser.DiagUnexpected, res.Diagnostics[0].Kind)
	assert.Error(t, res.Err())
}

func TestResultWriteTo(t *testing.T) {
	res := ParseStyleSheet([]byte("a { b: c } /* tail */"), parser.WithFile("x.css"))
	var sb strings.Builder
	n, err := res.WriteTo(&sb)
	require.NoError(t, err)
	assert.Equal(t, int64(len(res.Source)), n)
	assert.Equal(t, "a { b: c } /* tail */", sb.String())
	assert.Equal(t, "x.css", res.File)
	assert.NoError(t, res.Err())
}
