package lsp

import (
	"strings"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/grammar"
	"github.com/dhamidi/csskit/css/parser"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// completions offers keyword values for the declaration the offset is in.
// Nothing is offered outside a declaration value.
func completions(t *text, offset int) []protocol.CompletionItem {
	property, prefix, ok := valueContext(t.src[:offset])
	if !ok {
		return nil
	}

	var items []protocol.CompletionItem
	add := func(set *grammar.KeywordSet, kind protocol.CompletionItemKind) {
		if set == nil {
			return
		}
		detail := set.Name()
		for _, word := range set.Words() {
			if !strings.HasPrefix(word, prefix) {
				continue
			}
			items = append(items, protocol.CompletionItem{
				Label:  word,
				Kind:   &kind,
				Detail: &detail,
			})
		}
	}

	switch {
	case ast.ColorProperty(property):
		add(grammar.Lookup("SpecialColor"), protocol.CompletionItemKindColor)
		add(grammar.NamedColors(), protocol.CompletionItemKindColor)
	case property == "display":
		add(grammar.DisplayKeywords(), protocol.CompletionItemKindKeyword)
	}
	add(grammar.CssWideKeywords(), protocol.CompletionItemKindKeyword)
	return items
}

// valueContext finds the property whose value ends the token stream, and
// the lower-cased identifier being typed, if any. Colons outside a block
// belong to selectors and give no context.
func valueContext(src []byte) (property, prefix string, ok bool) {
	p := parser.New(src)
	tokens := p.Tokens()
	i := len(tokens) - 1
	if i >= 0 && tokens[i].Kind == parser.KindEof {
		i--
	}
	if i >= 0 && tokens[i].Kind == parser.KindIdent {
		prefix = strings.ToLower(p.Name(tokens[i]))
		i--
	}

	for ; i >= 0; i-- {
		switch tokens[i].Kind {
		case parser.KindColon:
			j := i - 1
			for j >= 0 && tokens[j].Kind.IsTrivia() {
				j--
			}
			if j < 0 || tokens[j].Kind != parser.KindIdent || depth(tokens[:j]) == 0 {
				return "", "", false
			}
			name := p.Name(tokens[j])
			if !strings.HasPrefix(name, "--") {
				name = strings.ToLower(name)
			}
			return name, prefix, true
		case parser.KindSemicolon, parser.KindLeftCurly, parser.KindRightCurly:
			return "", "", false
		}
	}
	return "", "", false
}

// depth returns the number of curly blocks left open by tokens.
func depth(tokens []parser.Cursor) int {
	n := 0
	for _, c := range tokens {
		switch c.Kind {
		case parser.KindLeftCurly:
			n++
		case parser.KindRightCurly:
			if n > 0 {
				n--
			}
		}
	}
	return n
}
