// Package grammar loads the keyword tables CSS value types are matched
// against. Tables are described in EBNF: each production is a choice of
// literal keywords or of other productions, and flattens into a KeywordSet.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/ebnf"
)

// Start is the production every keyword table must be reachable from.
const Start = "Keywords"

//go:embed keywords.ebnf
var keywordsSource []byte

// KeywordSet is a set of keywords matched ignoring ASCII case.
type KeywordSet struct {
	name  string
	words []string
	index map[string]struct{}
}

func newKeywordSet(name string, words []string) *KeywordSet {
	s := &KeywordSet{name: name, index: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.ToLower(w)
		if _, ok := s.index[w]; ok {
			continue
		}
		s.index[w] = struct{}{}
		s.words = append(s.words, w)
	}
	return s
}

func (s *KeywordSet) Name() string {
	return s.name
}

// Words returns the keywords in grammar order, lower-cased.
func (s *KeywordSet) Words() []string {
	return s.words
}

func (s *KeywordSet) Len() int {
	return len(s.words)
}

// Has reports whether word is in the set, ignoring ASCII case.
func (s *KeywordSet) Has(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[lowerASCII(word)]
	return ok
}

func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			return strings.ToLower(s)
		}
	}
	return s
}

// Keywords holds the flattened keyword sets of a grammar, by production name.
type Keywords struct {
	sets map[string]*KeywordSet
}

// Set returns the named keyword set, or nil.
func (k *Keywords) Set(name string) *KeywordSet {
	return k.sets[name]
}

// Names returns the production names in sorted order.
func (k *Keywords) Names() []string {
	names := make([]string, 0, len(k.sets))
	for name := range k.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load parses and verifies a keyword grammar. start names the root
// production; when empty only the syntax is checked.
func Load(filename string, r io.Reader, start string) (*Keywords, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start != "" {
		if err := ebnf.Verify(g, start); err != nil {
			return nil, fmt.Errorf("verify grammar: %w", err)
		}
	}

	k := &Keywords{sets: make(map[string]*KeywordSet, len(g))}
	for name := range g {
		words, err := flatten(g, name, map[string]bool{})
		if err != nil {
			return nil, err
		}
		k.sets[name] = newKeywordSet(name, words)
	}
	return k, nil
}

// LoadFile opens and loads a keyword grammar file.
func LoadFile(filename, start string) (*Keywords, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Load(filename, f, start)
}

func flatten(g ebnf.Grammar, name string, visiting map[string]bool) ([]string, error) {
	prod, ok := g[name]
	if !ok || prod.Expr == nil {
		return nil, fmt.Errorf("production %s is undefined", name)
	}
	if visiting[name] {
		return nil, fmt.Errorf("production %s refers to itself", name)
	}
	visiting[name] = true
	defer delete(visiting, name)
	return collect(g, prod.Expr, visiting)
}

func collect(g ebnf.Grammar, expr ebnf.Expression, visiting map[string]bool) ([]string, error) {
	switch e := expr.(type) {
	case *ebnf.Token:
		return []string{strings.Trim(e.String, "\"")}, nil
	case *ebnf.Name:
		return flatten(g, e.String, visiting)
	case *ebnf.Group:
		return collect(g, e.Body, visiting)
	case ebnf.Alternative:
		var words []string
		for _, alt := range e {
			w, err := collect(g, alt, visiting)
			if err != nil {
				return nil, err
			}
			words = append(words, w...)
		}
		return words, nil
	}
	return nil, fmt.Errorf("%s: keyword tables only allow literals and choices", expr.Pos())
}

var (
	defaultOnce     sync.Once
	defaultKeywords *Keywords
)

// Default returns the built-in keyword tables. They are loaded once and
// are read-only afterwards.
func Default() *Keywords {
	defaultOnce.Do(func() {
		k, err := Load("keywords.ebnf", bytes.NewReader(keywordsSource), Start)
		if err != nil {
			panic("grammar: built-in keywords: " + err.Error())
		}
		defaultKeywords = k
	})
	return defaultKeywords
}

// Lookup returns a built-in keyword set by production name.
func Lookup(name string) *KeywordSet {
	return Default().Set(name)
}

func NamedColors() *KeywordSet {
	return Lookup("NamedColor")
}

func ColorFunctions() *KeywordSet {
	return Lookup("ColorFunction")
}

func DisplayKeywords() *KeywordSet {
	return Lookup("Display")
}

func MediaTypes() *KeywordSet {
	return Lookup("MediaType")
}

func CssWideKeywords() *KeywordSet {
	return Lookup("CssWide")
}
