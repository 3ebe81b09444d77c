package parser

import "strings"

// KindSet is a set of token kinds, one bit per kind.
type KindSet uint64

func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s KindSet) Has(k Kind) bool {
	return s&(1<<k) != 0
}

func (s KindSet) Union(other KindSet) KindSet {
	return s | other
}

func (s KindSet) Add(k Kind) KindSet {
	return s | 1<<k
}

func (s KindSet) IsEmpty() bool {
	return s == 0
}

func (s KindSet) String() string {
	var names []string
	for k := Kind(0); k < kindCount; k++ {
		if s.Has(k) {
			names = append(names, k.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}

var (
	LeftCurlyOrSemicolon           = NewKindSet(KindLeftCurly, KindSemicolon)
	LeftCurlyRightParenOrSemicolon = NewKindSet(KindLeftCurly, KindRightParen, KindSemicolon)
	RightCurlyOrSemicolon          = NewKindSet(KindRightCurly, KindSemicolon)
	TriviaKinds                    = NewKindSet(KindWhitespace, KindComment)
	OpenBrackets                   = NewKindSet(KindLeftParen, KindLeftSquare, KindLeftCurly, KindFunction)
	CloseBrackets                  = NewKindSet(KindRightParen, KindRightSquare, KindRightCurly)
	NumericKinds                   = NewKindSet(KindNumber, KindPercentage, KindDimension)
	BadKinds                       = NewKindSet(KindBadString, KindBadUrl, KindBadNumber)
)

// CloserOf returns the kind that closes a block opened by k, or KindEof
// when k does not open a block.
func CloserOf(k Kind) Kind {
	switch k {
	case KindLeftParen, KindFunction:
		return KindRightParen
	case KindLeftSquare:
		return KindRightSquare
	case KindLeftCurly:
		return KindRightCurly
	}
	return KindEof
}
