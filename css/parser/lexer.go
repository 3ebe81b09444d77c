package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer turns CSS source into cursors. It never fails: malformed input is
// reported through the bad-string, bad-url and bad-number kinds.
type Lexer struct {
	input []byte
	pos   int
	start int
	flags Flags
	aux   uint16
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input}
}

// Tokenize lexes the whole input. The result always ends with one Eof cursor.
func Tokenize(input []byte) []Cursor {
	l := NewLexer(input)
	tokens := make([]Cursor, 0, len(input)/3+1)
	for {
		c := l.Advance()
		tokens = append(tokens, c)
		if c.Kind == KindEof {
			return tokens
		}
	}
}

// Offset returns the byte offset of the next unread byte.
func (l *Lexer) Offset() int {
	return l.pos
}

func (l *Lexer) peek() byte {
	return l.at(l.pos)
}

func (l *Lexer) peekN(n int) byte {
	return l.at(l.pos + n)
}

func (l *Lexer) at(i int) byte {
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) eof(i int) bool {
	return i >= len(l.input)
}

// Advance consumes one token and returns it. Once the input is exhausted it
// keeps returning an Eof cursor positioned at the end of the input.
func (l *Lexer) Advance() Cursor {
	l.start = l.pos
	l.flags = 0
	l.aux = 0

	if l.eof(l.pos) {
		return l.token(KindEof)
	}

	ch := l.peek()
	switch {
	case isWhitespace(ch):
		return l.scanWhitespace()
	case ch == '/' && l.peekN(1) == '*':
		return l.scanComment()
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case ch == '#':
		if isNameCode(l.peekN(1)) && !l.eof(l.pos+1) || l.validEscapeAt(l.pos+1) {
			l.pos++
			if l.wouldStartIdentAt(l.pos) {
				l.flags |= FlagHashID
			}
			l.consumeName()
			return l.token(KindHash)
		}
		return l.single(KindDelim)
	case ch == '(':
		return l.single(KindLeftParen)
	case ch == ')':
		return l.single(KindRightParen)
	case ch == '[':
		return l.single(KindLeftSquare)
	case ch == ']':
		return l.single(KindRightSquare)
	case ch == '{':
		return l.single(KindLeftCurly)
	case ch == '}':
		return l.single(KindRightCurly)
	case ch == ',':
		return l.single(KindComma)
	case ch == ':':
		return l.single(KindColon)
	case ch == ';':
		return l.single(KindSemicolon)
	case ch == '+', ch == '.':
		if l.wouldStartNumberAt(l.pos) {
			return l.scanNumeric()
		}
		return l.single(KindDelim)
	case ch == '-':
		if l.wouldStartNumberAt(l.pos) {
			return l.scanNumeric()
		}
		if l.peekN(1) == '-' && l.peekN(2) == '>' {
			l.pos += 3
			return l.token(KindCdc)
		}
		if l.wouldStartIdentAt(l.pos) {
			return l.scanIdentLike()
		}
		return l.single(KindDelim)
	case ch == '<':
		if l.peekN(1) == '!' && l.peekN(2) == '-' && l.peekN(3) == '-' {
			l.pos += 4
			return l.token(KindCdo)
		}
		return l.single(KindDelim)
	case ch == '@':
		if l.wouldStartIdentAt(l.pos + 1) {
			l.pos++
			l.consumeName()
			return l.token(KindAtKeyword)
		}
		return l.single(KindDelim)
	case ch == '\\':
		if l.validEscapeAt(l.pos) {
			return l.scanIdentLike()
		}
		return l.single(KindDelim)
	case isDigit(ch):
		return l.scanNumeric()
	case isNameStart(ch):
		return l.scanIdentLike()
	}
	return l.single(KindDelim)
}

func (l *Lexer) token(kind Kind) Cursor {
	return Cursor{
		Kind:  kind,
		Flags: l.flags,
		Aux:   l.aux,
		Span:  NewSpan(l.start, l.pos),
	}
}

func (l *Lexer) single(kind Kind) Cursor {
	l.pos++
	return l.token(kind)
}

func (l *Lexer) scanWhitespace() Cursor {
	for !l.eof(l.pos) && isWhitespace(l.peek()) {
		l.pos++
	}
	return l.token(KindWhitespace)
}

func (l *Lexer) scanComment() Cursor {
	l.pos += 2
	for {
		if l.eof(l.pos) {
			l.flags |= FlagUnterminated
			break
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.pos += 2
			break
		}
		l.pos++
	}
	return l.token(KindComment)
}

func (l *Lexer) scanString(quote byte) Cursor {
	if quote == '\'' {
		l.flags |= FlagSingleQuote
	}
	l.pos++
	for {
		if l.eof(l.pos) {
			l.flags |= FlagUnterminated
			return l.token(KindString)
		}
		ch := l.peek()
		switch {
		case ch == quote:
			l.pos++
			return l.token(KindString)
		case isNewline(ch):
			return l.token(KindBadString)
		case ch == '\\':
			next := l.peekN(1)
			switch {
			case l.eof(l.pos + 1):
				l.pos++
			case isNewline(next):
				l.pos += 2
				if next == '\r' && l.peek() == '\n' {
					l.pos++
				}
			default:
				l.flags |= FlagEscaped
				l.consumeEscape()
			}
		default:
			l.pos++
		}
	}
}

func (l *Lexer) scanNumeric() Cursor {
	if ch := l.peek(); ch == '+' || ch == '-' {
		l.flags |= FlagSigned
		l.pos++
	}
	integer := true
	digits := l.consumeDigits()
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		integer = false
		l.pos++
		digits += l.consumeDigits()
	}
	exponent := false
	if ch := l.peek(); ch == 'e' || ch == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			integer = false
			exponent = true
			l.pos += 2
			l.consumeDigits()
		}
	}
	if integer {
		l.flags |= FlagInteger
	}

	bad := false
	if exponent || digits > 308 {
		_, err := strconv.ParseFloat(string(l.input[l.start:l.pos]), 64)
		bad = errors.Is(err, strconv.ErrRange)
	}

	kind := KindNumber
	switch {
	case l.wouldStartIdentAt(l.pos):
		l.aux = uint16(l.pos - l.start)
		l.consumeName()
		kind = KindDimension
	case l.peek() == '%':
		l.pos++
		kind = KindPercentage
	}
	if bad {
		kind = KindBadNumber
	}
	return l.token(kind)
}

func (l *Lexer) consumeDigits() int {
	n := 0
	for isDigit(l.peek()) && !l.eof(l.pos) {
		l.pos++
		n++
	}
	return n
}

func (l *Lexer) scanIdentLike() Cursor {
	if l.peek() == '-' && l.peekN(1) == '-' {
		l.flags |= FlagDashed
	}
	l.consumeName()
	if l.peek() != '(' || l.eof(l.pos) {
		return l.token(KindIdent)
	}

	name := l.input[l.start:l.pos]
	isURL := false
	if l.flags.Has(FlagEscaped) {
		isURL = strings.EqualFold(unescape(string(name)), "url")
	} else {
		isURL = strings.EqualFold(string(name), "url")
	}
	l.pos++
	if !isURL {
		return l.token(KindFunction)
	}

	i := l.pos
	for !l.eof(i) && isWhitespace(l.at(i)) {
		i++
	}
	if ch := l.at(i); !l.eof(i) && (ch == '"' || ch == '\'') {
		return l.token(KindFunction)
	}
	return l.scanURL()
}

// scanURL consumes the body of an unquoted url( token.
func (l *Lexer) scanURL() Cursor {
	for !l.eof(l.pos) && isWhitespace(l.peek()) {
		l.pos++
	}
	for {
		if l.eof(l.pos) {
			l.flags |= FlagUnterminated
			return l.token(KindUrl)
		}
		ch := l.peek()
		switch {
		case ch == ')':
			l.pos++
			return l.token(KindUrl)
		case isWhitespace(ch):
			for !l.eof(l.pos) && isWhitespace(l.peek()) {
				l.pos++
			}
			if l.eof(l.pos) {
				l.flags |= FlagUnterminated
				return l.token(KindUrl)
			}
			if l.peek() == ')' {
				l.pos++
				return l.token(KindUrl)
			}
			return l.scanBadURL()
		case ch == '"', ch == '\'', ch == '(', isNonPrintable(ch):
			return l.scanBadURL()
		case ch == '\\':
			if !l.validEscapeAt(l.pos) {
				return l.scanBadURL()
			}
			l.flags |= FlagEscaped
			l.consumeEscape()
		default:
			l.pos++
		}
	}
}

func (l *Lexer) scanBadURL() Cursor {
	for !l.eof(l.pos) {
		if l.peek() == ')' {
			l.pos++
			break
		}
		if l.validEscapeAt(l.pos) {
			l.consumeEscape()
			continue
		}
		l.pos++
	}
	return l.token(KindBadUrl)
}

func (l *Lexer) consumeName() {
	for !l.eof(l.pos) {
		ch := l.peek()
		if isNameCode(ch) {
			if ch >= utf8.RuneSelf {
				_, w := utf8.DecodeRune(l.input[l.pos:])
				l.pos += w
			} else {
				l.pos++
			}
			continue
		}
		if l.validEscapeAt(l.pos) {
			l.flags |= FlagEscaped
			l.consumeEscape()
			continue
		}
		return
	}
}

// consumeEscape consumes a backslash and the escaped code point after it.
func (l *Lexer) consumeEscape() {
	l.pos++
	if l.eof(l.pos) {
		return
	}
	if isHexDigit(l.peek()) {
		for i := 0; i < 6 && isHexDigit(l.peek()) && !l.eof(l.pos); i++ {
			l.pos++
		}
		if ch := l.peek(); !l.eof(l.pos) && isWhitespace(ch) {
			l.pos++
			if ch == '\r' && l.peek() == '\n' {
				l.pos++
			}
		}
		return
	}
	_, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
}

func (l *Lexer) validEscapeAt(i int) bool {
	if l.at(i) != '\\' || l.eof(i) {
		return false
	}
	return l.eof(i+1) || !isNewline(l.at(i+1))
}

func (l *Lexer) wouldStartIdentAt(i int) bool {
	if l.eof(i) {
		return false
	}
	switch ch := l.at(i); {
	case ch == '-':
		next := l.at(i + 1)
		if l.eof(i + 1) {
			return false
		}
		return isNameStart(next) || next == '-' || l.validEscapeAt(i+1)
	case ch == '\\':
		return l.validEscapeAt(i)
	default:
		return isNameStart(ch)
	}
}

func (l *Lexer) wouldStartNumberAt(i int) bool {
	switch ch := l.at(i); {
	case isDigit(ch):
		return !l.eof(i)
	case ch == '.':
		return isDigit(l.at(i+1)) && !l.eof(i+1)
	case ch == '+' || ch == '-':
		if isDigit(l.at(i+1)) && !l.eof(i+1) {
			return true
		}
		return l.at(i+1) == '.' && isDigit(l.at(i+2)) && !l.eof(i+2)
	}
	return false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isNewline(ch byte) bool {
	return ch == '\n' || ch == '\r' || ch == '\f'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || isNewline(ch)
}

// NUL is a name start because the preprocessor would replace it with U+FFFD.
func isNameStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch >= utf8.RuneSelf || ch == 0
}

func isNameCode(ch byte) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '-'
}

func isNonPrintable(ch byte) bool {
	return ch <= 0x08 || ch == 0x0B || (ch >= 0x0E && ch <= 0x1F) || ch == 0x7F
}

// unescape decodes CSS escapes in raw name text.
func unescape(raw string) string {
	i := strings.IndexByte(raw, '\\')
	if i < 0 {
		return raw
	}
	var sb strings.Builder
	sb.WriteString(raw[:i])
	raw = raw[i:]
	for len(raw) > 0 {
		if raw[0] != '\\' {
			r, w := utf8.DecodeRuneInString(raw)
			sb.WriteRune(r)
			raw = raw[w:]
			continue
		}
		raw = raw[1:]
		if len(raw) == 0 {
			sb.WriteRune(utf8.RuneError)
			break
		}
		if isNewline(raw[0]) {
			if raw[0] == '\r' && len(raw) > 1 && raw[1] == '\n' {
				raw = raw[1:]
			}
			raw = raw[1:]
			continue
		}
		if !isHexDigit(raw[0]) {
			r, w := utf8.DecodeRuneInString(raw)
			sb.WriteRune(r)
			raw = raw[w:]
			continue
		}
		n := 0
		var v rune
		for n < 6 && n < len(raw) && isHexDigit(raw[n]) {
			v = v*16 + hexValue(raw[n])
			n++
		}
		raw = raw[n:]
		if len(raw) > 0 && isWhitespace(raw[0]) {
			if raw[0] == '\r' && len(raw) > 1 && raw[1] == '\n' {
				raw = raw[1:]
			}
			raw = raw[1:]
		}
		if v == 0 || (v >= 0xD800 && v <= 0xDFFF) || v > utf8.MaxRune {
			v = utf8.RuneError
		}
		sb.WriteRune(v)
	}
	return sb.String()
}

func hexValue(ch byte) rune {
	switch {
	case ch >= '0' && ch <= '9':
		return rune(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return rune(ch-'a') + 10
	default:
		return rune(ch-'A') + 10
	}
}
