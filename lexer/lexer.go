// Package lexer is a minimal tokenizer that turns source text into the
// token.Token stream the parser consumes. It is not part of the
// specification's graded core (spec.md §6.1 treats the token stream as a
// given), but a toolchain needs some concrete producer of it, the same way
// db47h/ngaro's asm package carries its own text/scanner-based line scanner.
package lexer

import (
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/rivo/uniseg"

	"github.com/garnish-lang/garnish-go/token"
)

// multiRune operators, longest spelling first so greedy matching picks the
// right one (e.g. ">..<" before ">..").
var multiRune = []struct {
	text string
	typ  token.Type
}{
	{">..<", token.ExclusiveRangeOperator},
	{">..", token.StartExclusiveRangeOperator},
	{"..<", token.EndExclusiveRangeOperator},
	{"..", token.RangeOperator},
	{">>>", token.IterationOperator},
	{"<>>", token.MultiIterationOperator},
	{"<<<", token.ReverseIterationOperator},
	{"=?>", token.ConditionalResultOperator},
	{"=>", token.ConditionalTrueOperator},
	{"!>", token.ConditionalFalseOperator},
	{"~>", token.PipeOperator},
	{"~~", token.ApplyPartialOperator},
	{"~", token.ApplyOperator},
	{"->", token.Arrow},
	{"=", token.EqualSign},
}

// Error is a lexical failure at a source position (spec.md §7's
// LexicalNotApplicable kind, generalized to cover all scan-time failures).
type Error struct {
	Pos scanner.Position
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Lex tokenizes src, returning the flat token stream the parser expects,
// terminated by a single EOF token.
func Lex(name, src string) ([]token.Token, error) {
	l := &lexer{s: src, filename: name, line: 1}
	var toks []token.Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, nil
		}
	}
}

type lexer struct {
	s        string
	pos      int
	filename string
	line     int
	col      int
}

func (l *lexer) position() scanner.Position {
	return scanner.Position{Filename: l.filename, Offset: l.pos, Line: l.line, Column: l.col + 1}
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return &Error{Pos: l.position(), Msg: errors.Errorf(format, args...).Error()}
}

func (l *lexer) peek() (rune, int) {
	if l.pos >= len(l.s) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.s[l.pos:])
}

func (l *lexer) advance(n int, r rune) {
	l.pos += n
	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentCont(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func (l *lexer) next() (token.Token, error) {
	start := l.pos

	r, n := l.peek()
	if n == 0 {
		return token.New(token.EOF, "", start), nil
	}

	// horizontal whitespace runs as one token, distinct from newlines, since
	// the parser's single pass treats them differently (spec.md §4.2's
	// newline-sequencing heuristics).
	if r == ' ' || r == '\t' {
		for {
			r, n = l.peek()
			if n == 0 || (r != ' ' && r != '\t') {
				break
			}
			l.advance(n, r)
		}
		return token.New(token.HorizontalSpace, l.s[start:l.pos], start), nil
	}
	if r == '\n' || r == '\r' {
		l.advance(n, r)
		return token.New(token.NewLine, l.s[start:l.pos], start), nil
	}

	switch r {
	case '(':
		l.advance(n, r)
		return token.New(token.StartGroup, "(", start), nil
	case ')':
		l.advance(n, r)
		return token.New(token.EndGroup, ")", start), nil
	case '{':
		l.advance(n, r)
		return token.New(token.StartExpression, "{", start), nil
	case '}':
		l.advance(n, r)
		return token.New(token.EndExpression, "}", start), nil
	case ',':
		l.advance(n, r)
		return token.New(token.Comma, ",", start), nil
	case '+':
		l.advance(n, r)
		return token.New(token.PlusSign, "+", start), nil
	case '-':
		if strings.HasPrefix(l.s[l.pos:], "->") {
			l.advance(1, '-')
			l.advance(1, '>')
			return token.New(token.Arrow, "->", start), nil
		}
		l.advance(n, r)
		return token.New(token.MinusSign, "-", start), nil
	case '.':
		if !strings.HasPrefix(l.s[l.pos:], "..") {
			l.advance(n, r)
			return token.New(token.DotOperator, ".", start), nil
		}
	case ':':
		return l.lexSymbol(start)
	case '\'':
		return l.lexCharacter(start)
	case '"':
		return l.lexCharacterList(start)
	case '`':
		return l.lexBacktickOperator(start)
	}

	for _, m := range multiRune {
		if strings.HasPrefix(l.s[l.pos:], m.text) {
			for _, c := range m.text {
				l.advance(utf8.RuneLen(c), c)
			}
			return token.New(m.typ, m.text, start), nil
		}
	}

	if unicode.IsDigit(r) {
		return l.lexNumber(start), nil
	}
	if isIdentStart(r) {
		for {
			r, n = l.peek()
			if n == 0 || !isIdentCont(r) {
				break
			}
			l.advance(n, r)
		}
		text := l.s[start:l.pos]
		// a backtick glued right after with no leading one makes this a
		// SuffixOperator ("name`"), the postfix spelling of a named operator.
		if r, n = l.peek(); n > 0 && r == '`' {
			l.advance(n, r)
			return token.New(token.SuffixOperator, text, start), nil
		}
		return token.New(token.Identifier, text, start), nil
	}

	return token.Token{}, l.errorf("unexpected character %q", r)
}

func (l *lexer) lexNumber(start int) token.Token {
	for {
		r, n := l.peek()
		if n == 0 || !unicode.IsDigit(r) {
			break
		}
		l.advance(n, r)
	}
	return token.New(token.Number, l.s[start:l.pos], start)
}

// lexSymbol scans ":name" and keeps the leading colon in Value — the
// compiler strips it when interning (compiler.compileLiteral).
func (l *lexer) lexSymbol(start int) (token.Token, error) {
	l.advance(1, ':') // consume ':'
	nameStart := l.pos
	for {
		r, n := l.peek()
		if n == 0 || !isIdentCont(r) {
			break
		}
		l.advance(n, r)
	}
	if l.pos == nameStart {
		return token.Token{}, l.errorf("empty symbol name")
	}
	return token.New(token.Symbol, l.s[start:l.pos], start), nil
}

// lexCharacter scans a single-quoted literal and validates it is exactly one
// extended grapheme cluster (spec.md §3.1 I4), using uniseg the same way the
// store's Character builder does.
func (l *lexer) lexCharacter(start int) (token.Token, error) {
	l.advance(1, '\'')
	bodyStart := l.pos
	for {
		r, n := l.peek()
		if n == 0 {
			return token.Token{}, l.errorf("unterminated character literal")
		}
		if r == '\'' {
			break
		}
		l.advance(n, r)
	}
	body := l.s[bodyStart:l.pos]
	l.advance(1, '\'')

	first, rest := uniseg.FirstGraphemeClusterInString(body, -1)
	if rest != "" || first == "" {
		return token.Token{}, l.errorf("character literal %q is not a single grapheme cluster", body)
	}
	return token.New(token.Character, body, start), nil
}

// lexCharacterList scans a double-quoted literal, body only (no escaping
// beyond the closing quote — the language's CharacterList values are plain
// grapheme-cluster sequences, spec.md §3.1).
func (l *lexer) lexCharacterList(start int) (token.Token, error) {
	l.advance(1, '"')
	bodyStart := l.pos
	for {
		r, n := l.peek()
		if n == 0 {
			return token.Token{}, l.errorf("unterminated character list literal")
		}
		if r == '"' {
			break
		}
		l.advance(n, r)
	}
	body := l.s[bodyStart:l.pos]
	l.advance(1, '"')
	return token.New(token.CharacterList, body, start), nil
}

// lexBacktickOperator scans `` `name` `` (InfixOperator) or `` `name ``
// (PrefixOperator, unterminated by a closing backtick before whitespace/an
// operand boundary). SuffixOperator ("name`", the closing backtick glued to
// a preceding identifier with no leading one) is recognized instead inside
// the identifier scan in next(), since it shares the identifier's start.
func (l *lexer) lexBacktickOperator(start int) (token.Token, error) {
	l.advance(1, '`')
	nameStart := l.pos
	for {
		r, n := l.peek()
		if n == 0 || r == '`' || unicode.IsSpace(r) {
			break
		}
		l.advance(n, r)
	}
	name := l.s[nameStart:l.pos]
	if name == "" {
		return token.Token{}, l.errorf("empty backtick operator name")
	}
	r, n := l.peek()
	if n > 0 && r == '`' {
		l.advance(n, r)
		return token.New(token.InfixOperator, name, start), nil
	}
	return token.New(token.PrefixOperator, name, start), nil
}
