package lexer

import (
	"testing"

	"github.com/garnish-lang/garnish-go/token"
)

func types(t *testing.T, toks []token.Token) []token.Type {
	t.Helper()
	out := make([]token.Type, len(toks))
	for i, tok := range toks {
		out[i] = tok.Type
	}
	return out
}

func eq(t *testing.T, got, want []token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("at %d: got %s, want %s (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestLexArithmeticExpression(t *testing.T) {
	toks, err := Lex("t", "5 + 4 `*` 3")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eq(t, types(t, toks), []token.Type{
		token.Number, token.HorizontalSpace, token.PlusSign, token.HorizontalSpace,
		token.Number, token.HorizontalSpace, token.InfixOperator, token.HorizontalSpace,
		token.Number, token.EOF,
	})
}

func TestLexGroupingAndExpression(t *testing.T) {
	toks, err := Lex("t", "(5+4)`*`{3}")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eq(t, types(t, toks), []token.Type{
		token.StartGroup, token.Number, token.PlusSign, token.Number, token.EndGroup,
		token.InfixOperator, token.StartExpression, token.Number, token.EndExpression, token.EOF,
	})
}

func TestLexConditionalOperators(t *testing.T) {
	toks, err := Lex("t", "10 => 5 !> 15")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eq(t, types(t, toks), []token.Type{
		token.Number, token.HorizontalSpace, token.ConditionalTrueOperator, token.HorizontalSpace,
		token.Number, token.HorizontalSpace, token.ConditionalFalseOperator, token.HorizontalSpace,
		token.Number, token.EOF,
	})
}

func TestLexPairAndLinkAndPartialApply(t *testing.T) {
	toks, err := Lex("t", "5 -> {4+3} ~~ 9")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	eq(t, types(t, toks), []token.Type{
		token.Number, token.HorizontalSpace, token.Arrow, token.HorizontalSpace,
		token.StartExpression, token.Number, token.PlusSign, token.Number, token.EndExpression,
		token.HorizontalSpace, token.ApplyPartialOperator, token.HorizontalSpace,
		token.Number, token.EOF,
	})
}

func TestLexBacktickInfixOperator(t *testing.T) {
	toks, err := Lex("t", "`is`")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if len(toks) != 2 || toks[0].Type != token.InfixOperator || toks[0].Value != "is" {
		t.Fatalf("got %+v", toks)
	}
}

func TestLexSymbolKeepsLeadingColon(t *testing.T) {
	toks, err := Lex("t", ":left")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Type != token.Symbol || toks[0].Value != ":left" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexCharacterLiteral(t *testing.T) {
	toks, err := Lex("t", "'a'")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Type != token.Character || toks[0].Value != "a" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexMultiCharacterLiteralIsLexError(t *testing.T) {
	_, err := Lex("t", "'ab'")
	if err == nil {
		t.Fatalf("expected an error for a multi-cluster character literal")
	}
}

func TestLexCharacterListLiteral(t *testing.T) {
	toks, err := Lex("t", `"hello"`)
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	if toks[0].Type != token.CharacterList || toks[0].Value != "hello" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexRangeOperators(t *testing.T) {
	toks, err := Lex("t", "1..5 1>..5 1..<5 1>..<5")
	if err != nil {
		t.Fatalf("Lex: %v", err)
	}
	var rangeToks []token.Type
	for _, tok := range toks {
		switch tok.Type {
		case token.RangeOperator, token.StartExclusiveRangeOperator,
			token.EndExclusiveRangeOperator, token.ExclusiveRangeOperator:
			rangeToks = append(rangeToks, tok.Type)
		}
	}
	eq(t, rangeToks, []token.Type{
		token.RangeOperator, token.StartExclusiveRangeOperator,
		token.EndExclusiveRangeOperator, token.ExclusiveRangeOperator,
	})
}
