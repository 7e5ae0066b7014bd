package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/parser"
	"github.com/garnish-lang/garnish-go/store"
	"github.com/garnish-lang/garnish-go/token"
)

func num(v string, pos int) token.Token              { return token.New(token.Number, v, pos) }
func tk(ty token.Type, v string, pos int) token.Token { return token.New(ty, v, pos) }
func sp(pos int) token.Token                          { return token.New(token.HorizontalSpace, " ", pos) }

func run(t *testing.T, toks []token.Token) (store.Ref, *store.Store) {
	t.Helper()
	tree, err := parser.ParseTokens(toks)
	require.NoError(t, err)
	st := store.New()
	prog, err := compiler.Compile(tree, st, "root")
	require.NoError(t, err)
	inst := New(prog, st)
	result, err := inst.Run("root")
	require.NoError(t, err)
	return result, st
}

// "5 + 4 * 3" => 17 (spec.md §8.4.1).
func TestArithmeticPrecedenceEndToEnd(t *testing.T) {
	toks := []token.Token{
		num("5", 0), sp(1), tk(token.PlusSign, "+", 2), sp(3), num("4", 4),
		sp(5), tk(token.InfixOperator, "*", 6), sp(7), num("3", 8),
	}
	result, st := run(t, toks)
	v, err := st.AsInteger(result)
	require.NoError(t, err)
	require.EqualValues(t, 17, v)
}

// "(5 + 4) * 3" => 27 (spec.md §8.4.2).
func TestGroupingOverridesPrecedenceEndToEnd(t *testing.T) {
	toks := []token.Token{
		tk(token.StartGroup, "(", 0), num("5", 1), tk(token.PlusSign, "+", 2), num("4", 3),
		tk(token.EndGroup, ")", 4), tk(token.InfixOperator, "*", 5), num("3", 6),
	}
	result, st := run(t, toks)
	v, err := st.AsInteger(result)
	require.NoError(t, err)
	require.EqualValues(t, 27, v)
}

func TestDivisionByZeroYieldsUnit(t *testing.T) {
	toks := []token.Token{
		num("5", 0), sp(1), tk(token.InfixOperator, "/", 2), sp(3), num("0", 4),
	}
	result, st := run(t, toks)
	ty, err := st.TypeOf(result)
	require.NoError(t, err)
	require.Equal(t, store.TypeUnit, ty)
}

func TestComparisonPushesBooleanSymbol(t *testing.T) {
	toks := []token.Token{
		num("5", 0), sp(1), tk(token.InfixOperator, "<", 2), sp(3), num("9", 4),
	}
	result, st := run(t, toks)
	b, err := st.AsBool(result)
	require.NoError(t, err)
	require.True(t, b, "5 < 9 should be true")
}

// "10 => 5, !> 15" => 5 (spec.md §8.4.3: predicate is truthy, so the true
// branch's value, not the default, wins).
func TestConditionalChainEndToEnd(t *testing.T) {
	toks := []token.Token{
		num("10", 0), sp(2), tk(token.ConditionalTrueOperator, "=>", 3), sp(5), num("5", 6),
		tk(token.Comma, ",", 7), sp(8), tk(token.ConditionalFalseOperator, "!>", 9), sp(11), num("15", 12),
	}
	result, st := run(t, toks)
	v, err := st.AsInteger(result)
	require.NoError(t, err)
	require.EqualValues(t, 5, v)
}

// "1 2 3": a bare list-separator chain builds a 3-item list.
func TestListConstructionEndToEnd(t *testing.T) {
	toks := []token.Token{num("1", 0), sp(1), num("2", 2), sp(3), num("3", 4)}
	result, st := run(t, toks)
	n, err := st.ListLen(result)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	v, _, err := st.ListItem(result, 1)
	require.NoError(t, err)
	iv, err := st.AsInteger(v)
	require.NoError(t, err)
	require.EqualValues(t, 2, iv)
}

// "1 = 2": MakePair.
func TestMakePairEndToEnd(t *testing.T) {
	toks := []token.Token{num("1", 0), sp(1), tk(token.EqualSign, "=", 2), sp(3), num("2", 4)}
	result, st := run(t, toks)
	ty, err := st.TypeOf(result)
	require.NoError(t, err)
	require.Equal(t, store.TypePair, ty)

	left, err := st.PairLeft(result)
	require.NoError(t, err)
	lv, err := st.AsInteger(left)
	require.NoError(t, err)
	require.EqualValues(t, 1, lv)
}

func TestStructuralEqualityOnIntegers(t *testing.T) {
	toks := []token.Token{
		num("7", 0), sp(1), tk(token.InfixOperator, "==", 2), sp(3), num("7", 4),
	}
	result, st := run(t, toks)
	b, err := st.AsBool(result)
	require.NoError(t, err)
	require.True(t, b, "7 == 7 should be true")
}

// "5\n\n10": OutputResult sequencing — the last statement's value wins, not
// the first (spec.md §4.4, §4.5).
func TestOutputResultSequencingReturnsLastStatement(t *testing.T) {
	toks := []token.Token{
		num("5", 0), tk(token.NewLine, "\n", 1), tk(token.NewLine, "\n", 2), num("10", 3),
	}
	result, st := run(t, toks)
	v, err := st.AsInteger(result)
	require.NoError(t, err)
	require.EqualValues(t, 10, v)
}

// "5\n\n10\n\n20": chained OutputResult sequencing still returns the final
// statement's value.
func TestOutputResultSequencingChainReturnsLastStatement(t *testing.T) {
	toks := []token.Token{
		num("5", 0), tk(token.NewLine, "\n", 1), tk(token.NewLine, "\n", 2),
		num("10", 3), tk(token.NewLine, "\n", 4), tk(token.NewLine, "\n", 5),
		num("20", 6),
	}
	result, st := run(t, toks)
	v, err := st.AsInteger(result)
	require.NoError(t, err)
	require.EqualValues(t, 20, v)
}
