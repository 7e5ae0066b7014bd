package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnish-lang/garnish-go/parser"
	"github.com/garnish-lang/garnish-go/store"
	"github.com/garnish-lang/garnish-go/token"
)

func compileSource(t *testing.T, toks []token.Token) (*Program, *store.Store) {
	t.Helper()
	tree, err := parser.ParseTokens(toks)
	require.NoError(t, err)
	st := store.New()
	prog, err := Compile(tree, st, "root")
	require.NoError(t, err)
	return prog, st
}

func num(v string, pos int) token.Token              { return token.New(token.Number, v, pos) }
func tk(ty token.Type, v string, pos int) token.Token { return token.New(ty, v, pos) }

func opSeq(prog *Program) []Opcode {
	out := make([]Opcode, len(prog.Instructions))
	for i, instr := range prog.Instructions {
		out[i] = instr.Op
	}
	return out
}

func TestCompileSingleLiteral(t *testing.T) {
	prog, _ := compileSource(t, []token.Token{num("5", 0)})
	want := []Opcode{StartExpression, Put, EndExpression, EndExecution}
	assert.Equal(t, want, opSeq(prog))
}

// "5 + 4": left, right, PerformAddition after the enclosing StartExpression.
func TestCompileAdditionEmitsOperandsThenOpcode(t *testing.T) {
	toks := []token.Token{
		num("5", 0),
		tk(token.HorizontalSpace, " ", 1),
		tk(token.PlusSign, "+", 2),
		tk(token.HorizontalSpace, " ", 3),
		num("4", 4),
	}
	prog, _ := compileSource(t, toks)
	want := []Opcode{StartExpression, Put, Put, PerformAddition, EndExpression, EndExecution}
	assert.Equal(t, want, opSeq(prog))
}

func TestCompileEmptyInputPutsUnit(t *testing.T) {
	prog, st := compileSource(t, nil)
	want := []Opcode{StartExpression, Put, EndExpression, EndExecution}
	require.Equal(t, want, opSeq(prog))

	ref := store.Ref(prog.Instructions[1].A)
	ty, err := st.TypeOf(ref)
	require.NoError(t, err)
	assert.Equal(t, store.TypeUnit, ty, "expected Put to target a Unit value")
}

// "(5 + 4) * 3": group anchor compiles its interior, then the outer
// Multiplication follows.
func TestCompileGroupCompilesInterior(t *testing.T) {
	toks := []token.Token{
		tk(token.StartGroup, "(", 0),
		num("5", 1),
		tk(token.PlusSign, "+", 2),
		num("4", 3),
		tk(token.EndGroup, ")", 4),
		tk(token.InfixOperator, "*", 5),
		num("3", 6),
	}
	prog, _ := compileSource(t, toks)
	want := []Opcode{StartExpression, Put, Put, PerformAddition, Put, PerformMultiplication, EndExpression, EndExecution}
	assert.Equal(t, want, opSeq(prog))
}

// A sub-expression ({ ... }) schedules its body as a separate named
// expression rather than inlining it.
func TestCompileSubExpressionIsScheduledSeparately(t *testing.T) {
	toks := []token.Token{
		tk(token.StartExpression, "{", 0),
		num("4", 1),
		tk(token.PlusSign, "+", 2),
		num("3", 3),
		tk(token.EndExpression, "}", 4),
	}
	prog, _ := compileSource(t, toks)
	require.Len(t, prog.ByName, 2, "expected 2 compiled expressions (root + one sub): %v", prog.ByName)
	assert.Contains(t, prog.ByName, "root")
}

func TestCompileMissingOperandError(t *testing.T) {
	// A bare PlusSign with no left operand classifies as AbsoluteValue
	// (unary), which still requires a right operand; construct a node tree
	// directly to exercise the error path without relying on a pathological
	// token stream.
	tree := &parser.Tree{
		Nodes: []parser.Node{
			{Token: token.New(token.PlusSign, "+", 0), Classification: parser.AbsoluteValue, Parent: parser.NoIndex, Left: parser.NoIndex, Right: parser.NoIndex},
		},
		Root: 0,
	}
	st := store.New()
	_, err := Compile(tree, st, "root")
	require.Error(t, err)
	assert.IsType(t, &MissingOperand{}, err)
}

// List-separator chains flatten into one StartList/.../MakeList block rather
// than nesting one per separator.
func TestCompileListChainFlattensIntoOneBlock(t *testing.T) {
	toks := []token.Token{
		num("1", 0),
		tk(token.HorizontalSpace, " ", 1),
		num("2", 2),
		tk(token.HorizontalSpace, " ", 3),
		num("3", 4),
	}
	prog, _ := compileSource(t, toks)
	want := []Opcode{StartExpression, StartList, Put, Put, Put, MakeList, EndExpression, EndExecution}
	assert.Equal(t, want, opSeq(prog))
}

// "10 => 5, !> 15": the ConditionalTrue compiles first, threading the
// DefaultInvoke's generated sub-expression name through as its false target.
func TestCompileConditionalChainThreadsCondRight(t *testing.T) {
	toks := []token.Token{
		num("10", 0),
		tk(token.HorizontalSpace, " ", 2),
		tk(token.ConditionalTrueOperator, "=>", 3),
		tk(token.HorizontalSpace, " ", 5),
		num("5", 6),
		tk(token.Comma, ",", 7),
		tk(token.HorizontalSpace, " ", 8),
		tk(token.ConditionalFalseOperator, "!>", 9),
		tk(token.HorizontalSpace, " ", 11),
		num("15", 12),
	}
	prog, _ := compileSource(t, toks)
	var found bool
	for _, instr := range prog.Instructions {
		if instr.Op == ConditionalExecute && instr.B != 0 {
			found = true
		}
	}
	assert.True(t, found, "expected a ConditionalExecute instruction with a non-zero false target")
	// root + the true-branch sub-expr + the default sub-expr.
	assert.Len(t, prog.ByName, 3, "expected 3 compiled expressions: %v", prog.ByName)
}

// "5\n\n10": OutputResult must emit left, then right, then the opcode itself
// (spec.md §4.4), so the opcode appears after both operand Puts rather than
// between them.
func TestCompileOutputResultEmitsBothOperandsBeforeOpcode(t *testing.T) {
	toks := []token.Token{
		num("5", 0),
		tk(token.NewLine, "\n", 1),
		tk(token.NewLine, "\n", 2),
		num("10", 3),
	}
	prog, _ := compileSource(t, toks)
	want := []Opcode{StartExpression, Put, Put, OutputResult, EndExpression, EndExecution}
	assert.Equal(t, want, opSeq(prog))
}
