package parser

import (
	"testing"

	"github.com/garnish-lang/garnish-go/token"
)

func num(v string, pos int) token.Token { return token.New(token.Number, v, pos) }
func ident(v string, pos int) token.Token { return token.New(token.Identifier, v, pos) }
func tk(ty token.Type, v string, pos int) token.Token { return token.New(ty, v, pos) }

func TestSingleLiteralRootHasNoChildren(t *testing.T) {
	tree, err := ParseTokens([]token.Token{num("5", 0)})
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}
	if tree.Root == NoIndex {
		t.Fatalf("expected a root")
	}
	root := tree.Nodes[tree.Root]
	if root.Left != NoIndex || root.Right != NoIndex {
		t.Errorf("got left=%d right=%d, want both NoIndex", root.Left, root.Right)
	}
}

func TestEmptyInputHasNoRoot(t *testing.T) {
	tree, err := ParseTokens(nil)
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}
	if tree.Root != NoIndex {
		t.Errorf("expected no root for empty input, got %d", tree.Root)
	}
}

// "5 + 4 * 3": Multiplication binds tighter than Addition, so Addition is
// the root with Multiplication as its right child (spec.md §8.1, §8.4.1).
func TestPrecedenceMultiplicationBindsTighterThanAddition(t *testing.T) {
	toks := []token.Token{
		num("5", 0),
		tk(token.HorizontalSpace, " ", 1),
		tk(token.PlusSign, "+", 2),
		tk(token.HorizontalSpace, " ", 3),
		num("4", 4),
		tk(token.HorizontalSpace, " ", 5),
		tk(token.InfixOperator, "*", 6),
		tk(token.HorizontalSpace, " ", 7),
		num("3", 8),
	}
	tree, err := ParseTokens(toks)
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}
	root := tree.Nodes[tree.Root]
	if root.Classification != Addition {
		t.Fatalf("root classification = %s, want Addition", root.Classification)
	}
	right := tree.Nodes[root.Right]
	if right.Classification != Multiplication {
		t.Errorf("root.Right classification = %s, want Multiplication", right.Classification)
	}
}

// "a + b * c" with b swapped: "a * b + c" ⇒ root is Addition, Multiplication
// is its left child (spec.md §8.1 precedence monotonicity, second clause).
func TestPrecedenceMonotonicityLeftSide(t *testing.T) {
	toks := []token.Token{
		num("1", 0),
		tk(token.InfixOperator, "*", 1),
		num("2", 2),
		tk(token.PlusSign, "+", 3),
		num("3", 4),
	}
	tree, err := ParseTokens(toks)
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}
	root := tree.Nodes[tree.Root]
	if root.Classification != Addition {
		t.Fatalf("root classification = %s, want Addition", root.Classification)
	}
	left := tree.Nodes[root.Left]
	if left.Classification != Multiplication {
		t.Errorf("root.Left classification = %s, want Multiplication", left.Classification)
	}
}

// "(5 + 4) * 3": grouping overrides precedence, root is Multiplication with
// the group anchor as its left child (spec.md §8.4.2).
func TestGroupingOverridesPrecedence(t *testing.T) {
	toks := []token.Token{
		tk(token.StartGroup, "(", 0),
		num("5", 1),
		tk(token.PlusSign, "+", 2),
		num("4", 3),
		tk(token.EndGroup, ")", 4),
		tk(token.InfixOperator, "*", 5),
		num("3", 6),
	}
	tree, err := ParseTokens(toks)
	if err != nil {
		t.Fatalf("ParseTokens: %v", err)
	}
	root := tree.Nodes[tree.Root]
	if root.Classification != Multiplication {
		t.Fatalf("root classification = %s, want Multiplication", root.Classification)
	}
	left := tree.Nodes[root.Left]
	if left.Classification != Literal {
		t.Fatalf("root.Left classification = %s, want Literal (group anchor)", left.Classification)
	}
	inner := tree.Nodes[left.Right]
	if inner.Classification != Addition {
		t.Errorf("group interior root = %s, want Addition", inner.Classification)
	}
}

func TestUnaryMinusVsBinarySubtraction(t *testing.T) {
	// "5 - -3": first '-' is Subtraction (left neighbor is a literal),
	// second '-' is Negation (left neighbor is an operator).
	toks := []token.Token{
		num("5", 0),
		tk(token.HorizontalSpace, " ", 1),
		tk(token.MinusSign, "-", 2),
		tk(token.HorizontalSpace, " ", 3),
		tk(token.MinusSign, "-", 4),
		num("3", 5),
	}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	var minuses []Node
	for _, n := range nodes {
		if n.Token.Type == token.MinusSign {
			minuses = append(minuses, n)
		}
	}
	if len(minuses) != 2 {
		t.Fatalf("got %d minus nodes, want 2", len(minuses))
	}
	if minuses[0].Classification != Subtraction {
		t.Errorf("first '-' classification = %s, want Subtraction", minuses[0].Classification)
	}
	if minuses[1].Classification != Negation {
		t.Errorf("second '-' classification = %s, want Negation", minuses[1].Classification)
	}
}

func TestUnclosedGroupError(t *testing.T) {
	toks := []token.Token{tk(token.StartGroup, "(", 0), num("5", 1)}
	_, _, err := Classify(toks)
	if err == nil {
		t.Fatalf("expected UnclosedGroup error")
	}
	if _, ok := err.(*UnclosedGroup); !ok {
		t.Errorf("got %T, want *UnclosedGroup", err)
	}
}

func TestGroupMismatchError(t *testing.T) {
	toks := []token.Token{
		tk(token.StartGroup, "(", 0),
		num("5", 1),
		tk(token.EndExpression, "}", 2),
	}
	_, _, err := Classify(toks)
	if err == nil {
		t.Fatalf("expected GroupMismatch error")
	}
	if _, ok := err.(*GroupMismatch); !ok {
		t.Errorf("got %T, want *GroupMismatch", err)
	}
}

func TestUnstartedGroupError(t *testing.T) {
	toks := []token.Token{num("5", 0), tk(token.EndGroup, ")", 1)}
	_, _, err := Classify(toks)
	if err == nil {
		t.Fatalf("expected UnstartedGroup error")
	}
	if _, ok := err.(*UnstartedGroup); !ok {
		t.Errorf("got %T, want *UnstartedGroup", err)
	}
}

func TestTrailingAccessError(t *testing.T) {
	// "value.1.10.5." (spec.md §8.3)
	toks := []token.Token{
		ident("value", 0),
		tk(token.DotOperator, ".", 5),
		num("1", 6),
		tk(token.DotOperator, ".", 7),
		num("10", 8),
		tk(token.DotOperator, ".", 10),
		num("5", 11),
		tk(token.DotOperator, ".", 12),
	}
	_, _, err := Classify(toks)
	if err == nil {
		t.Fatalf("expected LexicalNotApplicable error")
	}
	if _, ok := err.(*LexicalNotApplicable); !ok {
		t.Errorf("got %T, want *LexicalNotApplicable", err)
	}
}

func TestDecimalVsAccessClassification(t *testing.T) {
	// "4.5" both neighbors numeric ⇒ Decimal.
	toks := []token.Token{num("4", 0), tk(token.DotOperator, ".", 1), num("5", 2)}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if nodes[1].Classification != Decimal {
		t.Errorf("got %s, want Decimal", nodes[1].Classification)
	}
}

func TestAccessClassificationWhenNeighborNotNumber(t *testing.T) {
	toks := []token.Token{ident("x", 0), tk(token.DotOperator, ".", 1), ident("y", 2)}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if nodes[1].Classification != Access {
		t.Errorf("got %s, want Access", nodes[1].Classification)
	}
}

func TestHorizontalSpaceBetweenLiteralsIsListSeparator(t *testing.T) {
	toks := []token.Token{num("1", 0), tk(token.HorizontalSpace, " ", 1), num("2", 2)}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if nodes[1].Classification != ListSeparator {
		t.Errorf("got %s, want ListSeparator", nodes[1].Classification)
	}
}

func TestHorizontalSpaceElsewhereIsNoOp(t *testing.T) {
	toks := []token.Token{
		tk(token.PlusSign, "+", 0),
		tk(token.HorizontalSpace, " ", 1),
		num("2", 2),
	}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if nodes[1].Classification != NoOp {
		t.Errorf("got %s, want NoOp", nodes[1].Classification)
	}
}

func TestConditionalChainWithDefault(t *testing.T) {
	// "10 => 5, !> 15" (spec.md §8.4.3)
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
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	var sawContinuation, sawDefault bool
	for _, n := range nodes {
		switch n.Classification {
		case ConditionalContinuation:
			sawContinuation = true
		case DefaultInvoke:
			sawDefault = true
		}
	}
	if !sawContinuation {
		t.Errorf("expected a ConditionalContinuation node")
	}
	if !sawDefault {
		t.Errorf("expected the '!>' after the comma to classify as DefaultInvoke")
	}
}

// "5\n10": a single newline between two literals separates expressions
// directly, classifying as OutputResult and linking into the chain
// (spec.md §4.2).
func TestSingleNewLineBetweenLiteralsIsOutputResult(t *testing.T) {
	toks := []token.Token{
		num("5", 0),
		tk(token.NewLine, "\n", 1),
		num("10", 2),
	}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if nodes[1].Classification != OutputResult {
		t.Fatalf("got %s, want OutputResult", nodes[1].Classification)
	}
	if nodes[1].Left != 0 || nodes[1].Right != 2 {
		t.Errorf("OutputResult not linked into chain: left=%d right=%d", nodes[1].Left, nodes[1].Right)
	}
}

// "5\n\n10": two consecutive newlines terminate a sub-expression; the
// preceding (first) newline is retroactively reclassified as OutputResult
// and linked, while the second newline bridges as an unlinked NoOp
// (spec.md §4.2).
func TestDoubleNewLineReclassifiesPrecedingAsOutputResult(t *testing.T) {
	toks := []token.Token{
		num("5", 0),
		tk(token.NewLine, "\n", 1),
		tk(token.NewLine, "\n", 2),
		num("10", 3),
	}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if nodes[1].Classification != OutputResult {
		t.Fatalf("first newline classification = %s, want OutputResult", nodes[1].Classification)
	}
	if nodes[1].Left != 0 {
		t.Errorf("OutputResult.Left = %d, want 0 (the preceding literal)", nodes[1].Left)
	}
	if nodes[2].Classification != NoOp {
		t.Errorf("second newline classification = %s, want NoOp", nodes[2].Classification)
	}
	last := len(nodes) - 1
	if nodes[last].Classification != Literal {
		t.Fatalf("got %s, want Literal for trailing '10'", nodes[last].Classification)
	}
	if nodes[last].Left != 1 {
		t.Errorf("trailing literal.Left = %d, want 1 (the reclassified OutputResult)", nodes[last].Left)
	}
	if nodes[1].Right != last {
		t.Errorf("OutputResult.Right = %d, want %d", nodes[1].Right, last)
	}
}

// "5\n\n\n10": three consecutive newlines still collapse to a single
// OutputResult boundary; extra newlines beyond the second stay orphaned
// NoOps rather than producing further reclassification.
func TestTripleNewLineStillCollapsesToOneOutputResult(t *testing.T) {
	toks := []token.Token{
		num("5", 0),
		tk(token.NewLine, "\n", 1),
		tk(token.NewLine, "\n", 2),
		tk(token.NewLine, "\n", 3),
		num("10", 4),
	}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	var outputResults int
	for _, n := range nodes {
		if n.Classification == OutputResult {
			outputResults++
		}
	}
	if outputResults != 1 {
		t.Fatalf("got %d OutputResult nodes, want 1", outputResults)
	}
}

// Inside a group, newlines (single or doubled) become unlinked NoOps and
// never produce OutputResult.
func TestNewLineInsideGroupIsNoOp(t *testing.T) {
	toks := []token.Token{
		tk(token.StartGroup, "(", 0),
		num("5", 1),
		tk(token.NewLine, "\n", 2),
		tk(token.NewLine, "\n", 3),
		num("10", 4),
		tk(token.EndGroup, ")", 5),
	}
	nodes, _, err := Classify(toks)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	for _, n := range nodes {
		if n.Token.Type == token.NewLine && n.Classification != NoOp {
			t.Errorf("newline inside group classified as %s, want NoOp", n.Classification)
		}
	}
}
