package compiler

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/garnish-lang/garnish-go/parser"
	"github.com/garnish-lang/garnish-go/store"
	"github.com/garnish-lang/garnish-go/token"
)

// EmitFunc observes every instruction as it is appended, keyed by the name
// of the sub-expression currently being compiled. It supplements the base
// design with a hook a host can use for tracing or coverage tooling without
// re-walking the finished stream (see SPEC_FULL.md, "Supplemented features").
type EmitFunc func(exprName string, instr Instruction)

// Option configures a Builder, mirroring the functional-options idiom used
// throughout this codebase's runtime construction.
type Option func(*Builder)

// OnEmit registers a hook invoked once per instruction as it is compiled.
func OnEmit(fn EmitFunc) Option {
	return func(b *Builder) { b.onEmit = fn }
}

type request struct {
	name      string
	node      int // parser.NoIndex for an empty body (Put Unit)
	condRight string
}

// Builder drives the worklist-based, recursive post-order compilation
// described in spec.md §4.4.
type Builder struct {
	tree     *parser.Tree
	store    *store.Store
	instr    []Instruction
	byName   map[string]int
	byID     map[uint32]int
	worklist []request
	subCount map[string]int
	onEmit   EmitFunc
}

// Compile lowers a resolved AST into a linear instruction stream rooted at
// rootName (spec.md §4.4). store receives the compiled literal values and
// is shared with the eventual runtime; the compiler only appends to it,
// never mutates existing bytes.
func Compile(tree *parser.Tree, st *store.Store, rootName string, opts ...Option) (*Program, error) {
	b := &Builder{
		tree:     tree,
		store:    st,
		byName:   make(map[string]int),
		byID:     make(map[uint32]int),
		subCount: make(map[string]int),
	}
	for _, o := range opts {
		o(b)
	}
	b.worklist = append(b.worklist, request{name: rootName, node: tree.Root, condRight: ""})

	for len(b.worklist) > 0 {
		req := b.worklist[0]
		b.worklist = b.worklist[1:]
		if err := b.compileExpression(req); err != nil {
			return nil, err
		}
	}

	b.emit(rootName, Instruction{Op: EndExecution})

	return &Program{Instructions: b.instr, ByName: b.byName, ByID: b.byID, Store: b.store}, nil
}

func (b *Builder) emit(exprName string, i Instruction) {
	b.instr = append(b.instr, i)
	if b.onEmit != nil {
		b.onEmit(exprName, i)
	}
}

func (b *Builder) compileExpression(req request) error {
	id := b.store.Symbols.Intern(req.name)
	b.emit(req.name, Instruction{Op: StartExpression, A: id})
	addr := len(b.instr)
	b.byName[req.name] = addr
	b.byID[id] = addr

	if req.node == parser.NoIndex {
		b.emit(req.name, Instruction{Op: Put, A: uint32(b.store.PutUnit())})
	} else if err := b.compileNode(req.name, req.node, req.condRight); err != nil {
		return err
	}

	b.emit(req.name, Instruction{Op: EndExpression})
	return nil
}

// genSubName produces the "{parent}@sub_{counter}" names for generated
// sub-expressions (spec.md §4.4).
func (b *Builder) genSubName(parent string) string {
	n := b.subCount[parent]
	b.subCount[parent] = n + 1
	return parent + "@sub_" + strconv.Itoa(n)
}

func (b *Builder) schedule(name string, node int, condRight string) {
	b.worklist = append(b.worklist, request{name: name, node: node, condRight: condRight})
}

func (b *Builder) node(idx int) parser.Node { return b.tree.Nodes[idx] }

func (b *Builder) requireChild(exprName string, idx int, side string, child int) error {
	if child == parser.NoIndex {
		return &MissingOperand{Side: side, ParentIndex: idx}
	}
	return nil
}

func (b *Builder) compileNode(exprName string, idx int, condRight string) error {
	n := b.node(idx)
	switch n.Classification {
	case parser.Literal:
		return b.compileLiteral(exprName, idx)
	case parser.Symbol:
		id := b.store.Symbols.Intern(n.Token.Value)
		b.emit(exprName, Instruction{Op: Resolve, A: id})
		return nil
	case parser.Decimal:
		return b.compileDecimal(exprName, idx)
	case parser.Access:
		return b.compileBinaryOpcode(exprName, idx, PerformAccess)
	case parser.Addition:
		return b.compileBinaryOpcode(exprName, idx, PerformAddition)
	case parser.Subtraction:
		return b.compileBinaryOpcode(exprName, idx, PerformSubtraction)
	case parser.Negation:
		return b.compileUnaryOpcode(exprName, idx, PerformNegation)
	case parser.AbsoluteValue:
		return b.compileUnaryOpcode(exprName, idx, PerformAbsoluteValue)
	case parser.Multiplication:
		return b.compileBinaryOpcode(exprName, idx, PerformMultiplication)
	case parser.Division:
		return b.compileBinaryOpcode(exprName, idx, PerformDivision)
	case parser.IntegerDivision:
		return b.compileBinaryOpcode(exprName, idx, PerformIntegerDivision)
	case parser.Remainder:
		return b.compileBinaryOpcode(exprName, idx, PerformRemainder)
	case parser.Exponential:
		return b.compileBinaryOpcode(exprName, idx, PerformExponential)
	case parser.BitwiseAnd:
		return b.compileBinaryOpcode(exprName, idx, PerformBitwiseAnd)
	case parser.BitwiseOr:
		return b.compileBinaryOpcode(exprName, idx, PerformBitwiseOr)
	case parser.BitwiseXor:
		return b.compileBinaryOpcode(exprName, idx, PerformBitwiseXor)
	case parser.BitwiseNot:
		return b.compileUnaryOpcode(exprName, idx, PerformBitwiseNot)
	case parser.BitwiseLeftShift:
		return b.compileBinaryOpcode(exprName, idx, PerformBitwiseLeftShift)
	case parser.BitwiseRightShift:
		return b.compileBinaryOpcode(exprName, idx, PerformBitwiseRightShift)
	case parser.LogicalAnd:
		return b.compileBinaryOpcode(exprName, idx, PerformLogicalAnd)
	case parser.LogicalOr:
		return b.compileBinaryOpcode(exprName, idx, PerformLogicalOr)
	case parser.LogicalXor:
		return b.compileBinaryOpcode(exprName, idx, PerformLogicalXor)
	case parser.LogicalNot:
		return b.compileUnaryOpcode(exprName, idx, PerformLogicalNot)
	case parser.EqualityComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformEqualityComparison)
	case parser.InequalityComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformInequalityComparison)
	case parser.LessThanComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformLessThanComparison)
	case parser.LessThanOrEqualComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformLessThanOrEqualComparison)
	case parser.GreaterThanComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformGreaterThanComparison)
	case parser.GreaterThanOrEqualComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformGreaterThanOrEqualComparison)
	case parser.TypeComparison:
		return b.compileBinaryOpcode(exprName, idx, PerformTypeComparison)
	case parser.MakePair:
		return b.compileBinaryOpcode(exprName, idx, MakePair)
	case parser.MakeInclusiveRange:
		return b.compileBinaryOpcode(exprName, idx, MakeInclusiveRange)
	case parser.MakeStartExclusiveRange:
		return b.compileBinaryOpcode(exprName, idx, MakeStartExclusiveRange)
	case parser.MakeEndExclusiveRange:
		return b.compileBinaryOpcode(exprName, idx, MakeEndExclusiveRange)
	case parser.MakeExclusiveRange:
		return b.compileBinaryOpcode(exprName, idx, MakeExclusiveRange)
	case parser.MakeLink:
		return b.compileBinaryOpcode(exprName, idx, MakeLink)
	case parser.PartiallyApply:
		return b.compileBinaryOpcode(exprName, idx, PartiallyApply)
	case parser.Apply:
		return b.compileBinaryOpcode(exprName, idx, PerformApply)
	case parser.PipeApply:
		return b.compilePipeApply(exprName, idx)
	case parser.PrefixApply:
		return b.compilePrefixOrSuffixApply(exprName, idx, n.Right)
	case parser.SuffixApply:
		return b.compilePrefixOrSuffixApply(exprName, idx, n.Left)
	case parser.InfixApply:
		return b.compileInfixApply(exprName, idx)
	case parser.ListSeparator:
		return b.compileListChain(exprName, idx)
	case parser.ConditionalTrue, parser.ConditionalFalse, parser.ConditionalResult:
		return b.compileConditional(exprName, idx, condRight)
	case parser.ConditionalContinuation:
		return b.compileConditionalContinuation(exprName, idx, condRight)
	case parser.DefaultInvoke:
		return b.compileDefaultInvoke(exprName, idx)
	case parser.OutputResult:
		return b.compileOutputResult(exprName, idx)
	case parser.Iterate:
		return b.compileBinaryOpcode(exprName, idx, Iterate)
	case parser.IterateToSingleResult:
		return b.compileBinaryOpcode(exprName, idx, IterateToSingleResult)
	case parser.ReverseIterate:
		return b.compileBinaryOpcode(exprName, idx, ReverseIterate)
	case parser.ReverseIterateToSingleResult:
		return b.compileBinaryOpcode(exprName, idx, ReverseIterateToSingleResult)
	case parser.MultiIterate:
		return b.compileBinaryOpcode(exprName, idx, MultiIterate)
	default:
		return errors.Errorf("compiler: no emission rule for classification %s", n.Classification)
	}
}

func (b *Builder) compileLiteral(exprName string, idx int) error {
	n := b.node(idx)
	switch n.Token.Type {
	case token.StartGroup:
		if n.Right == parser.NoIndex {
			b.emit(exprName, Instruction{Op: Put, A: uint32(b.store.PutUnit())})
			return nil
		}
		return b.compileNode(exprName, n.Right, "")
	case token.StartExpression:
		subName := b.genSubName(exprName)
		b.schedule(subName, n.Right, "")
		b.emit(exprName, Instruction{Op: Put, A: uint32(b.store.PutExpression(subName))})
		return nil
	case token.Number:
		v, err := strconv.ParseInt(n.Token.Value, 10, 32)
		if err != nil {
			return &InvalidLiteral{Kind: "integer", Text: n.Token.Value}
		}
		b.emit(exprName, Instruction{Op: Put, A: uint32(b.store.PutInteger(int32(v)))})
		return nil
	case token.Character:
		ref, err := b.store.PutCharacter(n.Token.Value)
		if err != nil {
			return &InvalidLiteral{Kind: "character", Text: n.Token.Value}
		}
		b.emit(exprName, Instruction{Op: Put, A: uint32(ref)})
		return nil
	case token.CharacterList:
		ref, err := b.store.PutCharacterList(n.Token.Value)
		if err != nil {
			return &InvalidLiteral{Kind: "characterlist", Text: n.Token.Value}
		}
		b.emit(exprName, Instruction{Op: Put, A: uint32(ref)})
		return nil
	case token.Symbol:
		ref := b.store.PutSymbol(strings.TrimPrefix(n.Token.Value, ":"))
		b.emit(exprName, Instruction{Op: Put, A: uint32(ref)})
		return nil
	default:
		return errors.Errorf("compiler: unhandled literal token type %s", n.Token.Type)
	}
}

// compileDecimal fuses "A.B" (both Number literals) into a single Float
// constant rather than treating it as a runtime operator (spec.md §4.2's
// Decimal classification exists precisely to avoid a PerformAddition-style
// dispatch here).
func (b *Builder) compileDecimal(exprName string, idx int) error {
	n := b.node(idx)
	if n.Left == parser.NoIndex || n.Right == parser.NoIndex {
		side := "left"
		if n.Left != parser.NoIndex {
			side = "right"
		}
		return &MissingOperand{Side: side, ParentIndex: idx}
	}
	left := b.node(n.Left)
	right := b.node(n.Right)
	text := left.Token.Value + "." + right.Token.Value
	v, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return &InvalidLiteral{Kind: "float", Text: text}
	}
	b.emit(exprName, Instruction{Op: Put, A: uint32(b.store.PutFloat(float32(v)))})
	return nil
}

func (b *Builder) compileBinaryOpcode(exprName string, idx int, op Opcode) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Left, ""); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Right, ""); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: op})
	return nil
}

func (b *Builder) compileUnaryOpcode(exprName string, idx int, op Opcode) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Right, ""); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: op})
	return nil
}

func (b *Builder) compilePipeApply(exprName string, idx int) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Right, ""); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Left, ""); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: PerformApply})
	return nil
}

func (b *Builder) compilePrefixOrSuffixApply(exprName string, idx int, operand int) error {
	n := b.node(idx)
	if operand == parser.NoIndex {
		return &MissingOperand{Side: "operand", ParentIndex: idx}
	}
	if err := b.compileNode(exprName, operand, ""); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: PushInput})
	id := b.store.Symbols.Intern(n.Token.Value)
	b.emit(exprName, Instruction{Op: ExecuteExpression, A: id})
	return nil
}

func (b *Builder) compileInfixApply(exprName string, idx int) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: StartList})
	if err := b.compileNode(exprName, n.Left, ""); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Right, ""); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: MakeList})
	b.emit(exprName, Instruction{Op: PushInput})
	id := b.store.Symbols.Intern(n.Token.Value)
	b.emit(exprName, Instruction{Op: ExecuteExpression, A: id})
	return nil
}

// compileListChain gathers a run of ListSeparator nodes into one flat
// StartList/.../MakeList block, per spec.md §4.4 ("open a StartList only at
// the topmost list node of a chain").
func (b *Builder) compileListChain(exprName string, idx int) error {
	var items []int
	var gather func(int)
	gather = func(i int) {
		n := b.node(i)
		if n.Classification == parser.ListSeparator {
			if n.Left != parser.NoIndex {
				gather(n.Left)
			}
			if n.Right != parser.NoIndex {
				gather(n.Right)
			}
			return
		}
		items = append(items, i)
	}
	gather(idx)

	b.emit(exprName, Instruction{Op: StartList})
	for _, it := range items {
		if err := b.compileNode(exprName, it, ""); err != nil {
			return err
		}
	}
	b.emit(exprName, Instruction{Op: MakeList})
	return nil
}

func (b *Builder) compileConditional(exprName string, idx int, condRight string) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Left, ""); err != nil {
		return err
	}
	trueName := b.genSubName(exprName)
	b.schedule(trueName, n.Right, "")
	trueID := b.store.Symbols.Intern(trueName)
	var falseID uint32
	if condRight != "" {
		falseID = b.store.Symbols.Intern(condRight)
	}
	op := ConditionalExecute
	if n.Classification == parser.ConditionalResult {
		op = ResultConditionalExecute
	}
	b.emit(exprName, Instruction{Op: op, A: trueID, B: falseID})
	return nil
}

func (b *Builder) compileConditionalContinuation(exprName string, idx int, condRight string) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	rightName := b.genSubName(exprName)
	b.schedule(rightName, n.Right, condRight)
	return b.compileNode(exprName, n.Left, rightName)
}

func (b *Builder) compileDefaultInvoke(exprName string, idx int) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	defaultName := b.genSubName(exprName)
	b.schedule(defaultName, n.Right, "")
	return b.compileNode(exprName, n.Left, defaultName)
}

func (b *Builder) compileOutputResult(exprName string, idx int) error {
	n := b.node(idx)
	if err := b.requireChild(exprName, idx, "left", n.Left); err != nil {
		return err
	}
	if err := b.requireChild(exprName, idx, "right", n.Right); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Left, ""); err != nil {
		return err
	}
	if err := b.compileNode(exprName, n.Right, ""); err != nil {
		return err
	}
	b.emit(exprName, Instruction{Op: OutputResult})
	return nil
}
