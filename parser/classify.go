package parser

import (
	"github.com/garnish-lang/garnish-go/token"
)

// initial is the static one-to-one token-type -> classification table
// (spec.md §4.2). Tokens whose meaning depends on neighbors are seeded here
// with their default role and fixed up during the single pass below.
var initial = map[token.Type]Classification{
	token.Number:                      Literal,
	token.Character:                   Literal,
	token.CharacterList:               Literal,
	token.Symbol:                      Literal,
	token.Identifier:                  Symbol,
	token.StartGroup:                  Literal,
	token.StartExpression:             Literal,
	token.EndGroup:                    NoOp,
	token.EndExpression:               NoOp,
	token.Comma:                       ListSeparator,
	token.ConditionalTrueOperator:     ConditionalTrue,
	token.ConditionalFalseOperator:    ConditionalFalse,
	token.ConditionalResultOperator:   ConditionalResult,
	token.PipeOperator:                PipeApply,
	token.ApplyOperator:               Apply,
	token.InfixOperator:               InfixApply,
	token.PrefixOperator:              PrefixApply,
	token.SuffixOperator:              SuffixApply,
	token.RangeOperator:               MakeInclusiveRange,
	token.StartExclusiveRangeOperator: MakeStartExclusiveRange,
	token.EndExclusiveRangeOperator:   MakeEndExclusiveRange,
	token.ExclusiveRangeOperator:      MakeExclusiveRange,
	token.IterationOperator:           Iterate,
	token.MultiIterationOperator:      MultiIterate,
	token.ReverseIterationOperator:    ReverseIterate,
	token.EqualSign:                   MakePair,
	token.Arrow:                       MakeLink,
	token.ApplyPartialOperator:        PartiallyApply,
	token.PlusSign:                    Addition,
	token.MinusSign:                   Subtraction,
	token.DotOperator:                 Access,
	token.HorizontalSpace:             NoOp,
	token.NewLine:                     NoOp,
	token.EOF:                         NoOp,
}

// isValueish reports whether a classified node can terminate an operand
// position, for the purposes of the single-pass unary/list-separator/
// newline-sequencing heuristics (spec.md §4.2 calls this "literal"; taken
// here, as the prose's "5 - 4" vs "- 4" examples require, to also include
// resolved identifiers and closed group/expression anchors).
func isValueish(c Classification) bool {
	return c == Literal || c == Symbol
}

// groupKind is the opener/closer pairing a depth frame was opened with.
type groupKind int

const (
	kindGroup groupKind = iota
	kindExpression
)

type depthFrame struct {
	prev                int // index of the last chain node at this depth
	openerIdx           int // index of the opener that introduced this depth (-1 for depth 0)
	kind                groupKind
	inAccessChain       bool
	pendingConditional  bool
	lastWasContinuation bool
}

// GroupSpan records a matched opener/closer pair by node index, used by
// Resolve to attach each group's interior root back onto its anchor.
type GroupSpan struct {
	Opener, Closer int
}

// classifier runs the single-pass token classification described in
// spec.md §4.2, keeping one small set of latched flags per nesting depth
// rather than making a second pass (§9).
type classifier struct {
	toks      []token.Token
	nodes     []Node
	frames    []depthFrame
	groups    []GroupSpan
	lastNL    bool // previous real token was a NewLine, for double-newline detection
	lastNLIdx int  // node index of that previous NewLine, if still un-reclassified (NoIndex otherwise)
}

// Classify runs the parser's single token-classification pass and returns
// the flat, chain-linked node vector (spec.md §3.3, §4.2) plus the matched
// group/expression spans. AST resolution (precedence rewriting) happens
// separately in Resolve.
func Classify(toks []token.Token) ([]Node, []GroupSpan, error) {
	toks = trim(toks)
	c := &classifier{
		toks:      toks,
		frames:    []depthFrame{{prev: NoIndex, openerIdx: NoIndex}},
		lastNLIdx: NoIndex,
	}
	for i, tok := range toks {
		if err := c.step(i, tok); err != nil {
			return nil, nil, err
		}
	}
	if len(c.frames) != 1 {
		top := c.frames[len(c.frames)-1]
		return nil, nil, &UnclosedGroup{OpenerPos: c.nodes[top.openerIdx].Token.Pos}
	}
	return c.nodes, c.groups, nil
}

func trim(toks []token.Token) []token.Token {
	isSpace := func(t token.Token) bool {
		return t.Type == token.HorizontalSpace || t.Type == token.NewLine
	}
	start := 0
	for start < len(toks) && isSpace(toks[start]) {
		start++
	}
	end := len(toks)
	for end > start && isSpace(toks[end-1]) {
		end--
	}
	return toks[start:end]
}

func (c *classifier) top() *depthFrame {
	return &c.frames[len(c.frames)-1]
}

// link appends a classified node to the chain at the current depth.
func (c *classifier) link(n Node) int {
	idx := len(c.nodes)
	c.nodes = append(c.nodes, n)
	f := c.top()
	if f.prev != NoIndex {
		c.nodes[f.prev].Right = idx
		c.nodes[idx].Left = f.prev
	}
	f.prev = idx
	return idx
}

func (c *classifier) prevClassification() Classification {
	f := c.top()
	if f.prev == NoIndex {
		return NoOp
	}
	return c.nodes[f.prev].Classification
}

func (c *classifier) step(i int, tok token.Token) error {
	if tok.Type != token.NewLine {
		c.lastNL = false
	}
	switch tok.Type {
	case token.StartGroup, token.StartExpression:
		return c.openGroup(tok)
	case token.EndGroup, token.EndExpression:
		return c.closeGroup(tok)
	case token.HorizontalSpace:
		return c.classifyHorizontalSpace(i, tok)
	case token.NewLine:
		return c.classifyNewLine(i, tok)
	case token.PlusSign:
		return c.classifyPlusMinus(tok, AbsoluteValue, Addition)
	case token.MinusSign:
		return c.classifyPlusMinus(tok, Negation, Subtraction)
	case token.DotOperator:
		return c.classifyDot(i, tok)
	case token.Comma:
		return c.classifyComma(tok)
	case token.ConditionalTrueOperator, token.ConditionalResultOperator:
		c.link(newNode(tok, initial[tok.Type]))
		c.top().pendingConditional = true
		c.top().lastWasContinuation = false
		return nil
	case token.ConditionalFalseOperator:
		return c.classifyConditionalFalse(tok)
	case token.InfixOperator:
		cl := InfixApply
		if b, ok := builtinInfix[tok.Value]; ok {
			cl = b
		}
		c.link(newNode(tok, cl))
		c.top().lastWasContinuation = false
		return nil
	case token.PrefixOperator:
		cl := PrefixApply
		if b, ok := builtinPrefix[tok.Value]; ok {
			cl = b
		}
		c.link(newNode(tok, cl))
		c.top().lastWasContinuation = false
		return nil
	default:
		c.link(newNode(tok, initial[tok.Type]))
		c.top().lastWasContinuation = false
		return nil
	}
}

func (c *classifier) openGroup(tok token.Token) error {
	idx := c.link(newNode(tok, Literal))
	kind := kindGroup
	if tok.Type == token.StartExpression {
		kind = kindExpression
	}
	c.frames = append(c.frames, depthFrame{prev: NoIndex, openerIdx: idx, kind: kind})
	return nil
}

func (c *classifier) closeGroup(tok token.Token) error {
	if len(c.frames) == 1 {
		return &UnstartedGroup{CloserPos: tok.Pos}
	}
	frame := c.frames[len(c.frames)-1]
	wantKind := kindGroup
	if tok.Type == token.EndExpression {
		wantKind = kindExpression
	}
	if frame.kind != wantKind {
		return &GroupMismatch{OpenerPos: c.nodes[frame.openerIdx].Token.Pos, CloserPos: tok.Pos}
	}
	idx := len(c.nodes)
	c.nodes = append(c.nodes, newNode(tok, NoOp))
	c.nodes[idx].Left = frame.prev
	c.frames = c.frames[:len(c.frames)-1]
	c.groups = append(c.groups, GroupSpan{Opener: frame.openerIdx, Closer: idx})
	// The opener becomes the pending tail of the parent chain; its Right
	// will be set by `link` the next time a parent-depth node arrives
	// (spec.md §4.2, "the opener's right is set to the first non-space
	// token after the closer").
	c.top().prev = frame.openerIdx
	return nil
}

func (c *classifier) classifyPlusMinus(tok token.Token, unary, binary Classification) error {
	cl := binary
	if !isValueish(c.prevClassification()) {
		cl = unary
	}
	c.link(newNode(tok, cl))
	c.top().lastWasContinuation = false
	return nil
}

func (c *classifier) classifyDot(i int, tok token.Token) error {
	f := c.top()
	left := c.prevNonSpaceIsNumber(i)
	right := i+1 < len(c.toks) && c.toks[i+1].Type == token.Number
	cl := Access
	if left && right && !f.inAccessChain {
		cl = Decimal
	} else {
		f.inAccessChain = true
	}
	c.link(newNode(tok, cl))
	f.lastWasContinuation = false
	// An access chain that never resumes with Identifier/Number/Dot and
	// instead hits EOF or a depth close is a trailing access.
	if cl == Access && i == len(c.toks)-1 {
		return &LexicalNotApplicable{Pos: tok.Pos, Reason: "trailing access"}
	}
	if cl == Access {
		nxt := c.toks[i+1]
		if nxt.Type != token.Identifier && nxt.Type != token.Number && nxt.Type != token.DotOperator {
			return &LexicalNotApplicable{Pos: tok.Pos, Reason: "trailing access"}
		}
	}
	return nil
}

func (c *classifier) prevNonSpaceIsNumber(i int) bool {
	f := c.top()
	if f.prev == NoIndex {
		return false
	}
	return c.nodes[f.prev].Token.Type == token.Number
}

func (c *classifier) classifyComma(tok token.Token) error {
	f := c.top()
	cl := ListSeparator
	if f.pendingConditional {
		cl = ConditionalContinuation
		f.pendingConditional = false
	}
	c.link(newNode(tok, cl))
	f.lastWasContinuation = cl == ConditionalContinuation
	return nil
}

func (c *classifier) classifyConditionalFalse(tok token.Token) error {
	f := c.top()
	cl := ConditionalFalse
	if f.lastWasContinuation {
		cl = DefaultInvoke
	}
	c.link(newNode(tok, cl))
	f.pendingConditional = true
	f.lastWasContinuation = false
	return nil
}

func (c *classifier) classifyHorizontalSpace(i int, tok token.Token) error {
	f := c.top()
	cl := NoOp
	if f.prev != NoIndex && i+1 < len(c.toks) {
		nxt := c.nextRealToken(i)
		if nxt != nil && isValueish(c.nodes[f.prev].Classification) && isValueish(initial[nxt.Type]) {
			cl = ListSeparator
		}
	}
	if cl == NoOp {
		c.nodes = append(c.nodes, newNode(tok, NoOp))
		return nil
	}
	c.link(newNode(tok, cl))
	f.lastWasContinuation = false
	return nil
}

// nextRealToken returns the next token after i that is not itself
// horizontal space, peeking past runs of spaces (a run of spaces behaves as
// a single separator).
func (c *classifier) nextRealToken(i int) *token.Token {
	for j := i + 1; j < len(c.toks); j++ {
		if c.toks[j].Type != token.HorizontalSpace {
			return &c.toks[j]
		}
	}
	return nil
}

func (c *classifier) classifyNewLine(i int, tok token.Token) error {
	f := c.top()
	// Inside a group (not an expression block, and not the root frame), a
	// newline never separates expressions: it becomes an unlinked NoOp.
	// Unlike horizontal space, it never becomes a ListSeparator.
	if len(c.frames) > 1 && f.kind == kindGroup {
		c.nodes = append(c.nodes, newNode(tok, NoOp))
		c.lastNL = false
		c.lastNLIdx = NoIndex
		return nil
	}
	if c.lastNL {
		// second consecutive newline: terminates the sub-expression. The
		// first newline was left as an orphaned NoOp because, at the time,
		// its lookahead hit this very newline instead of a value; retroactively
		// reclassify it as OutputResult and link it into the chain now that
		// the double-newline boundary is confirmed. This newline itself just
		// bridges the boundary as an unlinked NoOp.
		if c.lastNLIdx != NoIndex {
			c.nodes[c.lastNLIdx].Classification = OutputResult
			if f.prev != NoIndex {
				c.nodes[f.prev].Right = c.lastNLIdx
				c.nodes[c.lastNLIdx].Left = f.prev
			}
			f.prev = c.lastNLIdx
			f.lastWasContinuation = false
		}
		c.nodes = append(c.nodes, newNode(tok, NoOp))
		c.lastNLIdx = NoIndex
		return nil
	}
	terminable := f.prev != NoIndex && isValueish(c.nodes[f.prev].Classification)
	nxt := c.nextRealToken(i)
	startable := nxt != nil && isValueish(initial[nxt.Type])
	if terminable && startable {
		c.link(newNode(tok, OutputResult))
		f.lastWasContinuation = false
		c.lastNL = true
		c.lastNLIdx = NoIndex
		return nil
	}
	idx := len(c.nodes)
	c.nodes = append(c.nodes, newNode(tok, NoOp))
	c.lastNL = true
	c.lastNLIdx = idx
	return nil
}
