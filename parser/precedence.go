package parser

// opKind describes how a precedence-bucket classification attaches to its
// operand(s) during resolution (spec.md §4.3).
type opKind int

const (
	binary opKind = iota
	unaryLeft  // prefix: drop Left, keep Right as the sole child
	unaryRight // suffix: drop Right, keep Left as the sole child
)

type opSpec struct {
	kind      opKind
	rightAssoc bool
}

// precedence is the ~30-level table driving AST resolution, ordered
// tightest-binding first (spec.md §4.3, §9: "precedence table as data, not
// a switch ladder"). Each level lists every classification sharing that
// binding strength; the resolver processes levels in order, and within a
// level iterates node occurrences in document order (or reversed, for
// right-associative levels).
var precedence = []map[Classification]opSpec{
	{Decimal: {kind: binary}},
	{Access: {kind: binary}},
	{
		AbsoluteValue: {kind: unaryLeft, rightAssoc: true},
		Negation:      {kind: unaryLeft, rightAssoc: true},
		BitwiseNot:    {kind: unaryLeft, rightAssoc: true},
		LogicalNot:    {kind: unaryLeft, rightAssoc: true},
		PrefixApply:   {kind: unaryLeft, rightAssoc: true},
	},
	{SuffixApply: {kind: unaryRight}},
	{Exponential: {kind: binary}},
	{
		Multiplication:  {kind: binary},
		Division:        {kind: binary},
		IntegerDivision: {kind: binary},
		Remainder:       {kind: binary},
	},
	{Addition: {kind: binary}, Subtraction: {kind: binary}},
	{BitwiseLeftShift: {kind: binary}, BitwiseRightShift: {kind: binary}},
	{
		MakeInclusiveRange:      {kind: binary},
		MakeStartExclusiveRange: {kind: binary},
		MakeEndExclusiveRange:   {kind: binary},
		MakeExclusiveRange:      {kind: binary},
	},
	{
		LessThanComparison:           {kind: binary},
		LessThanOrEqualComparison:    {kind: binary},
		GreaterThanComparison:        {kind: binary},
		GreaterThanOrEqualComparison: {kind: binary},
	},
	{
		EqualityComparison:   {kind: binary},
		InequalityComparison: {kind: binary},
		TypeComparison:       {kind: binary},
	},
	{BitwiseAnd: {kind: binary}},
	{BitwiseXor: {kind: binary}},
	{BitwiseOr: {kind: binary}},
	{LogicalAnd: {kind: binary}},
	{LogicalXor: {kind: binary}},
	{LogicalOr: {kind: binary}},
	{MakeLink: {kind: binary}},
	{MakePair: {kind: binary, rightAssoc: true}},
	{ListSeparator: {kind: binary}},
	{PartiallyApply: {kind: binary}},
	{InfixApply: {kind: binary}},
	{
		ConditionalTrue:   {kind: binary},
		ConditionalFalse:  {kind: binary},
		ConditionalResult: {kind: binary},
	},
	{DefaultInvoke: {kind: binary}},
	{ConditionalContinuation: {kind: binary}},
	{Apply: {kind: binary}, PipeApply: {kind: binary}},
	{
		Iterate:                      {kind: binary},
		IterateToSingleResult:        {kind: binary},
		ReverseIterate:               {kind: binary},
		ReverseIterateToSingleResult: {kind: binary},
		MultiIterate:                 {kind: binary},
	},
	{OutputResult: {kind: binary}},
}
