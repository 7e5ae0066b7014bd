package compiler

// Opcode is a single bytecode instruction's operation (spec.md §4.5, §6.3).
// The numeric value of each opcode is an implementation detail; the set is
// authoritative.
type Opcode byte

const (
	Put Opcode = iota
	Resolve

	PerformAddition
	PerformSubtraction
	PerformMultiplication
	PerformDivision
	PerformIntegerDivision
	PerformRemainder
	PerformExponential
	PerformNegation
	PerformAbsoluteValue

	PerformBitwiseAnd
	PerformBitwiseOr
	PerformBitwiseXor
	PerformBitwiseNot
	PerformBitwiseLeftShift
	PerformBitwiseRightShift

	PerformLogicalAnd
	PerformLogicalOr
	PerformLogicalXor
	PerformLogicalNot

	PerformEqualityComparison
	PerformInequalityComparison
	PerformLessThanComparison
	PerformLessThanOrEqualComparison
	PerformGreaterThanComparison
	PerformGreaterThanOrEqualComparison
	PerformTypeComparison

	MakePair
	MakeInclusiveRange
	MakeStartExclusiveRange
	MakeEndExclusiveRange
	MakeExclusiveRange
	MakeLink
	StartList
	MakeList
	PartiallyApply

	// PerformApply is not named as a distinct opcode in the runtime opcode
	// groups (spec.md §4.5), but the compiler section requires an "Apply"
	// target for Apply/PipeApply classifications; see DESIGN.md for how its
	// semantics were filled in.
	PerformApply

	PerformTypeCast
	PerformAccess

	ExecuteExpression
	ConditionalExecute
	ResultConditionalExecute

	PushInput
	PutInput
	PutResult
	OutputResult

	Iterate
	IterateToSingleResult
	ReverseIterate
	ReverseIterateToSingleResult
	MultiIterate

	IterationOutput
	IterationContinue
	IterationSkip
	IterationComplete

	StartExpression
	EndExpression
	EndExecution
)

var opcodeNames = [...]string{
	Put:                           "Put",
	Resolve:                       "Resolve",
	PerformAddition:               "PerformAddition",
	PerformSubtraction:            "PerformSubtraction",
	PerformMultiplication:         "PerformMultiplication",
	PerformDivision:               "PerformDivision",
	PerformIntegerDivision:        "PerformIntegerDivision",
	PerformRemainder:              "PerformRemainder",
	PerformExponential:            "PerformExponential",
	PerformNegation:               "PerformNegation",
	PerformAbsoluteValue:          "PerformAbsoluteValue",
	PerformBitwiseAnd:             "PerformBitwiseAnd",
	PerformBitwiseOr:              "PerformBitwiseOr",
	PerformBitwiseXor:             "PerformBitwiseXor",
	PerformBitwiseNot:             "PerformBitwiseNot",
	PerformBitwiseLeftShift:       "PerformBitwiseLeftShift",
	PerformBitwiseRightShift:      "PerformBitwiseRightShift",
	PerformLogicalAnd:             "PerformLogicalAnd",
	PerformLogicalOr:              "PerformLogicalOr",
	PerformLogicalXor:             "PerformLogicalXor",
	PerformLogicalNot:             "PerformLogicalNot",
	PerformEqualityComparison:     "PerformEqualityComparison",
	PerformInequalityComparison:   "PerformInequalityComparison",
	PerformLessThanComparison:     "PerformLessThanComparison",
	PerformLessThanOrEqualComparison:  "PerformLessThanOrEqualComparison",
	PerformGreaterThanComparison:      "PerformGreaterThanComparison",
	PerformGreaterThanOrEqualComparison: "PerformGreaterThanOrEqualComparison",
	PerformTypeComparison:         "PerformTypeComparison",
	MakePair:                      "MakePair",
	MakeInclusiveRange:            "MakeInclusiveRange",
	MakeStartExclusiveRange:       "MakeStartExclusiveRange",
	MakeEndExclusiveRange:         "MakeEndExclusiveRange",
	MakeExclusiveRange:            "MakeExclusiveRange",
	MakeLink:                      "MakeLink",
	StartList:                     "StartList",
	MakeList:                      "MakeList",
	PartiallyApply:                "PartiallyApply",
	PerformApply:                  "PerformApply",
	PerformTypeCast:               "PerformTypeCast",
	PerformAccess:                 "PerformAccess",
	ExecuteExpression:             "ExecuteExpression",
	ConditionalExecute:            "ConditionalExecute",
	ResultConditionalExecute:      "ResultConditionalExecute",
	PushInput:                     "PushInput",
	PutInput:                      "PutInput",
	PutResult:                     "PutResult",
	OutputResult:                  "OutputResult",
	Iterate:                       "Iterate",
	IterateToSingleResult:         "IterateToSingleResult",
	ReverseIterate:                "ReverseIterate",
	ReverseIterateToSingleResult:  "ReverseIterateToSingleResult",
	MultiIterate:                  "MultiIterate",
	IterationOutput:               "IterationOutput",
	IterationContinue:             "IterationContinue",
	IterationSkip:                 "IterationSkip",
	IterationComplete:             "IterationComplete",
	StartExpression:               "StartExpression",
	EndExpression:                 "EndExpression",
	EndExecution:                  "EndExecution",
}

func (o Opcode) String() string {
	if int(o) < len(opcodeNames) && opcodeNames[o] != "" {
		return opcodeNames[o]
	}
	return "Opcode(?)"
}

// Instruction is one entry in the compiled stream: an opcode plus up to two
// operands. Most opcodes use only A; ConditionalExecute and
// ResultConditionalExecute are the two cases needing both (spec.md §4.5
// describes them as taking a true and a false target — see DESIGN.md for
// how this reconciles with §6.3's "0 or 1 operand" framing).
type Instruction struct {
	Op Opcode
	A  uint32
	B  uint32
}
