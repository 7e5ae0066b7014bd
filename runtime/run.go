package runtime

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

// Run executes entryName's compiled expression to completion and returns its
// final result: the current-result register if OutputResult ever wrote one
// during the run, otherwise the top of the value stack (spec.md §4.5).
func (i *Instance) Run(entryName string) (store.Ref, error) {
	addr, ok := i.Program.EntryAddress(entryName)
	if !ok {
		return 0, errors.Errorf("runtime: no expression named %q", entryName)
	}
	i.cursor = addr
	if err := i.runLoop(); err != nil {
		return 0, err
	}
	if i.hasResult {
		return i.result, nil
	}
	return i.peekValue()
}

// runLoop drives the fetch-execute cycle with a recover()-to-error panic
// boundary, matching the style of a switch-per-opcode VM core (panics inside
// opcode handlers, e.g. a slice index bug, surface as an error naming the
// cursor rather than crashing the host process).
func (i *Instance) runLoop() (err error) {
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case error:
				err = errors.Wrapf(e, "runtime panic @cursor=%d", i.cursor)
			default:
				err = errors.Errorf("runtime panic @cursor=%d: %v", i.cursor, e)
			}
		}
	}()
	for i.cursor < len(i.Program.Instructions) {
		halt, err := i.step()
		if err != nil {
			return err
		}
		if halt {
			return nil
		}
	}
	return nil
}

// step executes the instruction at the cursor and advances it, returning
// true if execution should halt.
func (i *Instance) step() (bool, error) {
	instr := i.Program.Instructions[i.cursor]
	if i.log != nil {
		i.log.Debug("step", zap.Int("cursor", i.cursor), zap.Stringer("op", instr.Op),
			zap.Uint32("a", instr.A), zap.Uint32("b", instr.B))
	}
	switch instr.Op {
	case compiler.StartExpression:
		i.cursor++
		return false, nil
	case compiler.EndExpression:
		addr, ok := i.popJumpPath()
		if !ok {
			return true, nil
		}
		i.cursor = addr
		return false, nil
	case compiler.EndExecution:
		return true, nil

	case compiler.Put:
		i.pushValue(store.Ref(instr.A))
		i.cursor++
		return false, nil

	case compiler.Resolve:
		return false, i.execResolve(instr)

	case compiler.PerformAddition, compiler.PerformSubtraction, compiler.PerformMultiplication,
		compiler.PerformDivision, compiler.PerformIntegerDivision, compiler.PerformRemainder,
		compiler.PerformExponential:
		return false, i.execBinaryArithmetic(instr.Op)
	case compiler.PerformNegation, compiler.PerformAbsoluteValue:
		return false, i.execUnaryArithmetic(instr.Op)

	case compiler.PerformBitwiseAnd, compiler.PerformBitwiseOr, compiler.PerformBitwiseXor,
		compiler.PerformBitwiseLeftShift, compiler.PerformBitwiseRightShift:
		return false, i.execBinaryBitwise(instr.Op)
	case compiler.PerformBitwiseNot:
		return false, i.execUnaryBitwise()

	case compiler.PerformLogicalAnd, compiler.PerformLogicalOr, compiler.PerformLogicalXor:
		return false, i.execBinaryLogical(instr.Op)
	case compiler.PerformLogicalNot:
		return false, i.execUnaryLogical()

	case compiler.PerformEqualityComparison, compiler.PerformInequalityComparison,
		compiler.PerformLessThanComparison, compiler.PerformLessThanOrEqualComparison,
		compiler.PerformGreaterThanComparison, compiler.PerformGreaterThanOrEqualComparison,
		compiler.PerformTypeComparison:
		return false, i.execComparison(instr.Op)

	case compiler.MakePair:
		return false, i.execMakePair()
	case compiler.MakeInclusiveRange, compiler.MakeStartExclusiveRange,
		compiler.MakeEndExclusiveRange, compiler.MakeExclusiveRange:
		return false, i.execMakeRange(instr.Op)
	case compiler.MakeLink:
		return false, i.execMakeLink()
	case compiler.StartList:
		i.listMarks = append(i.listMarks, len(i.values))
		i.cursor++
		return false, nil
	case compiler.MakeList:
		return false, i.execMakeList()
	case compiler.PartiallyApply:
		return false, i.execPartiallyApply()
	case compiler.PerformApply:
		return false, i.execApply()

	case compiler.PerformTypeCast:
		return false, i.execTypeCast()
	case compiler.PerformAccess:
		return false, i.execAccess()

	case compiler.ExecuteExpression:
		return false, i.execExecuteExpression(instr.A)
	case compiler.ConditionalExecute:
		return false, i.execConditionalExecute(instr, false)
	case compiler.ResultConditionalExecute:
		return false, i.execConditionalExecute(instr, true)

	case compiler.PushInput:
		return false, i.execPushInput()
	case compiler.PutInput:
		return false, i.execPutInput()
	case compiler.PutResult:
		return false, i.execPutResult()
	case compiler.OutputResult:
		return false, i.execOutputResult()

	case compiler.Iterate, compiler.IterateToSingleResult, compiler.ReverseIterate,
		compiler.ReverseIterateToSingleResult, compiler.MultiIterate:
		return false, i.execIterate(instr.Op)
	case compiler.IterationOutput, compiler.IterationContinue, compiler.IterationSkip,
		compiler.IterationComplete:
		return true, i.execIterationControl(instr.Op)

	default:
		return false, &InstructionError{Cursor: i.cursor, Reason: "unknown opcode " + instr.Op.String()}
	}
}
