package runtime

import "github.com/pkg/errors"

// InstructionError is raised for malformed bytecode: a missing operand,
// an out-of-range reference, or an unknown opcode (spec.md §4.5, §7).
type InstructionError struct {
	Cursor int
	Reason string
}

func (e *InstructionError) Error() string {
	return errors.Errorf("instruction error @%d: %s", e.Cursor, e.Reason).Error()
}

// JumpPathOverflow is raised when ExecuteExpression-family opcodes would
// push the jump-path stack past its bound (spec.md §5).
type JumpPathOverflow struct {
	Cursor int
	Bound  int
}

func (e *JumpPathOverflow) Error() string {
	return errors.Errorf("jump path overflow @%d: exceeds bound %d", e.Cursor, e.Bound).Error()
}
