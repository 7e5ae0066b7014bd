package compiler

import "github.com/pkg/errors"

// MissingOperand is raised when a non-literal classification lacks a
// required child (spec.md §4.4, §7).
type MissingOperand struct {
	Side        string // "left", "right", or "operand"
	ParentIndex int
}

func (e *MissingOperand) Error() string {
	return errors.Errorf("missing %s operand at node %d", e.Side, e.ParentIndex).Error()
}

// InvalidLiteral is raised when a Number/Decimal token fails to parse into
// an Integer or Float.
type InvalidLiteral struct {
	Kind string
	Text string
}

func (e *InvalidLiteral) Error() string {
	return errors.Errorf("invalid %s literal %q", e.Kind, e.Text).Error()
}
