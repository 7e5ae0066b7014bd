package parser

import "github.com/pkg/errors"

// LexicalNotApplicable covers token combinations the classifier cannot make
// sense of, chiefly a trailing access chain (spec.md §7, §8.3).
type LexicalNotApplicable struct {
	Pos    int
	Reason string
}

func (e *LexicalNotApplicable) Error() string {
	return errors.Errorf("lexical error at %d: %s", e.Pos, e.Reason).Error()
}

// GroupMismatch is raised when a closer does not match the kind of its
// corresponding opener (a StartExpression closed by EndGroup, or vice versa).
type GroupMismatch struct {
	OpenerPos, CloserPos int
}

func (e *GroupMismatch) Error() string {
	return errors.Errorf("group mismatch: opened at %d, mismatched close at %d", e.OpenerPos, e.CloserPos).Error()
}

// UnclosedGroup is raised when a group or expression block is still open at EOF.
type UnclosedGroup struct {
	OpenerPos int
}

func (e *UnclosedGroup) Error() string {
	return errors.Errorf("unclosed group opened at %d", e.OpenerPos).Error()
}

// UnstartedGroup is raised when a closer appears with no matching opener.
type UnstartedGroup struct {
	CloserPos int
}

func (e *UnstartedGroup) Error() string {
	return errors.Errorf("unstarted group closed at %d", e.CloserPos).Error()
}
