package compiler

import "github.com/garnish-lang/garnish-go/store"

// Program is the compiler's output: an immutable instruction stream plus the
// side tables needed to run it (spec.md §3.4) — a name -> address map of
// expression entry points, and an id -> address map for the same, since
// ExecuteExpression's operand is an interned symbol id rather than a name
// string.
type Program struct {
	Instructions []Instruction
	ByName       map[string]int
	ByID         map[uint32]int
	Store        *store.Store
}

// EntryAddress returns the instruction address a root expression begins
// executing at (the instruction right after its StartExpression, per
// spec.md §3.4).
func (p *Program) EntryAddress(name string) (int, bool) {
	addr, ok := p.ByName[name]
	return addr, ok
}
