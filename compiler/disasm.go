package compiler

import (
	"fmt"
	"io"
)

// Disassemble writes one line per instruction in the order compiled,
// prefixing the address and, for StartExpression, the name the expression
// was compiled under. Operands that name an expression id are resolved back
// to a name when one is known, the same courtesy asm.Disassemble extends to
// label references.
func (p *Program) Disassemble(w io.Writer) error {
	names := make(map[uint32]string, len(p.ByID))
	for name, addr := range p.ByName {
		for id, a := range p.ByID {
			if a == addr {
				names[id] = name
			}
		}
	}

	for addr, instr := range p.Instructions {
		line := fmt.Sprintf("%4d  %s", addr, instr.Op)
		switch instr.Op {
		case StartExpression:
			line += fmt.Sprintf(" name=%s", exprLabel(names, instr.A))
		case Put:
			line += fmt.Sprintf(" ref=%d", instr.A)
		case Resolve:
			line += fmt.Sprintf(" sym=%d", instr.A)
		case ExecuteExpression:
			line += fmt.Sprintf(" expr=%s", exprLabel(names, instr.A))
		case ConditionalExecute, ResultConditionalExecute:
			line += fmt.Sprintf(" true=%s false=%s", exprLabel(names, instr.A), exprLabel(names, instr.B))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func exprLabel(names map[uint32]string, id uint32) string {
	if id == 0 {
		return "-"
	}
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("#%d", id)
}
