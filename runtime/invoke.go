package runtime

import (
	"github.com/pkg/errors"

	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

// execResolve looks up a binding for the symbol named in instr.A: first in
// the current input (if it is a List keyed by this symbol, or a Pair whose
// key matches it), then via the host resolver, else Unit (spec.md §4.5).
func (i *Instance) execResolve(instr compiler.Instruction) error {
	name, ok := i.Store.Symbols.Name(instr.A)
	if !ok {
		return &InstructionError{Cursor: i.cursor, Reason: "Resolve: unknown symbol id"}
	}

	if len(i.inputs) > 0 {
		top := i.inputs[len(i.inputs)-1]
		if v, found, err := i.resolveAgainst(top, name, instr.A); err != nil {
			return err
		} else if found {
			i.pushValue(v)
			i.cursor++
			return nil
		}
	}

	if i.resolver != nil {
		if v, found := i.resolver.Resolve(name); found {
			i.pushValue(v)
			i.cursor++
			return nil
		}
	}

	i.pushValue(i.Store.PutUnit())
	i.cursor++
	return nil
}

func (i *Instance) resolveAgainst(container store.Ref, name string, id uint32) (store.Ref, bool, error) {
	t, err := i.Store.TypeOf(container)
	if err != nil {
		return 0, false, err
	}
	switch t {
	case store.TypeList:
		return i.Store.ListItemBySymbol(container, id)
	case store.TypePair:
		key, err := i.Store.PairLeft(container)
		if err != nil {
			return 0, false, err
		}
		kt, err := i.Store.TypeOf(key)
		if err != nil {
			return 0, false, err
		}
		if kt != store.TypeSymbol {
			return 0, false, nil
		}
		keyName, err := i.Store.AsString(key)
		if err != nil {
			return 0, false, err
		}
		if keyName != name {
			return 0, false, nil
		}
		v, err := i.Store.PairRight(container)
		return v, err == nil, err
	default:
		return 0, false, nil
	}
}

// execExecuteExpression jumps to exprID's address, pushing the instruction
// right after this one onto the jump-path stack so the matching
// EndExpression can return here (spec.md §4.5).
func (i *Instance) execExecuteExpression(exprID uint32) error {
	addr, ok := i.Program.ByID[exprID]
	if !ok {
		return &InstructionError{Cursor: i.cursor, Reason: "ExecuteExpression: unknown expression id"}
	}
	if err := i.pushJumpPath(i.cursor + 1); err != nil {
		return err
	}
	i.cursor = addr
	return nil
}

// execConditionalExecute implements ConditionalExecute/ResultConditionalExecute.
// The plain variant pops its condition off the value stack; the result
// variant inspects the current result register without consuming anything
// (spec.md §4.5). A zero target
// id means "no branch" — the instruction falls through.
func (i *Instance) execConditionalExecute(instr compiler.Instruction, useResult bool) error {
	var truthy bool
	if useResult {
		if !i.hasResult {
			truthy = false
		} else {
			b, err := i.Store.AsBool(i.result)
			if err != nil {
				return err
			}
			truthy = b
		}
	} else {
		v, err := i.popValue()
		if err != nil {
			return err
		}
		b, err := i.Store.AsBool(v)
		if err != nil {
			return err
		}
		truthy = b
	}

	target := instr.B
	if truthy {
		target = instr.A
	}
	if target == 0 {
		i.cursor++
		return nil
	}
	return i.execExecuteExpression(target)
}

// execPushInput pops a value and pushes it onto the input stack.
func (i *Instance) execPushInput() error {
	v, err := i.popValue()
	if err != nil {
		return err
	}
	i.inputs = append(i.inputs, v)
	i.cursor++
	return nil
}

// execPutInput reads (without popping) the top of the input stack and
// pushes it onto the value stack.
func (i *Instance) execPutInput() error {
	if len(i.inputs) == 0 {
		i.pushValue(i.Store.PutUnit())
		i.cursor++
		return nil
	}
	i.pushValue(i.inputs[len(i.inputs)-1])
	i.cursor++
	return nil
}

func (i *Instance) execPutResult() error {
	if !i.hasResult {
		i.pushValue(i.Store.PutUnit())
	} else {
		i.pushValue(i.result)
	}
	i.cursor++
	return nil
}

// execOutputResult pops the value stack and writes it into the
// current-result register.
func (i *Instance) execOutputResult() error {
	v, err := i.popValue()
	if err != nil {
		return err
	}
	i.result = v
	i.hasResult = true
	i.cursor++
	return nil
}

// execApply implements the Apply/PipeApply opcode target: pops (base,
// argument) — argument popped first — and dispatches on base's type.
// Expression bases jump the same way ExecuteExpression does, after pushing
// argument as input; Partial bases push the argument as input, then recurse
// on their own base with their bound value as the new argument, so the
// innermost partial's bound value ends on top of the input stack;
// ExternalMethod defers to the host Applier.
func (i *Instance) execApply() error {
	argument, err := i.popValue()
	if err != nil {
		return err
	}
	base, err := i.popValue()
	if err != nil {
		return err
	}
	return i.apply(base, argument)
}

func (i *Instance) apply(base, argument store.Ref) error {
	t, err := i.Store.TypeOf(base)
	if err != nil {
		return err
	}
	switch t {
	case store.TypeExpression:
		i.inputs = append(i.inputs, argument)
		id, err := expressionID(i.Store, base)
		if err != nil {
			return err
		}
		return i.execExecuteExpression(id)
	case store.TypePartial:
		pbase, err := i.Store.PartialBase(base)
		if err != nil {
			return err
		}
		pvalue, err := i.Store.PartialValue(base)
		if err != nil {
			return err
		}
		i.inputs = append(i.inputs, argument)
		return i.apply(pbase, pvalue)
	case store.TypeExternalMethod:
		if i.applier == nil {
			i.pushValue(i.Store.PutUnit())
			i.cursor++
			return nil
		}
		name, err := i.Store.AsString(base)
		if err != nil {
			return err
		}
		result, err := i.applier.Apply(name, argument)
		if err != nil {
			return err
		}
		i.pushValue(result)
		i.cursor++
		return nil
	default:
		i.pushValue(i.Store.PutUnit())
		i.cursor++
		return nil
	}
}

// expressionID reads the interned symbol id an Expression value names,
// looking it up fresh rather than via AsSymbol (which only accepts the
// Symbol tag, not Expression).
func expressionID(s *store.Store, ref store.Ref) (uint32, error) {
	name, err := s.AsString(ref)
	if err != nil {
		return 0, err
	}
	id, ok := s.Symbols.Lookup(name)
	if !ok {
		return 0, errors.Errorf("apply: expression %q has no interned symbol id", name)
	}
	return id, nil
}
