package runtime

import (
	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

// iterSignal records how the most recent invoked expression asked to affect
// its enclosing iteration (spec.md §4.5, "produced only inside iteration
// bodies and modify the enclosing iteration frame").
type iterSignal struct {
	kind  compiler.Opcode // zero value (Put) means "no signal"
	value store.Ref
	has   bool
}

// invokeExpression drives the instruction stream for a single call into
// exprID with argument pushed as input, running to completion and returning
// whatever is left on top of the value stack, without disturbing the
// caller's own cursor or jump-path depth.
func (i *Instance) invokeExpression(exprID uint32, argument store.Ref) (store.Ref, error) {
	addr, ok := i.Program.ByID[exprID]
	if !ok {
		return 0, &InstructionError{Cursor: i.cursor, Reason: "iterate: unknown expression id"}
	}
	savedCursor := i.cursor
	baseDepth := len(i.jumpPath)
	i.inputs = append(i.inputs, argument)
	i.iterSignal = iterSignal{}

	if err := i.pushJumpPath(-1); err != nil {
		return 0, err
	}
	i.cursor = addr
	for len(i.jumpPath) > baseDepth {
		halt, err := i.step()
		if err != nil {
			i.cursor = savedCursor
			return 0, err
		}
		if halt {
			break
		}
	}
	i.cursor = savedCursor
	i.inputs = i.inputs[:len(i.inputs)-1]

	if i.iterSignal.has {
		return i.iterSignal.value, nil
	}
	return i.peekValue()
}

// execIterate consumes (source, expression-ref) — expression-ref popped
// first — and invokes the expression once per element of source, collecting
// results into a new list (or, for the -SingleResult variants, the last
// invocation's result, Unit if there was none). MultiIterate behaves like Iterate but flattens one level when
// an invocation itself returns a List, letting an iteration body emit zero,
// one, or many items per source element.
func (i *Instance) execIterate(op compiler.Opcode) error {
	exprRef, err := i.popValue()
	if err != nil {
		return err
	}
	source, err := i.popValue()
	if err != nil {
		return err
	}
	exprID, err := expressionID(i.Store, exprRef)
	if err != nil {
		return err
	}

	items, err := i.sourceItems(source)
	if err != nil {
		return err
	}

	reverse := op == compiler.ReverseIterate || op == compiler.ReverseIterateToSingleResult
	if reverse {
		for l, r := 0, len(items)-1; l < r; l, r = l+1, r-1 {
			items[l], items[r] = items[r], items[l]
		}
	}

	singleResult := op == compiler.IterateToSingleResult || op == compiler.ReverseIterateToSingleResult
	var last store.Ref
	hasLast := false
	builder := i.Store.StartList()

	for _, item := range items {
		result, err := i.invokeExpression(exprID, item)
		if err != nil {
			return err
		}
		switch i.iterSignal.kind {
		case compiler.IterationSkip:
			continue
		case compiler.IterationComplete:
			last, hasLast = result, true
			if !singleResult {
				builder.AddItem(result)
			}
			goto done
		}
		last, hasLast = result, true
		if !singleResult {
			if op == compiler.MultiIterate {
				if t, _ := i.Store.TypeOf(result); t == store.TypeList {
					n, _ := i.Store.ListLen(result)
					for k := 0; k < n; k++ {
						sub, _, _ := i.Store.ListItem(result, k)
						builder.AddItem(sub)
					}
					continue
				}
			}
			builder.AddItem(result)
		}
	}
done:

	if singleResult {
		if !hasLast {
			i.pushValue(i.Store.PutUnit())
		} else {
			i.pushValue(last)
		}
		i.cursor++
		return nil
	}
	ref, err := builder.Close()
	if err != nil {
		return err
	}
	i.pushValue(ref)
	i.cursor++
	return nil
}

// sourceItems enumerates a List's items, or treats a Range's bounded
// Integer endpoints as an inclusive/exclusive sequence. Any other value is
// walked as a one-item sequence of itself.
func (i *Instance) sourceItems(source store.Ref) ([]store.Ref, error) {
	t, err := i.Store.TypeOf(source)
	if err != nil {
		return nil, err
	}
	switch t {
	case store.TypeList:
		n, err := i.Store.ListLen(source)
		if err != nil {
			return nil, err
		}
		items := make([]store.Ref, 0, n)
		for k := 0; k < n; k++ {
			item, _, err := i.Store.ListItem(source, k)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case store.TypeRange:
		return i.rangeItems(source)
	default:
		return []store.Ref{source}, nil
	}
}

func (i *Instance) rangeItems(source store.Ref) ([]store.Ref, error) {
	startRef, startOK, err := i.Store.RangeStart(source)
	if err != nil {
		return nil, err
	}
	endRef, endOK, err := i.Store.RangeEnd(source)
	if err != nil {
		return nil, err
	}
	if !startOK || !endOK {
		return nil, nil
	}
	start, err := i.Store.AsInteger(startRef)
	if err != nil {
		return nil, err
	}
	end, err := i.Store.AsInteger(endRef)
	if err != nil {
		return nil, err
	}
	flags, err := i.Store.RangeFlags(source)
	if err != nil {
		return nil, err
	}
	if flags&store.RangeStartExclusive != 0 {
		start++
	}
	if flags&store.RangeEndExclusive != 0 {
		end--
	}
	var items []store.Ref
	for v := start; v <= end; v++ {
		items = append(items, i.Store.PutInteger(v))
	}
	return items, nil
}

// execIterationControl records a signal for the invoking iteration to
// observe, then forces the current expression frame to return, mirroring
// EndExpression but carrying the signal kind/value along.
func (i *Instance) execIterationControl(op compiler.Opcode) error {
	var v store.Ref
	if op == compiler.IterationOutput || op == compiler.IterationComplete {
		popped, err := i.popValue()
		if err != nil {
			return err
		}
		v = popped
	}
	i.iterSignal = iterSignal{kind: op, value: v, has: true}
	if _, ok := i.popJumpPath(); !ok {
		return &InstructionError{Cursor: i.cursor, Reason: "iteration control opcode outside an iteration body"}
	}
	return nil
}
