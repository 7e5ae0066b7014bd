package runtime

import (
	"strings"

	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

// execComparison pops (left, right) — right first — and pushes the :true or
// :false symbol (spec.md §4.5).
func (i *Instance) execComparison(op compiler.Opcode) error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}

	var r bool
	switch op {
	case compiler.PerformEqualityComparison:
		r, err = i.structuralEqual(left, right)
	case compiler.PerformInequalityComparison:
		var eq bool
		eq, err = i.structuralEqual(left, right)
		r = !eq
	case compiler.PerformLessThanComparison, compiler.PerformLessThanOrEqualComparison,
		compiler.PerformGreaterThanComparison, compiler.PerformGreaterThanOrEqualComparison:
		r, err = i.orderedCompare(op, left, right)
	case compiler.PerformTypeComparison:
		r, err = i.typeCompare(left, right)
	}
	if err != nil {
		return err
	}
	i.pushBool(r)
	i.cursor++
	return nil
}

func (i *Instance) orderedCompare(op compiler.Opcode, left, right store.Ref) (bool, error) {
	lf, li, lv, lok := i.numOperand(left)
	rf, ri, rv, rok := i.numOperand(right)
	if !lok || !rok {
		return false, nil
	}
	var a, b float64
	if lf {
		a = float64(lv)
	} else {
		a = float64(li)
	}
	if rf {
		b = float64(rv)
	} else {
		b = float64(ri)
	}
	switch op {
	case compiler.PerformLessThanComparison:
		return a < b, nil
	case compiler.PerformLessThanOrEqualComparison:
		return a <= b, nil
	case compiler.PerformGreaterThanComparison:
		return a > b, nil
	case compiler.PerformGreaterThanOrEqualComparison:
		return a >= b, nil
	}
	return false, nil
}

// typeCompare implements the `is` operator: right must be a Symbol naming a
// type (e.g. :Integer, case-insensitive), left is the value being tested.
func (i *Instance) typeCompare(left, right store.Ref) (bool, error) {
	rt, err := i.Store.TypeOf(right)
	if err != nil {
		return false, err
	}
	if rt != store.TypeSymbol {
		return false, nil
	}
	name, err := i.Store.AsString(right)
	if err != nil {
		return false, err
	}
	lt, err := i.Store.TypeOf(left)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(lt.String(), name), nil
}

// equalityTask is one pending comparison in the structural-equality work
// queue (spec.md §4.5, "queued ... for iterative recursion" — avoiding a
// recursive call per nested container so a deeply nested structure cannot
// blow the Go call stack).
type equalityTask struct {
	a, b store.Ref
}

// structuralEqual compares two store values for deep equality, using an
// explicit work queue instead of recursion (spec.md §9's equality note).
// A Character compared with a single-item CharacterList is handled as a
// special case before falling back to tag-directed structural comparison;
// a scalar and a single-item List holding it are not treated as equal.
func (i *Instance) structuralEqual(a, b store.Ref) (bool, error) {
	queue := []equalityTask{{a, b}}
	for len(queue) > 0 {
		task := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		eq, more, err := i.equalStep(task.a, task.b)
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
		queue = append(queue, more...)
	}
	return true, nil
}

func (i *Instance) equalStep(a, b store.Ref) (bool, []equalityTask, error) {
	ta, err := i.Store.TypeOf(a)
	if err != nil {
		return false, nil, err
	}
	tb, err := i.Store.TypeOf(b)
	if err != nil {
		return false, nil, err
	}

	if ta == store.TypeCharacter && tb == store.TypeCharacterList || ta == store.TypeCharacterList && tb == store.TypeCharacter {
		sa, err := i.Store.AsString(a)
		if err != nil {
			return false, nil, err
		}
		sb, err := i.Store.AsString(b)
		if err != nil {
			return false, nil, err
		}
		return sa == sb, nil, nil
	}

	if ta != tb {
		return false, nil, nil
	}

	switch ta {
	case store.TypeUnit:
		return true, nil, nil
	case store.TypeInteger, store.TypeFloat:
		lf, li, lv, _ := i.numOperand(a)
		rf, ri, rv, _ := i.numOperand(b)
		if lf != rf {
			return false, nil, nil
		}
		if lf {
			return lv == rv, nil, nil
		}
		return li == ri, nil, nil
	case store.TypeCharacter, store.TypeCharacterList, store.TypeSymbol:
		sa, err := i.Store.AsString(a)
		if err != nil {
			return false, nil, err
		}
		sb, err := i.Store.AsString(b)
		if err != nil {
			return false, nil, err
		}
		return sa == sb, nil, nil
	case store.TypeExpression, store.TypeExternalMethod:
		na, err := i.Store.AsString(a)
		if err != nil {
			return false, nil, err
		}
		nb, err := i.Store.AsString(b)
		if err != nil {
			return false, nil, err
		}
		return na == nb, nil, nil
	case store.TypePair:
		la, err := i.Store.PairLeft(a)
		if err != nil {
			return false, nil, err
		}
		ra, err := i.Store.PairRight(a)
		if err != nil {
			return false, nil, err
		}
		lb, err := i.Store.PairLeft(b)
		if err != nil {
			return false, nil, err
		}
		rb, err := i.Store.PairRight(b)
		if err != nil {
			return false, nil, err
		}
		return true, []equalityTask{{la, lb}, {ra, rb}}, nil
	case store.TypePartial:
		ba, err := i.Store.PartialBase(a)
		if err != nil {
			return false, nil, err
		}
		va, err := i.Store.PartialValue(a)
		if err != nil {
			return false, nil, err
		}
		bb, err := i.Store.PartialBase(b)
		if err != nil {
			return false, nil, err
		}
		vb, err := i.Store.PartialValue(b)
		if err != nil {
			return false, nil, err
		}
		return true, []equalityTask{{ba, bb}, {va, vb}}, nil
	case store.TypeLink:
		ha, err := i.Store.LinkHead(a)
		if err != nil {
			return false, nil, err
		}
		na, err := i.Store.LinkNext(a)
		if err != nil {
			return false, nil, err
		}
		hb, err := i.Store.LinkHead(b)
		if err != nil {
			return false, nil, err
		}
		nb, err := i.Store.LinkNext(b)
		if err != nil {
			return false, nil, err
		}
		return true, []equalityTask{{ha, hb}, {na, nb}}, nil
	case store.TypeSlice:
		sa, err := i.Store.SliceSource(a)
		if err != nil {
			return false, nil, err
		}
		rra, err := i.Store.SliceRange(a)
		if err != nil {
			return false, nil, err
		}
		sb, err := i.Store.SliceSource(b)
		if err != nil {
			return false, nil, err
		}
		rrb, err := i.Store.SliceRange(b)
		if err != nil {
			return false, nil, err
		}
		return true, []equalityTask{{sa, sb}, {rra, rrb}}, nil
	case store.TypeRange:
		return i.rangeEqual(a, b)
	case store.TypeList:
		return i.listEqual(a, b)
	default:
		return false, nil, nil
	}
}

func (i *Instance) rangeEqual(a, b store.Ref) (bool, []equalityTask, error) {
	fa, err := i.Store.RangeFlags(a)
	if err != nil {
		return false, nil, err
	}
	fb, err := i.Store.RangeFlags(b)
	if err != nil {
		return false, nil, err
	}
	if fa != fb {
		return false, nil, nil
	}
	var tasks []equalityTask
	sa, saOK, err := i.Store.RangeStart(a)
	if err != nil {
		return false, nil, err
	}
	sb, sbOK, err := i.Store.RangeStart(b)
	if err != nil {
		return false, nil, err
	}
	if saOK != sbOK {
		return false, nil, nil
	}
	if saOK {
		tasks = append(tasks, equalityTask{sa, sb})
	}
	ea, eaOK, err := i.Store.RangeEnd(a)
	if err != nil {
		return false, nil, err
	}
	eb, ebOK, err := i.Store.RangeEnd(b)
	if err != nil {
		return false, nil, err
	}
	if eaOK != ebOK {
		return false, nil, nil
	}
	if eaOK {
		tasks = append(tasks, equalityTask{ea, eb})
	}
	return true, tasks, nil
}

func (i *Instance) listEqual(a, b store.Ref) (bool, []equalityTask, error) {
	na, err := i.Store.ListLen(a)
	if err != nil {
		return false, nil, err
	}
	nb, err := i.Store.ListLen(b)
	if err != nil {
		return false, nil, err
	}
	if na != nb {
		return false, nil, nil
	}
	tasks := make([]equalityTask, 0, na)
	for k := 0; k < na; k++ {
		ia, _, err := i.Store.ListItem(a, k)
		if err != nil {
			return false, nil, err
		}
		ib, _, err := i.Store.ListItem(b, k)
		if err != nil {
			return false, nil, err
		}
		tasks = append(tasks, equalityTask{ia, ib})
	}
	return true, tasks, nil
}
