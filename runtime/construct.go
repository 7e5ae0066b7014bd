package runtime

import (
	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

// execMakePair pops (left, right) and pushes Pair(left, right); right is
// popped first per the universal two-operand convention.
func (i *Instance) execMakePair() error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	i.pushValue(i.Store.PutPair(left, right))
	i.cursor++
	return nil
}

// execMakeRange pops (left, right) and builds the Range variant named by
// op, setting the Exclusive flags it implies; both ends are always present,
// so no Open flag is set (spec.md §3.1, §4.5).
func (i *Instance) execMakeRange(op compiler.Opcode) error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	rs := store.RangeSpec{Start: left, End: right}
	switch op {
	case compiler.MakeInclusiveRange:
	case compiler.MakeStartExclusiveRange:
		rs.StartExclusive = true
	case compiler.MakeEndExclusiveRange:
		rs.EndExclusive = true
	case compiler.MakeExclusiveRange:
		rs.StartExclusive = true
		rs.EndExclusive = true
	}
	i.pushValue(i.Store.PutRange(rs))
	i.cursor++
	return nil
}

func (i *Instance) execMakeLink() error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	i.pushValue(i.Store.PutLink(left, right))
	i.cursor++
	return nil
}

// execMakeList closes the most recently opened StartList block: everything
// pushed since the matching StartList becomes the list's items, in order.
func (i *Instance) execMakeList() error {
	if len(i.listMarks) == 0 {
		return &InstructionError{Cursor: i.cursor, Reason: "MakeList without a matching StartList"}
	}
	n := len(i.listMarks) - 1
	mark := i.listMarks[n]
	i.listMarks = i.listMarks[:n]
	if mark > len(i.values) {
		return &InstructionError{Cursor: i.cursor, Reason: "list mark beyond value stack"}
	}
	items := i.values[mark:]
	b := i.Store.StartList()
	for _, it := range items {
		b.AddItem(it)
	}
	i.values = i.values[:mark]
	ref, err := b.Close()
	if err != nil {
		return err
	}
	i.pushValue(ref)
	i.cursor++
	return nil
}

// execPartiallyApply pops (left, right) and pushes Partial(left, right): a
// base callable with one argument already bound (spec.md §3.1).
func (i *Instance) execPartiallyApply() error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	i.pushValue(i.Store.PutPartial(left, right))
	i.cursor++
	return nil
}
