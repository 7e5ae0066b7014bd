package runtime

import (
	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

func (i *Instance) trueRef() store.Ref {
	if i.boolTrue == 0 && !i.boolTrueSet {
		i.boolTrue = i.Store.PutSymbol("true")
		i.boolTrueSet = true
	}
	return i.boolTrue
}

func (i *Instance) falseRef() store.Ref {
	if i.boolFalse == 0 && !i.boolFalseSet {
		i.boolFalse = i.Store.PutSymbol("false")
		i.boolFalseSet = true
	}
	return i.boolFalse
}

func (i *Instance) pushBool(b bool) {
	if b {
		i.pushValue(i.trueRef())
	} else {
		i.pushValue(i.falseRef())
	}
}

func (i *Instance) execBinaryLogical(op compiler.Opcode) error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	lb, err := i.Store.AsBool(left)
	if err != nil {
		return err
	}
	rb, err := i.Store.AsBool(right)
	if err != nil {
		return err
	}
	var r bool
	switch op {
	case compiler.PerformLogicalAnd:
		r = lb && rb
	case compiler.PerformLogicalOr:
		r = lb || rb
	case compiler.PerformLogicalXor:
		r = lb != rb
	}
	i.pushBool(r)
	i.cursor++
	return nil
}

func (i *Instance) execUnaryLogical() error {
	v, err := i.popValue()
	if err != nil {
		return err
	}
	b, err := i.Store.AsBool(v)
	if err != nil {
		return err
	}
	i.pushBool(!b)
	i.cursor++
	return nil
}
