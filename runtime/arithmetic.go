package runtime

import (
	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

// numOperand reads a value as either an Integer or a Float, reporting which.
// Anything else is not numeric.
func (i *Instance) numOperand(ref store.Ref) (asFloat bool, iv int32, fv float32, ok bool) {
	ty, err := i.Store.TypeOf(ref)
	if err != nil {
		return false, 0, 0, false
	}
	switch ty {
	case store.TypeInteger:
		v, err := i.Store.AsInteger(ref)
		if err != nil {
			return false, 0, 0, false
		}
		return false, v, 0, true
	case store.TypeFloat:
		v, err := i.Store.AsFloat(ref)
		if err != nil {
			return false, 0, 0, false
		}
		return true, 0, v, true
	default:
		return false, 0, 0, false
	}
}

// execBinaryArithmetic pops (left, right) — right was pushed last, so it is
// popped first (spec.md §4.5) — computes in the promoted type (Float if
// either operand is Float), and pushes the result. Type mismatches and
// division by zero are non-fatal: they push Unit rather than aborting
// (spec.md §4.5 failure model).
func (i *Instance) execBinaryArithmetic(op compiler.Opcode) error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	lf, li, lv, lok := i.numOperand(left)
	rf, ri, rv, rok := i.numOperand(right)
	if !lok || !rok {
		i.pushValue(i.Store.PutUnit())
		i.cursor++
		return nil
	}
	useFloat := lf || rf
	var result store.Ref
	if useFloat {
		a, b := lv, rv
		if !lf {
			a = float32(li)
		}
		if !rf {
			b = float32(ri)
		}
		fr, ok := floatOp(op, a, b)
		if !ok {
			result = i.Store.PutUnit()
		} else {
			result = i.Store.PutFloat(fr)
		}
	} else {
		ir, ok := intOp(op, li, ri)
		if !ok {
			result = i.Store.PutUnit()
		} else {
			result = i.Store.PutInteger(ir)
		}
	}
	i.pushValue(result)
	i.cursor++
	return nil
}

func intOp(op compiler.Opcode, a, b int32) (int32, bool) {
	switch op {
	case compiler.PerformAddition:
		return a + b, true
	case compiler.PerformSubtraction:
		return a - b, true
	case compiler.PerformMultiplication:
		return a * b, true
	case compiler.PerformDivision, compiler.PerformIntegerDivision:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case compiler.PerformRemainder:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case compiler.PerformExponential:
		return intPow(a, b), true
	}
	return 0, false
}

func intPow(base, exp int32) int32 {
	if exp < 0 {
		return 0
	}
	result := int32(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func floatOp(op compiler.Opcode, a, b float32) (float32, bool) {
	switch op {
	case compiler.PerformAddition:
		return a + b, true
	case compiler.PerformSubtraction:
		return a - b, true
	case compiler.PerformMultiplication:
		return a * b, true
	case compiler.PerformDivision, compiler.PerformIntegerDivision:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case compiler.PerformRemainder:
		if b == 0 {
			return 0, false
		}
		return float32(int64(a) % int64(b)), true
	case compiler.PerformExponential:
		return floatPow(a, b), true
	}
	return 0, false
}

func floatPow(base, exp float32) float32 {
	result := float32(1)
	n := int(exp)
	for k := 0; k < n; k++ {
		result *= base
	}
	return result
}

// execUnaryArithmetic handles Negation and AbsoluteValue: emit right, then
// opcode (spec.md §4.4), so only one operand is popped.
func (i *Instance) execUnaryArithmetic(op compiler.Opcode) error {
	v, err := i.popValue()
	if err != nil {
		return err
	}
	isFloat, iv, fv, ok := i.numOperand(v)
	if !ok {
		i.pushValue(i.Store.PutUnit())
		i.cursor++
		return nil
	}
	var result store.Ref
	switch op {
	case compiler.PerformNegation:
		if isFloat {
			result = i.Store.PutFloat(-fv)
		} else {
			result = i.Store.PutInteger(-iv)
		}
	case compiler.PerformAbsoluteValue:
		if isFloat {
			if fv < 0 {
				fv = -fv
			}
			result = i.Store.PutFloat(fv)
		} else {
			if iv < 0 {
				iv = -iv
			}
			result = i.Store.PutInteger(iv)
		}
	}
	i.pushValue(result)
	i.cursor++
	return nil
}

func (i *Instance) execBinaryBitwise(op compiler.Opcode) error {
	right, err := i.popValue()
	if err != nil {
		return err
	}
	left, err := i.popValue()
	if err != nil {
		return err
	}
	_, li, _, lok := i.numOperand(left)
	_, ri, _, rok := i.numOperand(right)
	if !lok || !rok {
		i.pushValue(i.Store.PutUnit())
		i.cursor++
		return nil
	}
	var r int32
	switch op {
	case compiler.PerformBitwiseAnd:
		r = li & ri
	case compiler.PerformBitwiseOr:
		r = li | ri
	case compiler.PerformBitwiseXor:
		r = li ^ ri
	case compiler.PerformBitwiseLeftShift:
		r = li << uint32(ri)
	case compiler.PerformBitwiseRightShift:
		r = li >> uint32(ri)
	}
	i.pushValue(i.Store.PutInteger(r))
	i.cursor++
	return nil
}

func (i *Instance) execUnaryBitwise() error {
	v, err := i.popValue()
	if err != nil {
		return err
	}
	_, iv, _, ok := i.numOperand(v)
	if !ok {
		i.pushValue(i.Store.PutUnit())
		i.cursor++
		return nil
	}
	i.pushValue(i.Store.PutInteger(^iv))
	i.cursor++
	return nil
}
