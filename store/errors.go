package store

import "github.com/pkg/errors"

// OutOfBounds describes an index past a container's declared size. No
// accessor in this package returns it: ListItem reports an out-of-range
// index with ok=false instead.
type OutOfBounds struct {
	Index, Len int
}

func (e *OutOfBounds) Error() string {
	return errors.Errorf("index %d out of bounds (len %d)", e.Index, e.Len).Error()
}

// TypeMismatch is returned when an accessor expecting one tag finds another.
type TypeMismatch struct {
	Expected, Actual Type
	At               Ref
}

func (e *TypeMismatch) Error() string {
	return errors.Errorf("type mismatch at %d: expected %s, got %s", e.At, e.Expected, e.Actual).Error()
}

// SymbolMissing is returned when a symbol id or name has no binding.
type SymbolMissing struct {
	ID   uint32
	Name string
}

func (e *SymbolMissing) Error() string {
	if e.Name != "" {
		return errors.Errorf("symbol missing: %q", e.Name).Error()
	}
	return errors.Errorf("symbol missing: id %d", e.ID).Error()
}

// ReferenceInvalid is returned when a Ref points outside the store or at a
// byte that is not a valid tag.
type ReferenceInvalid struct {
	Offset Ref
	Len    int
}

func (e *ReferenceInvalid) Error() string {
	return errors.Errorf("reference %d invalid (store length %d)", e.Offset, e.Len).Error()
}
