// Package store implements the byte-addressable tagged-value heap described
// in spec.md §3 and §4.1: a self-describing value store where every
// reference is an absolute byte offset, never a pointer, and every value
// beyond Unit is built depth-first in post-order so that a value's children
// always precede it in the byte stream (spec.md §4.1, "load-bearing for
// reference validity").
//
// The on-disk/in-memory layout follows db47h-ngaro's vm.Image: a flat,
// growable []byte (mirroring vm.Cell slices) addressed by absolute offset,
// with little-endian encode/decode helpers in the same spirit as
// vm/mem.go's load32/EncodeString/DecodeString.
package store

// Ref is an absolute byte offset into a Store. It is never a pointer: two
// Refs from different Stores are not comparable, and a Ref only means
// something alongside the Store it came from.
type Ref uint32

// NoRef marks an empty slot in a List's key area. Accessors that fail to
// locate a value report it through an ok/present result instead.
const NoRef Ref = 1<<32 - 1

// Type is the one-byte tag every value in the store begins with.
type Type byte

// The closed set of value tags (spec.md §3.1).
const (
	TypeUnit Type = iota
	TypeInteger
	TypeFloat
	TypeCharacter
	TypeCharacterList
	TypeSymbol
	TypeExpression
	TypeExternalMethod
	TypeRange
	TypePair
	TypePartial
	TypeLink
	TypeList
	TypeSlice
)

func (t Type) String() string {
	switch t {
	case TypeUnit:
		return "Unit"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeCharacter:
		return "Character"
	case TypeCharacterList:
		return "CharacterList"
	case TypeSymbol:
		return "Symbol"
	case TypeExpression:
		return "Expression"
	case TypeExternalMethod:
		return "ExternalMethod"
	case TypeRange:
		return "Range"
	case TypePair:
		return "Pair"
	case TypePartial:
		return "Partial"
	case TypeLink:
		return "Link"
	case TypeList:
		return "List"
	case TypeSlice:
		return "Slice"
	default:
		return "Type(?)"
	}
}

// Range flag bits (spec.md §3.1).
const (
	RangeOpenStart Cell = 1 << iota
	RangeOpenEnd
	RangeStartExclusive
	RangeEndExclusive
	RangeHasStep
)

// Cell is a small bitmask/byte type reused for range flags, matching the
// teacher's habit (vm.Cell) of naming the VM's base scalar unit.
type Cell = byte

// Store is the tagged-value heap. Bytes grows append-only within a single
// compile-and-run cycle (spec.md §3, Non-goals: no GC, no persistence); a
// host that wants a fresh heap per evaluation just creates a new Store.
type Store struct {
	Bytes   []byte
	Symbols *SymbolTable
}

// New creates an empty store with its own symbol table, "" pre-bound to id 0
// (spec.md §3.2, invariant I2).
func New() *Store {
	return &Store{
		Bytes:   make([]byte, 0, 4096),
		Symbols: NewSymbolTable(),
	}
}

// Len returns the current high-water mark of the store, i.e. the offset the
// next builder call will write to.
func (s *Store) Len() Ref {
	return Ref(len(s.Bytes))
}
