package store

// Reference operations are read-only: they never mutate Bytes or Symbols,
// and they validate every offset they follow before dereferencing it
// (spec.md §4.1, invariant I1).

func (s *Store) checkRef(r Ref) error {
	if int(r) >= len(s.Bytes) {
		return &ReferenceInvalid{Offset: r, Len: len(s.Bytes)}
	}
	return nil
}

// TypeOf reads the tag byte at ref. A byte that is not a known tag is
// ReferenceInvalid.
func (s *Store) TypeOf(ref Ref) (Type, error) {
	if err := s.checkRef(ref); err != nil {
		return 0, err
	}
	t := Type(s.Bytes[ref])
	if t > TypeSlice {
		return 0, &ReferenceInvalid{Offset: ref, Len: len(s.Bytes)}
	}
	return t, nil
}

func (s *Store) expect(ref Ref, want Type) error {
	t, err := s.TypeOf(ref)
	if err != nil {
		return err
	}
	if t != want {
		return &TypeMismatch{Expected: want, Actual: t, At: ref}
	}
	return nil
}

// AsInteger reads an Integer value.
func (s *Store) AsInteger(ref Ref) (int32, error) {
	if err := s.expect(ref, TypeInteger); err != nil {
		return 0, err
	}
	return getInt32(s.Bytes, int(ref)+1), nil
}

// AsFloat reads a Float value.
func (s *Store) AsFloat(ref Ref) (float32, error) {
	if err := s.expect(ref, TypeFloat); err != nil {
		return 0, err
	}
	return getFloat32(s.Bytes, int(ref)+1), nil
}

// AsChar reads a Character value as its UTF-8 string.
func (s *Store) AsChar(ref Ref) (string, error) {
	if err := s.expect(ref, TypeCharacter); err != nil {
		return "", err
	}
	l := int(s.Bytes[ref+1])
	return string(s.Bytes[ref+2 : ref+2+Ref(l)]), nil
}

// AsString extracts a string from a Character, CharacterList, Symbol,
// Expression, or ExternalMethod value (spec.md §4.1). For the latter three,
// the name is resolved from the symbol table; a missing binding is
// SymbolMissing.
func (s *Store) AsString(ref Ref) (string, error) {
	t, err := s.TypeOf(ref)
	if err != nil {
		return "", err
	}
	switch t {
	case TypeCharacter:
		return s.AsChar(ref)
	case TypeCharacterList:
		b, err := s.characterListBytes(ref)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case TypeSymbol, TypeExpression, TypeExternalMethod:
		id := getUint32(s.Bytes, int(ref)+1)
		name, ok := s.Symbols.Name(id)
		if !ok {
			return "", &SymbolMissing{ID: id}
		}
		return name, nil
	default:
		return "", &TypeMismatch{Expected: TypeCharacterList, Actual: t, At: ref}
	}
}

// AsSymbol reads a Symbol value's interned id.
func (s *Store) AsSymbol(ref Ref) (uint32, error) {
	if err := s.expect(ref, TypeSymbol); err != nil {
		return 0, err
	}
	return getUint32(s.Bytes, int(ref)+1), nil
}

// RangeFlags reads a Range's flag byte.
func (s *Store) RangeFlags(ref Ref) (byte, error) {
	if err := s.expect(ref, TypeRange); err != nil {
		return 0, err
	}
	return s.Bytes[ref+1], nil
}

// rangeComponentOffset returns the byte offset of the requested optional
// Range component, accounting for which earlier components are present.
func (s *Store) rangeComponentOffset(ref Ref, want byte) (off int, present bool) {
	flags := s.Bytes[ref+1]
	off = int(ref) + 2
	switch want {
	case RangeOpenStart: // asking for Start
		if flags&RangeOpenStart != 0 {
			return 0, false
		}
		return off, true
	case RangeOpenEnd: // asking for End
		if flags&RangeOpenStart == 0 {
			off += 4
		}
		if flags&RangeOpenEnd != 0 {
			return 0, false
		}
		return off, true
	case RangeHasStep: // asking for Step
		if flags&RangeOpenStart == 0 {
			off += 4
		}
		if flags&RangeOpenEnd == 0 {
			off += 4
		}
		if flags&RangeHasStep == 0 {
			return 0, false
		}
		return off, true
	}
	return 0, false
}

// RangeStart returns the Range's start reference. An open start is reported
// as present=false with a zero Ref; no Unit value is materialized for it.
func (s *Store) RangeStart(ref Ref) (r Ref, present bool, err error) {
	if err = s.expect(ref, TypeRange); err != nil {
		return 0, false, err
	}
	off, ok := s.rangeComponentOffset(ref, RangeOpenStart)
	if !ok {
		return 0, false, nil
	}
	return getRef(s.Bytes, off), true, nil
}

// RangeEnd returns the Range's end reference, or absent if open-ended.
func (s *Store) RangeEnd(ref Ref) (r Ref, present bool, err error) {
	if err = s.expect(ref, TypeRange); err != nil {
		return 0, false, err
	}
	off, ok := s.rangeComponentOffset(ref, RangeOpenEnd)
	if !ok {
		return 0, false, nil
	}
	return getRef(s.Bytes, off), true, nil
}

// RangeStep returns the Range's step reference, if present.
func (s *Store) RangeStep(ref Ref) (r Ref, present bool, err error) {
	if err = s.expect(ref, TypeRange); err != nil {
		return 0, false, err
	}
	off, ok := s.rangeComponentOffset(ref, RangeHasStep)
	if !ok {
		return 0, false, nil
	}
	return getRef(s.Bytes, off), true, nil
}

// PairLeft reads a Pair's key reference.
func (s *Store) PairLeft(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypePair); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+1), nil
}

// PairRight reads a Pair's value reference.
func (s *Store) PairRight(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypePair); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+5), nil
}

// PartialBase reads a Partial's base reference.
func (s *Store) PartialBase(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypePartial); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+1), nil
}

// PartialValue reads a Partial's applied-value reference.
func (s *Store) PartialValue(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypePartial); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+5), nil
}

// SliceSource reads a Slice's source-list reference.
func (s *Store) SliceSource(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypeSlice); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+1), nil
}

// SliceRange reads a Slice's range reference.
func (s *Store) SliceRange(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypeSlice); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+5), nil
}

// LinkHead reads a Link's first reference (slot 0).
func (s *Store) LinkHead(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypeLink); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+1), nil
}

// LinkValue reads a Link's duplicated first reference (slot 1) — the
// "first-repeat" slot preserved from the original layout (spec.md §9),
// exposed here so a caller mid-chain can fetch the head value without also
// holding a Next pointer.
func (s *Store) LinkValue(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypeLink); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+5), nil
}

// LinkNext reads a Link's second reference (slot 2), the chain's tail.
func (s *Store) LinkNext(ref Ref) (Ref, error) {
	if err := s.expect(ref, TypeLink); err != nil {
		return 0, err
	}
	return getRef(s.Bytes, int(ref)+9), nil
}

// ListLen returns a List's item count N.
func (s *Store) ListLen(ref Ref) (int, error) {
	if err := s.expect(ref, TypeList); err != nil {
		return 0, err
	}
	return int(getUint32(s.Bytes, int(ref)+1)), nil
}

// listKeyCount returns a List's key-slot count K.
func (s *Store) listKeyCount(ref Ref) int {
	return int(getUint32(s.Bytes, int(ref)+5))
}

// ListItem returns the i-th item of a List, or a Unit-like "not found"
// signal (ok=false) if i is out of bounds — the runtime substitutes Unit for
// this case to preserve total-function semantics (spec.md §4.1, §7).
func (s *Store) ListItem(ref Ref, i int) (item Ref, ok bool, err error) {
	if err = s.expect(ref, TypeList); err != nil {
		return 0, false, err
	}
	n := int(getUint32(s.Bytes, int(ref)+1))
	if i < 0 || i >= n {
		return 0, false, nil
	}
	return getRef(s.Bytes, int(ref)+9+i*4), true, nil
}

// ListItemByKey looks up a Pair-with-CharacterList-or-Symbol-key item by
// name, via the perfect-hashed key area (spec.md §4.1, invariant I3).
func (s *Store) ListItemByKey(ref Ref, name string) (value Ref, ok bool, err error) {
	if err = s.expect(ref, TypeList); err != nil {
		return 0, false, err
	}
	n := int(getUint32(s.Bytes, int(ref)+1))
	k := s.listKeyCount(ref)
	if k == 0 {
		return 0, false, nil
	}
	h := keyHash([]byte(name))
	keysOff := int(ref) + 9 + n*4
	idx := int(h % uint64(k))
	for tries := 0; tries < k; tries++ {
		slot := getRef(s.Bytes, keysOff+idx*4)
		if slot == NoRef {
			return 0, false, nil
		}
		keyRef, err := s.PairLeft(slot)
		if err != nil {
			return 0, false, err
		}
		matched, err := s.keyMatches(keyRef, name)
		if err != nil {
			return 0, false, err
		}
		if matched {
			v, err := s.PairRight(slot)
			return v, true, err
		}
		idx = (idx + 1) % k
	}
	return 0, false, nil
}

func (s *Store) keyMatches(keyRef Ref, name string) (bool, error) {
	t, err := s.TypeOf(keyRef)
	if err != nil {
		return false, err
	}
	switch t {
	case TypeSymbol:
		id := getUint32(s.Bytes, int(keyRef)+1)
		n, ok := s.Symbols.Name(id)
		return ok && n == name, nil
	case TypeCharacterList:
		b, err := s.characterListBytes(keyRef)
		if err != nil {
			return false, err
		}
		return string(b) == name, nil
	default:
		return false, nil
	}
}

// ListItemBySymbol looks up an item by interned symbol id, first trying the
// id directly as a Symbol key, then resolving id -> name -> hash to also
// find CharacterList-keyed pairs with that same name (spec.md §4.1).
func (s *Store) ListItemBySymbol(ref Ref, id uint32) (value Ref, ok bool, err error) {
	name, hasName := s.Symbols.Name(id)
	if err = s.expect(ref, TypeList); err != nil {
		return 0, false, err
	}
	n := int(getUint32(s.Bytes, int(ref)+1))
	k := s.listKeyCount(ref)
	if k == 0 || !hasName {
		return 0, false, nil
	}
	h := keyHash([]byte(name))
	keysOff := int(ref) + 9 + n*4
	idx := int(h % uint64(k))
	for tries := 0; tries < k; tries++ {
		slot := getRef(s.Bytes, keysOff+idx*4)
		if slot == NoRef {
			return 0, false, nil
		}
		keyRef, err := s.PairLeft(slot)
		if err != nil {
			return 0, false, err
		}
		kt, err := s.TypeOf(keyRef)
		if err != nil {
			return 0, false, err
		}
		if kt == TypeSymbol {
			kid := getUint32(s.Bytes, int(keyRef)+1)
			if kid == id {
				v, err := s.PairRight(slot)
				return v, true, err
			}
		} else if kt == TypeCharacterList {
			matched, err := s.keyMatches(keyRef, name)
			if err != nil {
				return 0, false, err
			}
			if matched {
				v, err := s.PairRight(slot)
				return v, true, err
			}
		}
		idx = (idx + 1) % k
	}
	return 0, false, nil
}

// AsBool interprets a store value as a boolean for logical operators: the
// :true / :false symbols are the canonical booleans, Unit is falsy, and any
// other value is truthy (spec.md §4.5).
func (s *Store) AsBool(ref Ref) (bool, error) {
	t, err := s.TypeOf(ref)
	if err != nil {
		return false, err
	}
	switch t {
	case TypeUnit:
		return false, nil
	case TypeSymbol:
		name, err := s.AsString(ref)
		if err != nil {
			return false, err
		}
		if name == "false" {
			return false, nil
		}
		return true, nil
	default:
		return true, nil
	}
}
