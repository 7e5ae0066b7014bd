package store

import (
	"github.com/pkg/errors"
	"github.com/rivo/uniseg"
)

// Builders compose depth-first in post-order: a container builder writes its
// children first, then its own header referencing them by the offsets just
// returned. This is what makes every Ref valid the instant it is returned
// (spec.md §4.1).

// PutUnit appends a Unit value and returns its Ref.
func (s *Store) PutUnit() Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeUnit))
	return r
}

// PutInteger appends a signed 32-bit Integer value.
func (s *Store) PutInteger(v int32) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeInteger))
	s.Bytes = putInt32(s.Bytes, v)
	return r
}

// PutFloat appends an IEEE-754 32-bit Float value.
func (s *Store) PutFloat(v float32) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeFloat))
	s.Bytes = putFloat32(s.Bytes, v)
	return r
}

// PutCharacter appends a Character value. cluster must be exactly one
// extended grapheme cluster, 1..8 bytes of UTF-8 (spec.md §3.1, invariant
// I4); segmentation uses uniseg so multi-codepoint clusters (e.g. emoji with
// combining modifiers) are accepted as a single Character the same way a
// lexer scanning a character literal would see them.
func (s *Store) PutCharacter(cluster string) (Ref, error) {
	if cluster == "" {
		return 0, errors.New("character literal must not be empty")
	}
	first, rest := uniseg.FirstGraphemeClusterInString(cluster, -1)
	if rest != "" {
		return 0, errors.Errorf("character literal %q is not a single grapheme cluster", cluster)
	}
	if len(first) < 1 || len(first) > 8 {
		return 0, errors.Errorf("character literal %q exceeds the 8-byte grapheme budget", cluster)
	}
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeCharacter), byte(len(first)))
	s.Bytes = append(s.Bytes, first...)
	return r, nil
}

// PutCharacterListFromRefs appends a CharacterList built from Character
// values already present in the store (items must be Character Refs).
func (s *Store) PutCharacterListFromRefs(items []Ref) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeCharacterList))
	s.Bytes = putUint32(s.Bytes, uint32(len(items)))
	for _, it := range items {
		s.Bytes = putRef(s.Bytes, it)
	}
	return r
}

// PutCharacterList segments str into extended grapheme clusters, builds a
// Character value for each, and appends a CharacterList referencing them in
// order.
func (s *Store) PutCharacterList(str string) (Ref, error) {
	items := make([]Ref, 0, len(str))
	remaining := str
	for remaining != "" {
		cluster, rest := uniseg.FirstGraphemeClusterInString(remaining, -1)
		ref, err := s.PutCharacter(cluster)
		if err != nil {
			return 0, err
		}
		items = append(items, ref)
		remaining = rest
	}
	return s.PutCharacterListFromRefs(items), nil
}

// PutSymbol interns name and appends a Symbol value referencing its id.
func (s *Store) PutSymbol(name string) Ref {
	id := s.Symbols.Intern(name)
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeSymbol))
	s.Bytes = putUint32(s.Bytes, id)
	return r
}

// PutExpression interns name and appends an Expression value. Expression
// values are how the compiler's "Put Expression(name)" instruction places a
// reference to a compiled sub-expression on the value stack (spec.md §4.4).
func (s *Store) PutExpression(name string) Ref {
	id := s.Symbols.Intern(name)
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeExpression))
	s.Bytes = putUint32(s.Bytes, id)
	return r
}

// PutExternalMethod interns name and appends an ExternalMethod value, used
// for host-provided callables (spec.md §3.1).
func (s *Store) PutExternalMethod(name string) Ref {
	id := s.Symbols.Intern(name)
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeExternalMethod))
	s.Bytes = putUint32(s.Bytes, id)
	return r
}

// RangeSpec describes which of a Range's optional fields are present. A
// component is present unless the corresponding Open flag says otherwise;
// Step is present only when HasStep is set (spec.md §3.1).
type RangeSpec struct {
	OpenStart       bool
	OpenEnd         bool
	StartExclusive  bool
	EndExclusive    bool
	HasStep         bool
	Start, End, Step Ref // only read when the corresponding Open/HasStep flag allows
}

func (rs RangeSpec) flags() byte {
	var f byte
	if rs.OpenStart {
		f |= RangeOpenStart
	}
	if rs.OpenEnd {
		f |= RangeOpenEnd
	}
	if rs.StartExclusive {
		f |= RangeStartExclusive
	}
	if rs.EndExclusive {
		f |= RangeEndExclusive
	}
	if rs.HasStep {
		f |= RangeHasStep
	}
	return f
}

// PutRange appends a Range value. Children (Start/End/Step, when present)
// must already exist in the store; only the refs implied by the flags are
// written, in start, end, step order, per spec.md §3.1/§4.1.
func (s *Store) PutRange(rs RangeSpec) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeRange), rs.flags())
	if !rs.OpenStart {
		s.Bytes = putRef(s.Bytes, rs.Start)
	}
	if !rs.OpenEnd {
		s.Bytes = putRef(s.Bytes, rs.End)
	}
	if rs.HasStep {
		s.Bytes = putRef(s.Bytes, rs.Step)
	}
	return r
}

// PutPair appends a Pair(key, value).
func (s *Store) PutPair(key, value Ref) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypePair))
	s.Bytes = putRef(s.Bytes, key)
	s.Bytes = putRef(s.Bytes, value)
	return r
}

// PutPartial appends a Partial(base, appliedValue).
func (s *Store) PutPartial(base, value Ref) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypePartial))
	s.Bytes = putRef(s.Bytes, base)
	s.Bytes = putRef(s.Bytes, value)
	return r
}

// PutLink appends a Link(first, second). The tri-reference layout
// (first, first-repeat, second) is preserved verbatim from the source this
// spec was distilled from (spec.md §9); see DESIGN.md for how the accessors
// use the duplicated slot.
func (s *Store) PutLink(first, second Ref) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeLink))
	s.Bytes = putRef(s.Bytes, first)
	s.Bytes = putRef(s.Bytes, first)
	s.Bytes = putRef(s.Bytes, second)
	return r
}

// PutSlice appends a Slice(source, rng).
func (s *Store) PutSlice(source, rng Ref) Ref {
	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeSlice))
	s.Bytes = putRef(s.Bytes, source)
	s.Bytes = putRef(s.Bytes, rng)
	return r
}

// keyedEntry is a candidate for the associative key area: an item whose tag
// is Pair and whose key is a Symbol or CharacterList.
type keyedEntry struct {
	itemRef Ref
	hash    uint64
}

// ListBuilder accumulates item refs for a List under construction. Items
// must be built (and thus already present in the store) before being added,
// preserving the depth-first post-order discipline (spec.md §4.1).
type ListBuilder struct {
	s     *Store
	items []Ref
}

// StartList begins building a List.
func (s *Store) StartList() *ListBuilder {
	return &ListBuilder{s: s}
}

// AddItem appends ref as the next item of the list under construction.
func (b *ListBuilder) AddItem(ref Ref) {
	b.items = append(b.items, ref)
}

// Close writes the List header: item count N, key-slot count K, the N item
// refs in insertion order, then the K-slot open-addressed key area built by
// scanning items for Pairs keyed by Symbol or CharacterList (spec.md §4.1,
// invariant I3). Collisions probe linearly, modulo K.
func (b *ListBuilder) Close() (Ref, error) {
	s := b.s
	keyed := make([]keyedEntry, 0)
	for _, it := range b.items {
		if int(it) >= len(s.Bytes) {
			return 0, &ReferenceInvalid{Offset: it, Len: len(s.Bytes)}
		}
		if Type(s.Bytes[it]) != TypePair {
			continue
		}
		keyRef := getRef(s.Bytes, int(it)+1)
		h, ok, err := s.hashKeyRef(keyRef)
		if err != nil {
			return 0, err
		}
		if ok {
			keyed = append(keyed, keyedEntry{itemRef: it, hash: h})
		}
	}

	k := len(keyed)
	slots := make([]Ref, k)
	for i := range slots {
		slots[i] = NoRef
	}
	for _, e := range keyed {
		idx := int(e.hash % uint64(k))
		for slots[idx] != NoRef {
			idx = (idx + 1) % k
		}
		slots[idx] = e.itemRef
	}

	r := s.Len()
	s.Bytes = append(s.Bytes, byte(TypeList))
	s.Bytes = putUint32(s.Bytes, uint32(len(b.items)))
	s.Bytes = putUint32(s.Bytes, uint32(k))
	for _, it := range b.items {
		s.Bytes = putRef(s.Bytes, it)
	}
	for _, sl := range slots {
		s.Bytes = putRef(s.Bytes, sl)
	}
	return r, nil
}

// hashKeyRef returns the hash of a Pair's key if it is a Symbol or
// CharacterList, and whether it qualifies for the key area at all.
func (s *Store) hashKeyRef(keyRef Ref) (uint64, bool, error) {
	if int(keyRef) >= len(s.Bytes) {
		return 0, false, &ReferenceInvalid{Offset: keyRef, Len: len(s.Bytes)}
	}
	switch Type(s.Bytes[keyRef]) {
	case TypeSymbol:
		id := getUint32(s.Bytes, int(keyRef)+1)
		name, ok := s.Symbols.Name(id)
		if !ok {
			return 0, false, &SymbolMissing{ID: id}
		}
		return keyHash([]byte(name)), true, nil
	case TypeCharacterList:
		b, err := s.characterListBytes(keyRef)
		if err != nil {
			return 0, false, err
		}
		return keyHash(b), true, nil
	default:
		return 0, false, nil
	}
}

// characterListBytes decodes a CharacterList's content back into raw UTF-8
// bytes, used both for key hashing and for AsString.
func (s *Store) characterListBytes(ref Ref) ([]byte, error) {
	if Type(s.Bytes[ref]) != TypeCharacterList {
		return nil, &TypeMismatch{Expected: TypeCharacterList, Actual: Type(s.Bytes[ref]), At: ref}
	}
	n := int(getUint32(s.Bytes, int(ref)+1))
	out := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		itemRef := getRef(s.Bytes, int(ref)+5+i*4)
		if Type(s.Bytes[itemRef]) != TypeCharacter {
			return nil, &TypeMismatch{Expected: TypeCharacter, Actual: Type(s.Bytes[itemRef]), At: itemRef}
		}
		l := int(s.Bytes[itemRef+1])
		out = append(out, s.Bytes[itemRef+2:itemRef+2+Ref(l)]...)
	}
	return out, nil
}
