package runtime

import (
	"strconv"

	"github.com/garnish-lang/garnish-go/store"
)

// execTypeCast pops (value, exemplar) — exemplar popped first — reads the
// exemplar's tag to choose the target type, and pushes the converted value,
// or Unit if the conversion is undefined or fails (spec.md §4.5).
func (i *Instance) execTypeCast() error {
	exemplar, err := i.popValue()
	if err != nil {
		return err
	}
	value, err := i.popValue()
	if err != nil {
		return err
	}
	target, err := i.Store.TypeOf(exemplar)
	if err != nil {
		return err
	}
	result, err := i.cast(value, target)
	if err != nil {
		return err
	}
	i.pushValue(result)
	i.cursor++
	return nil
}

func (i *Instance) cast(value store.Ref, target store.Type) (store.Ref, error) {
	source, err := i.Store.TypeOf(value)
	if err != nil {
		return 0, err
	}
	if source == target {
		return value, nil
	}

	if target == store.TypeCharacterList {
		s, err := i.prettyPrint(value)
		if err != nil {
			return 0, err
		}
		return i.Store.PutCharacterList(s)
	}

	switch source {
	case store.TypeInteger:
		v, err := i.Store.AsInteger(value)
		if err != nil {
			return 0, err
		}
		switch target {
		case store.TypeFloat:
			return i.Store.PutFloat(float32(v)), nil
		case store.TypeCharacter:
			return i.Store.PutCharacter(string(rune(v)))
		case store.TypeSymbol:
			name, ok := i.Store.Symbols.Name(uint32(v))
			if !ok {
				return i.Store.PutUnit(), nil
			}
			return i.Store.PutSymbol(name), nil
		}
	case store.TypeFloat:
		v, err := i.Store.AsFloat(value)
		if err != nil {
			return 0, err
		}
		if target == store.TypeInteger {
			return i.Store.PutInteger(int32(v)), nil
		}
	case store.TypeCharacterList:
		s, err := i.Store.AsString(value)
		if err != nil {
			return 0, err
		}
		switch target {
		case store.TypeInteger:
			n, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return i.Store.PutUnit(), nil
			}
			return i.Store.PutInteger(int32(n)), nil
		case store.TypeFloat:
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return i.Store.PutUnit(), nil
			}
			return i.Store.PutFloat(float32(f)), nil
		case store.TypeSymbol:
			if _, ok := i.Store.Symbols.Lookup(s); !ok {
				return i.Store.PutUnit(), nil
			}
			return i.Store.PutSymbol(s), nil
		}
	}
	return i.Store.PutUnit(), nil
}

// prettyPrint renders any value as text for the any->CharacterList cast.
func (i *Instance) prettyPrint(value store.Ref) (string, error) {
	t, err := i.Store.TypeOf(value)
	if err != nil {
		return "", err
	}
	switch t {
	case store.TypeUnit:
		return "", nil
	case store.TypeInteger:
		v, err := i.Store.AsInteger(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(v), 10), nil
	case store.TypeFloat:
		v, err := i.Store.AsFloat(value)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case store.TypeCharacter, store.TypeCharacterList, store.TypeSymbol:
		return i.Store.AsString(value)
	default:
		return t.String(), nil
	}
}
