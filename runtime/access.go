package runtime

import "github.com/garnish-lang/garnish-go/store"

// execAccess pops (container, key) — key popped first — and pushes
// container[key]: list-by-index when key is Integer, list-by-symbol when
// key is Symbol, pair-left/right by :left/:right convention. Pushes Unit
// when nothing matches (spec.md §4.5).
func (i *Instance) execAccess() error {
	key, err := i.popValue()
	if err != nil {
		return err
	}
	container, err := i.popValue()
	if err != nil {
		return err
	}
	result, err := i.access(container, key)
	if err != nil {
		return err
	}
	i.pushValue(result)
	i.cursor++
	return nil
}

func (i *Instance) access(container, key store.Ref) (store.Ref, error) {
	ct, err := i.Store.TypeOf(container)
	if err != nil {
		return 0, err
	}
	kt, err := i.Store.TypeOf(key)
	if err != nil {
		return 0, err
	}

	switch ct {
	case store.TypeList:
		switch kt {
		case store.TypeInteger:
			idx, err := i.Store.AsInteger(key)
			if err != nil {
				return 0, err
			}
			item, ok, err := i.Store.ListItem(container, int(idx))
			if err != nil {
				return 0, err
			}
			if !ok {
				return i.Store.PutUnit(), nil
			}
			return item, nil
		case store.TypeSymbol:
			id, err := i.Store.AsSymbol(key)
			if err != nil {
				return 0, err
			}
			value, ok, err := i.Store.ListItemBySymbol(container, id)
			if err != nil {
				return 0, err
			}
			if !ok {
				return i.Store.PutUnit(), nil
			}
			return value, nil
		default:
			return i.Store.PutUnit(), nil
		}
	case store.TypePair:
		if kt != store.TypeSymbol {
			return i.Store.PutUnit(), nil
		}
		name, err := i.Store.AsString(key)
		if err != nil {
			return 0, err
		}
		switch name {
		case "left":
			return i.Store.PairLeft(container)
		case "right":
			return i.Store.PairRight(container)
		default:
			return i.Store.PutUnit(), nil
		}
	default:
		return i.Store.PutUnit(), nil
	}
}
