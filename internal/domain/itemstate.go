package domain

// Toggle returns the item advanced by one completion step.
//
// In two-stage mode the completed flag flips and State mirrors it.
// In three-stage mode the cycle is
// unresolved -> ongoing -> completed -> unresolved.
func (i Item) Toggle(threeStage bool) Item {
	if !threeStage {
		i.Completed = !i.Completed
		if i.Completed {
			i.State = ItemStateCompleted
		} else {
			i.State = ItemStateUnresolved
		}
		return i
	}

	switch {
	case i.Completed:
		i.Completed = false
		i.State = ItemStateUnresolved
	case i.State == ItemStateOngoing:
		i.Completed = true
		i.State = ItemStateCompleted
	default:
		i.Completed = false
		i.State = ItemStateOngoing
	}
	return i
}

// AllCompleted reports whether every item is completed and the list is
// non-empty. Used to signal the bulk reset prompt after a toggle.
func AllCompleted(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.Completed {
			return false
		}
	}
	return true
}

// ResetCompleted returns a copy of items with every completed flag cleared.
// State is intentionally left untouched; session completion only resets the
// boolean flag.
func ResetCompleted(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.Completed = false
		out[i] = item
	}
	return out
}

// ResetStates returns a copy of items with both the completed flag and the
// three-stage state reset.
func ResetStates(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		item.Completed = false
		item.State = ItemStateUnresolved
		out[i] = item
	}
	return out
}
