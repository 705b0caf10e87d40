package ordering

import "sort"

// Item is any sibling row participating in dense ordering. Position is the
// stored ordering value; implementations mutate their backing row when the
// collation pass repairs drift.
type Item interface {
	OrderingID() int64
	Position() int
	SetPosition(int)
}

// JoinItem is an Item whose ordering lives on an associated join record
// rather than the entity itself (e.g. selector bindings scoped to a section).
// Repairs for join items target the join record's id.
type JoinItem interface {
	Item
	JoinID() int64
}

// Repair records one pending persistence write produced by a collation pass:
// the row identified by ID must have its ordering column set to Position.
// Callers decide whether to await the writes or hand them to a background
// dispatcher.
type Repair struct {
	ID       int64
	Position int
}

// Collate sorts siblings ascending by stored position and repairs any row
// whose position does not match its index. Rows sharing a position are
// tie-broken by ascending id so the result is deterministic regardless of
// input order. The input slice is sorted in place; the returned repairs carry
// every row whose stored position was corrected.
//
// Nested hierarchical queries cannot cheaply guarantee correct order at every
// depth in one round trip, so drift introduced by writes that bypass the swap
// and delete paths is healed here, on read.
func Collate[T Item](items []T) ([]T, []Repair) {
	if len(items) == 0 {
		return []T{}, nil
	}

	sortItems(items)

	var repairs []Repair
	for i, item := range items {
		if item.Position() != i {
			item.SetPosition(i)
			repairs = append(repairs, Repair{ID: item.OrderingID(), Position: i})
		}
	}
	return items, repairs
}

// CollateIndirect behaves like Collate for join-ordered siblings: the
// position read/written through the Item methods is expected to shadow the
// join record's ordering, and the emitted repairs reference the join record
// id instead of the entity id.
func CollateIndirect[T JoinItem](items []T) ([]T, []Repair) {
	if len(items) == 0 {
		return []T{}, nil
	}

	sortItems(items)

	var repairs []Repair
	for i, item := range items {
		if item.Position() != i {
			item.SetPosition(i)
			repairs = append(repairs, Repair{ID: item.JoinID(), Position: i})
		}
	}
	return items, repairs
}

func sortItems[T Item](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Position() != b.Position() {
			return a.Position() < b.Position()
		}
		return a.OrderingID() < b.OrderingID()
	})
}
