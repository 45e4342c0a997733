package tree

// Flatten returns the displayable projection of the hierarchy: a depth-first
// pre-order walk from the root where each level visits children ascending by
// order. This is the single source of truth for display order and for the
// row-index to item mapping.
//
// The view is recomputed on every call, costing a sort per level; callers
// needing several sequential lookups should hold on to one result. Items
// unreachable from the root (orphans) are excluded.
func (m *Manager[P]) Flatten() []Row[P] {
	rows := make([]Row[P], 0, len(m.items))
	m.collect(RootID, 0, &rows)
	return rows
}

func (m *Manager[P]) collect(parentID, depth int, rows *[]Row[P]) {
	for _, child := range m.childrenOf(parentID) {
		*rows = append(*rows, Row[P]{Item: child, Depth: depth})
		m.collect(child.ID, depth+1, rows)
	}
}

// IDAtFlattenedIndex returns the id of the item displayed at row i, or -1
// when i is out of range.
func (m *Manager[P]) IDAtFlattenedIndex(i int) int {
	rows := m.Flatten()
	if i < 0 || i >= len(rows) {
		return -1
	}
	return rows[i].Item.ID
}

// FlattenedIndexOf returns the row at which the item with the given id is
// displayed, or -1 when the item does not exist or is an orphan. Row
// positions are not stable across structural mutations; re-derive after
// every add, remove, move or reorder.
func (m *Manager[P]) FlattenedIndexOf(id int) int {
	for i, row := range m.Flatten() {
		if row.Item.ID == id {
			return i
		}
	}
	return -1
}

// NextSiblingRow returns the index of the first row after i that sits at the
// same or a shallower depth, skipping over the subtree rooted at row i.
// Returns -1 when row i is the last item at its level.
func NextSiblingRow[P any](rows []Row[P], i int) int {
	if i < 0 || i >= len(rows) {
		return -1
	}
	for j := i + 1; j < len(rows); j++ {
		if rows[j].Depth <= rows[i].Depth {
			return j
		}
	}
	return -1
}
