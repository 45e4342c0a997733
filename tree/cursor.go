package tree

// Cursor is a consumer-owned position into the flattened view: the row
// currently considered active or selected. It is not a store position and
// not an item id, and it is invalidated by every structural mutation; the
// consumer re-derives it afterwards with CursorTo (to keep following a
// logical item) or Clamp (to stay in range).
type Cursor int

// Clamp returns the cursor forced into [0, length-1]. A cursor over an
// empty view clamps to 0.
func (c Cursor) Clamp(length int) Cursor {
	if length <= 0 || c < 0 {
		return 0
	}
	if int(c) >= length {
		return Cursor(length - 1)
	}
	return c
}

// CursorTo returns a cursor pointing at the row where the item with the
// given id is displayed, re-establishing the selection after a structural
// change. When the item is gone or orphaned the cursor falls back to the
// top row.
func CursorTo[P any](m *Manager[P], id int) Cursor {
	if idx := m.FlattenedIndexOf(id); idx != -1 {
		return Cursor(idx)
	}
	return 0
}

// ActiveID returns the id of the item under the cursor, or -1 when the
// cursor is out of range.
func ActiveID[P any](m *Manager[P], c Cursor) int {
	return m.IDAtFlattenedIndex(int(c))
}

// ActiveItem returns the item under the cursor.
func ActiveItem[P any](m *Manager[P], c Cursor) (*Item[P], error) {
	id := ActiveID(m, c)
	if id == -1 {
		return nil, ErrNotFound
	}
	return m.ItemByID(id)
}
