package tree

// RootID is the reserved parent id meaning "no parent" (top level of the
// hierarchy). It is never issued as an item id.
const RootID = -1

// Item is a single node in the hierarchy. The structural fields (ID,
// ParentID, Order) are owned by the Manager; Payload is opaque to the
// engine and owned entirely by the consumer.
type Item[P any] struct {
	// ID is unique for the lifetime of the owning Manager and never reused.
	ID int

	// ParentID references another item's ID, or RootID for top-level items.
	ParentID int

	// Order ranks the item among siblings sharing the same ParentID.
	// Distinct within a parent group, not necessarily contiguous.
	Order int

	// Payload carries consumer-defined fields (name, flags, resource
	// handles). The engine neither reads nor validates it beyond the
	// optional Container capability.
	Payload P
}

// Container is an optional capability for payloads that distinguish
// container items (folders, groups) from leaves. When a payload implements
// it, AddItem and MoveItem refuse parents whose payload reports false.
type Container interface {
	// CanHaveChildren reports whether items may be nested under this one.
	CanHaveChildren() bool
}

// Row pairs an item with its depth in the flattened view. Depth is 0 for
// top-level items and increases by 1 per nesting level.
type Row[P any] struct {
	Item  *Item[P]
	Depth int
}

// Direction selects the sibling neighbor for reordering and movement.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// allowsChildren reports whether a payload accepts children. Payloads that
// do not implement Container accept children everywhere.
func allowsChildren(payload any) bool {
	if c, ok := payload.(Container); ok {
		return c.CanHaveChildren()
	}
	return true
}
