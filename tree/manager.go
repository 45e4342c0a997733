package tree

import (
	"fmt"
	"sort"

	"github.com/jacentio/arbor/internal/order"
)

// Manager owns a flat collection of items and the algorithms that keep it a
// valid ordered hierarchy: id allocation, lookup, flattening, cycle-safe
// re-parenting and sibling reordering.
type Manager[P any] struct {
	items  []*Item[P]
	nextID int
	config Config
}

// New creates a Manager with default configuration.
func New[P any]() *Manager[P] {
	return NewWithConfig[P](DefaultConfig())
}

// NewWithConfig creates a Manager with the given configuration.
func NewWithConfig[P any](config Config) *Manager[P] {
	config.validate()
	return &Manager[P]{
		items:  make([]*Item[P], 0, config.Capacity),
		config: config,
	}
}

// Restore rebuilds a Manager from a previously serialized flat collection
// and id counter. The input is validated: structural invariants must hold
// and nextID must exceed every item id, so that restored managers never
// reissue an id.
func Restore[P any](items []Item[P], nextID int, config Config) (*Manager[P], error) {
	config.validate()
	m := &Manager[P]{
		items:  make([]*Item[P], 0, len(items)),
		nextID: nextID,
		config: config,
	}
	for i := range items {
		it := items[i]
		if it.ID >= nextID {
			return nil, fmt.Errorf("arbor: restore: item id %d not below next id %d", it.ID, nextID)
		}
		m.items = append(m.items, &it)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("arbor: restore: %w", err)
	}
	return m, nil
}

// Len returns the number of items in the store, including any orphans.
func (m *Manager[P]) Len() int {
	return len(m.items)
}

// NextID returns the id the next AddItem call will issue. Together with
// Items it is the complete serializable state of the hierarchy.
func (m *Manager[P]) NextID() int {
	return m.nextID
}

// Items returns the items in physical store order. Insertion order carries
// no display semantics; use Flatten for display order. The returned slice
// is a copy but shares item pointers with the store.
func (m *Manager[P]) Items() []*Item[P] {
	out := make([]*Item[P], len(m.items))
	copy(out, m.items)
	return out
}

// ItemByID returns the item with the given id via a linear scan. O(n), which
// is acceptable at the expected scale of tens to low hundreds of items.
func (m *Manager[P]) ItemByID(id int) (*Item[P], error) {
	if item := m.itemByID(id); item != nil {
		return item, nil
	}
	return nil, ErrNotFound
}

func (m *Manager[P]) itemByID(id int) *Item[P] {
	if id == RootID {
		return nil
	}
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// PositionOf returns the physical store position of the item with the given
// id, or -1 if no such item exists.
func (m *Manager[P]) PositionOf(id int) int {
	for i, item := range m.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// NextOrderFor returns the order an item appended under parentID would
// receive: one past the current maximum sibling order, or 0 when the parent
// has no children.
func (m *Manager[P]) NextOrderFor(parentID int) int {
	return order.Next(m.siblingOrders(parentID))
}

func (m *Manager[P]) siblingOrders(parentID int) []int {
	var orders []int
	for _, item := range m.items {
		if item.ParentID == parentID {
			orders = append(orders, item.Order)
		}
	}
	return orders
}

// childrenOf returns the direct children of parentID sorted ascending by
// order. Pass RootID for the top level.
func (m *Manager[P]) childrenOf(parentID int) []*Item[P] {
	var children []*Item[P]
	for _, item := range m.items {
		if item.ParentID == parentID {
			children = append(children, item)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Order < children[j].Order
	})
	return children
}

// AddItem creates a new item as the last child of parentID and returns its
// id. The id counter increases monotonically and ids are never reused, even
// after removals.
func (m *Manager[P]) AddItem(parentID int, payload P) (int, error) {
	if err := m.checkParent(parentID); err != nil {
		return -1, err
	}
	item := &Item[P]{
		ID:       m.nextID,
		ParentID: parentID,
		Order:    m.NextOrderFor(parentID),
		Payload:  payload,
	}
	m.items = append(m.items, item)
	m.nextID++
	return item.ID, nil
}

// AddItemAt creates a new item under parentID at the given sibling order,
// shifting existing siblings at or above that order down by one. Use
// InsertionPoint to derive a position from the active item.
func (m *Manager[P]) AddItemAt(parentID, at int, payload P) (int, error) {
	if err := m.checkParent(parentID); err != nil {
		return -1, err
	}
	m.shiftSiblings(parentID, at, RootID)
	item := &Item[P]{
		ID:       m.nextID,
		ParentID: parentID,
		Order:    at,
		Payload:  payload,
	}
	m.items = append(m.items, item)
	m.nextID++
	return item.ID, nil
}

// InsertionPoint derives the (parentID, order) a new item should take based
// on the active item: inside an open container at its top, otherwise as a
// sibling at the active item's position. With no usable active item the
// point is the top level. Feed the result to AddItemAt.
func (m *Manager[P]) InsertionPoint(activeID int) (parentID, at int) {
	active := m.itemByID(activeID)
	if active == nil {
		return RootID, 1
	}
	if c, ok := any(active.Payload).(Container); ok && c.CanHaveChildren() {
		orders := m.siblingOrders(active.ID)
		if len(orders) == 0 {
			return active.ID, 1
		}
		min := orders[0]
		for _, o := range orders[1:] {
			if o < min {
				min = o
			}
		}
		return active.ID, min
	}
	return active.ParentID, active.Order
}

// checkParent validates a prospective parent id: RootID is always valid;
// anything else must reference an existing item whose payload accepts
// children.
func (m *Manager[P]) checkParent(parentID int) error {
	if parentID == RootID {
		return nil
	}
	parent := m.itemByID(parentID)
	if parent == nil {
		return ErrParentNotFound
	}
	if !allowsChildren(any(parent.Payload)) {
		return ErrNotContainer
	}
	return nil
}

// shiftSiblings increments the order of every item under parentID whose
// order is at or above from, skipping the item with id except.
func (m *Manager[P]) shiftSiblings(parentID, from, except int) {
	for _, item := range m.items {
		if item.ID != except && item.ParentID == parentID && item.Order >= from {
			item.Order++
		}
	}
}

// MoveItem re-parents the item to newParentID, appending it as the new
// parent's last child. The move is rejected without mutation when the item
// does not exist, the parent does not exist or refuses children, or the
// target is the item itself or one of its descendants.
func (m *Manager[P]) MoveItem(id, newParentID int) error {
	item := m.itemByID(id)
	if item == nil {
		return ErrNotFound
	}
	if err := m.checkParent(newParentID); err != nil {
		return err
	}
	if err := m.checkNoCycle(id, newParentID); err != nil {
		return err
	}
	item.ParentID = newParentID
	item.Order = m.NextOrderFor(newParentID)
	return nil
}

// checkNoCycle walks the ancestor chain of target upward through parent
// links; reaching id means the move would create a cycle. The walk visits
// each ancestor at most once because the store is cycle-free before every
// move.
func (m *Manager[P]) checkNoCycle(id, target int) error {
	for cur := m.itemByID(target); cur != nil; cur = m.itemByID(cur.ParentID) {
		if cur.ID == id {
			return ErrWouldCycle
		}
	}
	return nil
}

// ReorderItem swaps the item's order with its immediate neighbor in the
// sorted sibling list. Up fails on the first sibling and any other
// direction is treated as Down, failing on the last. No other orders are
// renumbered.
func (m *Manager[P]) ReorderItem(id int, direction Direction) error {
	item := m.itemByID(id)
	if item == nil {
		return ErrNotFound
	}
	siblings := m.childrenOf(item.ParentID)
	idx := -1
	for i, s := range siblings {
		if s.ID == id {
			idx = i
			break
		}
	}
	if direction == Up {
		if idx <= 0 {
			return ErrAtBoundary
		}
		item.Order, siblings[idx-1].Order = siblings[idx-1].Order, item.Order
		return nil
	}
	if idx >= len(siblings)-1 {
		return ErrAtBoundary
	}
	item.Order, siblings[idx+1].Order = siblings[idx+1].Order, item.Order
	return nil
}

// RemoveItem deletes the item with the given id from the store by physical
// position. Descendants are neither removed nor reparented: they keep a
// dangling parent id, drop out of Flatten, and keep occupying storage. Use
// cascade.Sweeper to remove whole subtrees or purge orphans explicitly.
func (m *Manager[P]) RemoveItem(id int) error {
	pos := m.PositionOf(id)
	if pos == -1 {
		return ErrNotFound
	}
	m.items = append(m.items[:pos], m.items[pos+1:]...)
	return nil
}

// NormalizeOrders renumbers every sibling group sequentially starting from
// 1, preserving relative order. Gaps accumulate through moves and removals;
// normalizing keeps order values readable without changing the flattened
// view.
func (m *Manager[P]) NormalizeOrders() {
	groups := make(map[int][]*Item[P])
	for _, item := range m.items {
		groups[item.ParentID] = append(groups[item.ParentID], item)
	}
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Order < group[j].Order
		})
		for i, item := range group {
			item.Order = i + 1
		}
	}
}

// DepthOf returns the nesting depth of the item: 0 for top-level items,
// increasing by 1 per level. Returns -1 when the id does not exist or the
// item is unreachable from the root (a dangling ancestor link).
func (m *Manager[P]) DepthOf(id int) int {
	item := m.itemByID(id)
	if item == nil {
		return -1
	}
	depth := 0
	for item.ParentID != RootID {
		item = m.itemByID(item.ParentID)
		if item == nil {
			return -1
		}
		depth++
	}
	return depth
}

// Validate checks the structural invariants: id uniqueness, ids below the
// next-id counter, cycle-freedom, and order distinctness within every
// sibling group. Dangling parent references are legal (documented orphaning
// side effect of RemoveItem) and are not reported here; use
// cascade.Sweeper to find them.
func (m *Manager[P]) Validate() error {
	seen := make(map[int]struct{}, len(m.items))
	for _, item := range m.items {
		if item.ID == RootID {
			return fmt.Errorf("arbor: item uses reserved id %d", RootID)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("arbor: duplicate item id %d", item.ID)
		}
		seen[item.ID] = struct{}{}
		if item.ID >= m.nextID {
			return fmt.Errorf("arbor: item id %d not below next id %d", item.ID, m.nextID)
		}
	}
	for _, item := range m.items {
		steps := 0
		for cur := item; cur.ParentID != RootID; steps++ {
			if steps > len(m.items) {
				return fmt.Errorf("arbor: cycle through item id %d", item.ID)
			}
			next := m.itemByID(cur.ParentID)
			if next == nil {
				break // orphan: dangling link terminates the chain
			}
			cur = next
		}
	}
	groups := make(map[int][]int)
	for _, item := range m.items {
		groups[item.ParentID] = append(groups[item.ParentID], item.Order)
	}
	for parentID, orders := range groups {
		if !order.Distinct(orders) {
			return fmt.Errorf("arbor: duplicate sibling order under parent %d", parentID)
		}
	}
	return nil
}
