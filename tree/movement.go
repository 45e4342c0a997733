package tree

// MoveAction identifies one way an item can move in response to an UP or
// DOWN command. Which actions apply depends on what surrounds the item in
// the flattened view; MovementOptions computes the applicable set.
type MoveAction int

const (
	// MoveInto nests the item at the bottom of the container above it (UP).
	MoveInto MoveAction = iota
	// MoveIntoTop nests the item at the top of the container below it (DOWN).
	MoveIntoTop
	// MoveAdjacent moves the item next to a neighbor in a different parent.
	MoveAdjacent
	// MoveOut lifts the item out of its parent, placing it before the
	// parent (UP).
	MoveOut
	// MoveOutBottom lifts the item out of its parent, placing it after the
	// parent group (DOWN).
	MoveOutBottom
	// Skip swaps sibling orders with the immediate neighbor.
	Skip
)

func (a MoveAction) String() string {
	switch a {
	case MoveInto:
		return "move-into"
	case MoveIntoTop:
		return "move-into-top"
	case MoveAdjacent:
		return "move-adjacent"
	case MoveOut:
		return "move-out"
	case MoveOutBottom:
		return "move-out-bottom"
	case Skip:
		return "skip"
	}
	return "unknown"
}

// MovementOption is one applicable movement for an item. TargetID names the
// item the action is relative to: the container entered for MoveInto and
// MoveIntoTop, the neighbor for MoveAdjacent, the parent being left for
// MoveOut and MoveOutBottom. Skip has no target (RootID). The engine leaves
// rendering labels for these options to the consumer, which owns the
// payloads.
type MovementOption struct {
	Action   MoveAction
	TargetID int
}

// MovementOptions analyzes the flattened view and returns the movements
// available to the item in the given direction, in menu order. An empty
// result means the command is a no-op at this position.
func (m *Manager[P]) MovementOptions(id int, direction Direction) []MovementOption {
	item := m.itemByID(id)
	if item == nil {
		return nil
	}
	rows := m.Flatten()
	idx := -1
	for i, row := range rows {
		if row.Item.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil // orphan, not displayed
	}

	var options []MovementOption
	if direction == Up {
		if idx == 0 {
			return nil
		}
		above := rows[idx-1].Item
		if above.ID == item.ParentID {
			// Directly under the parent's own row: leaving the parent is
			// the only sensible move.
			return []MovementOption{{Action: MoveOut, TargetID: above.ID}}
		}
		if allowsChildren(above.Payload) {
			options = append(options, MovementOption{Action: MoveInto, TargetID: above.ID})
		}
		if above.ParentID != item.ParentID {
			options = append(options, MovementOption{Action: MoveAdjacent, TargetID: above.ID})
		}
		options = append(options, MovementOption{Action: Skip, TargetID: RootID})
		return options
	}

	next := NextSiblingRow(rows, idx)
	if next == -1 {
		if item.ParentID != RootID {
			return []MovementOption{{Action: MoveOutBottom, TargetID: item.ParentID}}
		}
		return nil
	}
	nextItem := rows[next].Item
	if allowsChildren(nextItem.Payload) {
		options = append(options, MovementOption{Action: MoveIntoTop, TargetID: nextItem.ID})
	}
	if nextItem.ParentID != item.ParentID {
		options = append(options, MovementOption{Action: MoveAdjacent, TargetID: nextItem.ID})
	}
	options = append(options, MovementOption{Action: Skip, TargetID: RootID})
	return options
}

// ExecuteMovement performs one of the actions reported by MovementOptions.
// The target is re-derived from the current flattened view, never taken
// from the caller, so a stale action degrades to ErrInvalidMovement rather
// than moving the wrong item. When Config.NormalizeAfterMovement is set,
// sibling orders are renumbered after a successful move.
func (m *Manager[P]) ExecuteMovement(id int, direction Direction, action MoveAction) error {
	item := m.itemByID(id)
	if item == nil {
		return ErrNotFound
	}
	if err := m.executeMovement(item, direction, action); err != nil {
		return err
	}
	if m.config.NormalizeAfterMovement {
		m.NormalizeOrders()
	}
	return nil
}

func (m *Manager[P]) executeMovement(item *Item[P], direction Direction, action MoveAction) error {
	if action == MoveOut || action == MoveOutBottom {
		parent := m.itemByID(item.ParentID)
		if parent == nil {
			return ErrInvalidMovement
		}
		return m.moveOutOfParent(item, parent, direction)
	}
	if action == Skip {
		return m.ReorderItem(item.ID, direction)
	}

	rows := m.Flatten()
	idx := -1
	for i, row := range rows {
		if row.Item.ID == item.ID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrInvalidMovement
	}

	if direction == Up {
		if idx == 0 {
			return ErrInvalidMovement
		}
		target := rows[idx-1].Item
		switch action {
		case MoveInto:
			return m.moveIntoContainer(item, target, false)
		case MoveAdjacent:
			return m.moveAdjacent(item, target, Up)
		}
		return ErrInvalidMovement
	}

	next := NextSiblingRow(rows, idx)
	if next == -1 {
		return ErrInvalidMovement
	}
	target := rows[next].Item
	switch action {
	case MoveIntoTop:
		return m.moveIntoContainer(item, target, true)
	case MoveAdjacent:
		return m.moveAdjacent(item, target, Down)
	}
	return ErrInvalidMovement
}

// moveOutOfParent lifts the item to its grandparent level. Moving up places
// it at the parent's position, shifting the parent and later siblings down;
// moving down appends it after the grandparent's children.
func (m *Manager[P]) moveOutOfParent(item, parent *Item[P], direction Direction) error {
	grandparentID := parent.ParentID
	if direction == Up {
		at := parent.Order // capture before the shift bumps the parent too
		m.shiftSiblings(grandparentID, at, item.ID)
		item.ParentID = grandparentID
		item.Order = at
		return nil
	}
	item.ParentID = grandparentID
	item.Order = m.NextOrderFor(grandparentID)
	return nil
}

// moveIntoContainer nests the item inside target, at the top (order 0 after
// shifting existing children) or at the bottom.
func (m *Manager[P]) moveIntoContainer(item, target *Item[P], top bool) error {
	if !allowsChildren(target.Payload) {
		return ErrNotContainer
	}
	if err := m.checkNoCycle(item.ID, target.ID); err != nil {
		return err
	}
	if top {
		m.shiftSiblings(target.ID, 0, item.ID)
		item.ParentID = target.ID
		item.Order = 0
		return nil
	}
	item.ParentID = target.ID
	item.Order = m.NextOrderFor(target.ID)
	return nil
}

// moveAdjacent makes the item a sibling of target, directly after it when
// moving up and directly before it when moving down. Siblings beyond the
// insertion point shift by one so orders stay distinct.
func (m *Manager[P]) moveAdjacent(item, target *Item[P], direction Direction) error {
	if err := m.checkNoCycle(item.ID, target.ParentID); err != nil {
		return err
	}
	if direction == Up {
		m.shiftSiblings(target.ParentID, target.Order+1, item.ID)
		item.ParentID = target.ParentID
		item.Order = target.Order + 1
		return nil
	}
	m.shiftSiblings(target.ParentID, target.Order, item.ID)
	item.ParentID = target.ParentID
	item.Order = target.Order
	return nil
}
