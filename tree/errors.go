package tree

import "errors"

var (
	// ErrNotFound is returned when no item with the given id exists.
	ErrNotFound = errors.New("arbor: item not found")

	// ErrParentNotFound is returned when the target parent id is neither
	// RootID nor the id of an existing item.
	ErrParentNotFound = errors.New("arbor: parent item not found")

	// ErrWouldCycle is returned when a move would make an item its own
	// ancestor (the target is the item itself or one of its descendants).
	ErrWouldCycle = errors.New("arbor: move would make item its own ancestor")

	// ErrNotContainer is returned when the target parent's payload reports
	// that it cannot hold children.
	ErrNotContainer = errors.New("arbor: parent cannot hold children")

	// ErrAtBoundary is returned when a reorder is requested past the first
	// or last sibling.
	ErrAtBoundary = errors.New("arbor: item already at edge of sibling group")

	// ErrInvalidMovement is returned when a movement action is not
	// applicable at the item's current position.
	ErrInvalidMovement = errors.New("arbor: movement not applicable here")
)
