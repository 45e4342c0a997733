package snapshot

import "errors"

var (
	// ErrNotFound is returned when no snapshot matches the given list and id.
	ErrNotFound = errors.New("arbor: snapshot not found")

	// ErrAlreadyExists is returned when saving a snapshot whose id is
	// already present in the list.
	ErrAlreadyExists = errors.New("arbor: snapshot already exists")
)
