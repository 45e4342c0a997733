// Package tree provides a generic ordered-hierarchy manager for flat item
// collections with explicit parent references and sibling ordering.
//
// Arbor is designed for user-visible hierarchies (layer stacks, grouped
// lists, outlines) that are edited one command at a time and redrawn as an
// indented sequence of rows. Items live in a flat store and reference their
// parent by id; display order is derived, never stored.
//
// # Key Features
//
//   - Durable integer ids that survive structural mutation (never reused)
//   - Deterministic flattening into (item, depth) rows for display
//   - Cycle-safe re-parenting (ancestor-chain check, rejected moves mutate nothing)
//   - Stable sibling reordering by order swap
//   - Container/leaf distinction via an optional payload capability
//   - Movement analysis for UP/DOWN commands (into, out of, adjacent, skip)
//
// # Payloads
//
// The engine is parameterized over a payload type and never reads or
// validates payload fields. A payload may opt into the [Container]
// capability to declare whether it can hold children:
//
//	type Layer struct {
//	    Name     string
//	    IsGroup  bool
//	}
//
//	func (l Layer) CanHaveChildren() bool { return l.IsGroup }
//
// Payloads that do not implement [Container] accept children everywhere.
//
// # Concurrency
//
// A Manager assumes a single logical writer: each operation runs to
// completion before the next command is dispatched, typically by a UI event
// loop. Flattening, the cycle check, and the sibling scans are multi-step
// read sequences that are not internally atomic; callers embedding a
// Manager in a concurrent context must serialize access themselves.
//
// # Errors
//
// All operations report failure through sentinel errors and never panic:
//
//   - [ErrNotFound] - no item with the given id
//   - [ErrParentNotFound] - target parent does not exist
//   - [ErrWouldCycle] - move would make an item its own ancestor
//   - [ErrNotContainer] - target parent's payload refuses children
//   - [ErrAtBoundary] - reorder past the first or last sibling
//   - [ErrInvalidMovement] - movement action not applicable at this position
//
// Index lookups keep the conventional -1 sentinel for "no such row".
//
// # Removal and orphans
//
// RemoveItem deletes exactly one item. Descendants are neither removed nor
// reparented; they keep their now-dangling parent id and silently disappear
// from Flatten, which only walks from the root. Callers that want explicit
// cleanup should use the cascade package, which removes whole subtrees and
// finds or purges unreachable items.
package tree
