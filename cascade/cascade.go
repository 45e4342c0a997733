// Package cascade provides explicit subtree removal and orphan cleanup for
// arbor hierarchies.
//
// The core engine's RemoveItem deliberately deletes a single item and leaves
// its descendants in place with dangling parent links: invisible to the
// flattened view but still occupying storage. This package is the opt-in
// counterpart for consumers that want the whole subtree gone, or that want
// to find and purge items a careless removal already stranded.
package cascade

import (
	"log/slog"

	"github.com/jacentio/arbor/tree"
)

// Sweeper performs multi-item structural cleanup on a Manager. It assumes
// the same single-writer discipline as the Manager itself.
type Sweeper[P any] struct {
	manager *tree.Manager[P]
	logger  *slog.Logger
}

// NewSweeper creates a Sweeper for the given manager. A nil logger falls
// back to slog.Default().
func NewSweeper[P any](m *tree.Manager[P], logger *slog.Logger) *Sweeper[P] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper[P]{
		manager: m,
		logger:  logger,
	}
}

// RemoveSubtree removes the item with the given id together with every
// descendant. onDelete, if non-nil, is invoked for each item just before it
// is removed, deepest items first, so consumers can release payload
// resources (images, handles) while the item is still intact. Returns
// tree.ErrNotFound when the root of the subtree does not exist.
func (s *Sweeper[P]) RemoveSubtree(id int, onDelete func(*tree.Item[P])) error {
	if _, err := s.manager.ItemByID(id); err != nil {
		return err
	}
	// The walk lists parents before children; deleting in reverse walk
	// order removes the deepest items first, so every callback still sees
	// a fully linked subtree above the item being deleted.
	doomed := s.collectSubtree(id)
	removed := 0
	for i := len(doomed) - 1; i >= 0; i-- {
		victim := doomed[i]
		item, err := s.manager.ItemByID(victim)
		if err != nil {
			continue
		}
		if onDelete != nil {
			onDelete(item)
		}
		if err := s.manager.RemoveItem(victim); err != nil {
			s.logger.Warn("failed to remove subtree item",
				"id", victim,
				"error", err,
			)
			continue
		}
		removed++
	}

	s.logger.Info("subtree removed",
		"rootID", id,
		"removed", removed,
	)
	return nil
}

// collectSubtree returns the ids of the item and all descendants via a
// breadth-first walk, parents before children.
func (s *Sweeper[P]) collectSubtree(id int) []int {
	doomed := []int{id}
	frontier := []int{id}
	for len(frontier) > 0 {
		var next []int
		for _, parent := range frontier {
			for _, item := range s.manager.Items() {
				if item.ParentID == parent {
					doomed = append(doomed, item.ID)
					next = append(next, item.ID)
				}
			}
		}
		frontier = next
	}
	return doomed
}

// Orphans returns the items that cannot reach the root sentinel by
// following parent links: the invisible leftovers of single-item removals.
// Store order, no particular ranking.
func (s *Sweeper[P]) Orphans() []*tree.Item[P] {
	var orphans []*tree.Item[P]
	for _, item := range s.manager.Items() {
		if !s.reachesRoot(item) {
			orphans = append(orphans, item)
		}
	}
	return orphans
}

func (s *Sweeper[P]) reachesRoot(item *tree.Item[P]) bool {
	for item.ParentID != tree.RootID {
		parent, err := s.manager.ItemByID(item.ParentID)
		if err != nil {
			return false
		}
		item = parent
	}
	return true
}

// PurgeOrphans removes every unreachable item, invoking onDelete for each
// one first, and returns the number removed.
func (s *Sweeper[P]) PurgeOrphans(onDelete func(*tree.Item[P])) int {
	orphans := s.Orphans()
	for _, item := range orphans {
		if onDelete != nil {
			onDelete(item)
		}
		if err := s.manager.RemoveItem(item.ID); err != nil {
			s.logger.Warn("failed to purge orphan",
				"id", item.ID,
				"error", err,
			)
		}
	}
	if len(orphans) > 0 {
		s.logger.Info("orphans purged", "count", len(orphans))
	}
	return len(orphans)
}
