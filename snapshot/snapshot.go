// Package snapshot persists arbor hierarchies as flat item collections.
//
// The core engine deliberately has no serialization format; its complete
// state is the flat item collection plus the id counter, and saving that is
// the consumer's job. This package is one such consumer: Capture turns a
// Manager into a Snapshot, RestoreManager turns a Snapshot back into a
// validated Manager, and Store keeps snapshots in a DynamoDB table keyed by
// list name.
package snapshot

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/arbor/tree"
)

// Record is one item of a captured hierarchy: the structural fields plus
// the payload marshaled to a DynamoDB attribute value.
type Record struct {
	ID       int
	ParentID int
	Order    int
	Payload  types.AttributeValue
}

// Snapshot is a point-in-time copy of a hierarchy: every item in store
// order plus the id counter needed to resume issuing unique ids.
type Snapshot struct {
	// SnapshotID uniquely identifies this snapshot within its list.
	SnapshotID string

	// List is the consumer-chosen name of the hierarchy.
	List string

	// SavedAt is the RFC 3339 capture timestamp.
	SavedAt string

	// NextID is the manager's id counter at capture time.
	NextID int

	// Records holds the flat item collection.
	Records []Record
}

// Capture copies the manager's state into a new Snapshot, marshaling each
// payload with the attributevalue codec. The manager is not modified.
func Capture[P any](list string, m *tree.Manager[P]) (Snapshot, error) {
	snap := Snapshot{
		SnapshotID: uuid.New().String(),
		List:       list,
		SavedAt:    time.Now().UTC().Format(time.RFC3339),
		NextID:     m.NextID(),
		Records:    make([]Record, 0, m.Len()),
	}
	for _, item := range m.Items() {
		payload, err := attributevalue.Marshal(item.Payload)
		if err != nil {
			return Snapshot{}, fmt.Errorf("marshal payload of item %d: %w", item.ID, err)
		}
		snap.Records = append(snap.Records, Record{
			ID:       item.ID,
			ParentID: item.ParentID,
			Order:    item.Order,
			Payload:  payload,
		})
	}
	return snap, nil
}

// RestoreManager rebuilds a Manager from a snapshot, unmarshaling payloads
// back into P. The restored state is validated by tree.Restore; a snapshot
// that violates the structural invariants is rejected.
func RestoreManager[P any](snap Snapshot, config tree.Config) (*tree.Manager[P], error) {
	items := make([]tree.Item[P], 0, len(snap.Records))
	for _, rec := range snap.Records {
		var payload P
		if rec.Payload != nil {
			if err := attributevalue.Unmarshal(rec.Payload, &payload); err != nil {
				return nil, fmt.Errorf("unmarshal payload of item %d: %w", rec.ID, err)
			}
		}
		items = append(items, tree.Item[P]{
			ID:       rec.ID,
			ParentID: rec.ParentID,
			Order:    rec.Order,
			Payload:  payload,
		})
	}
	return tree.Restore(items, snap.NextID, config)
}
