package snapshot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Config holds configuration for the Store.
type Config struct {
	// TableName is the DynamoDB table holding snapshots.
	// Default: "arbor_snapshots"
	TableName string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TableName: "arbor_snapshots",
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.TableName == "" {
		c.TableName = "arbor_snapshots"
	}
}

// Store keeps snapshots in a single DynamoDB table. The partition key is
// the list name, the sort key orders snapshots by capture time so the
// newest snapshot is one descending query away.
//
// Table schema: pk (S) partition key, sk (S) sort key. sk is
// "<saved_at>#<snapshot_id>"; RFC 3339 timestamps sort lexicographically.
type Store struct {
	client *dynamodb.Client
	config Config
}

// NewStore creates a Store backed by the given DynamoDB client.
func NewStore(client *dynamodb.Client, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

func listPK(list string) string {
	return "list#" + list
}

func snapshotSK(snap Snapshot) string {
	return snap.SavedAt + "#" + snap.SnapshotID
}

// Save writes a snapshot. Fails with ErrAlreadyExists when a snapshot with
// the same capture time and id is already stored for the list.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	item, err := marshalSnapshot(snap)
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.config.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(sk)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Load retrieves a snapshot by list and snapshot id, returning ErrNotFound
// when absent.
func (s *Store) Load(ctx context.Context, list, snapshotID string) (Snapshot, error) {
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		FilterExpression:       aws.String("snapshot_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: listPK(list)},
			":id": &types.AttributeValueMemberS{Value: snapshotID},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		for _, raw := range page.Items {
			return unmarshalSnapshot(raw)
		}
	}
	return Snapshot{}, ErrNotFound
}

// Latest retrieves the most recently captured snapshot for a list,
// returning ErrNotFound when the list has none.
func (s *Store) Latest(ctx context.Context, list string) (Snapshot, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: listPK(list)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return Snapshot{}, err
	}
	if len(result.Items) == 0 {
		return Snapshot{}, ErrNotFound
	}
	return unmarshalSnapshot(result.Items[0])
}

// Info describes a stored snapshot without its records.
type Info struct {
	SnapshotID string
	SavedAt    string
	ItemCount  int
}

// List returns metadata for every snapshot of a list, oldest first.
func (s *Store) List(ctx context.Context, list string) ([]Info, error) {
	var infos []Info
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.config.TableName),
		KeyConditionExpression: aws.String("pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: listPK(list)},
		},
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range page.Items {
			infos = append(infos, Info{
				SnapshotID: getStringAttr(raw, "snapshot_id"),
				SavedAt:    getStringAttr(raw, "saved_at"),
				ItemCount:  len(getListAttr(raw, "records")),
			})
		}
	}
	return infos, nil
}

// marshalSnapshot converts a snapshot to a DynamoDB item.
func marshalSnapshot(snap Snapshot) (map[string]types.AttributeValue, error) {
	if snap.List == "" {
		return nil, fmt.Errorf("snapshot has no list name")
	}
	records := make([]types.AttributeValue, 0, len(snap.Records))
	for _, rec := range snap.Records {
		fields := map[string]types.AttributeValue{
			"id":        &types.AttributeValueMemberN{Value: strconv.Itoa(rec.ID)},
			"parent_id": &types.AttributeValueMemberN{Value: strconv.Itoa(rec.ParentID)},
			"ord":       &types.AttributeValueMemberN{Value: strconv.Itoa(rec.Order)},
		}
		if rec.Payload != nil {
			fields["payload"] = rec.Payload
		}
		records = append(records, &types.AttributeValueMemberM{Value: fields})
	}
	return map[string]types.AttributeValue{
		"pk":          &types.AttributeValueMemberS{Value: listPK(snap.List)},
		"sk":          &types.AttributeValueMemberS{Value: snapshotSK(snap)},
		"snapshot_id": &types.AttributeValueMemberS{Value: snap.SnapshotID},
		"list":        &types.AttributeValueMemberS{Value: snap.List},
		"saved_at":    &types.AttributeValueMemberS{Value: snap.SavedAt},
		"next_id":     &types.AttributeValueMemberN{Value: strconv.Itoa(snap.NextID)},
		"records":     &types.AttributeValueMemberL{Value: records},
	}, nil
}

// unmarshalSnapshot converts a DynamoDB item back to a Snapshot.
func unmarshalSnapshot(raw map[string]types.AttributeValue) (Snapshot, error) {
	snap := Snapshot{
		SnapshotID: getStringAttr(raw, "snapshot_id"),
		List:       getStringAttr(raw, "list"),
		SavedAt:    getStringAttr(raw, "saved_at"),
		NextID:     getNumberAttr(raw, "next_id"),
	}
	for _, entry := range getListAttr(raw, "records") {
		m, ok := entry.(*types.AttributeValueMemberM)
		if !ok {
			return Snapshot{}, fmt.Errorf("snapshot record is not a map")
		}
		rec := Record{
			ID:       getNumberAttr(m.Value, "id"),
			ParentID: getNumberAttr(m.Value, "parent_id"),
			Order:    getNumberAttr(m.Value, "ord"),
			Payload:  m.Value["payload"],
		}
		snap.Records = append(snap.Records, rec)
	}
	return snap, nil
}

// getStringAttr extracts a string attribute from a DynamoDB item.
func getStringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// getNumberAttr extracts an integer attribute from a DynamoDB item.
func getNumberAttr(item map[string]types.AttributeValue, key string) int {
	if v, ok := item[key].(*types.AttributeValueMemberN); ok {
		n, _ := strconv.Atoi(v.Value)
		return n
	}
	return 0
}

// getListAttr extracts a list attribute from a DynamoDB item.
func getListAttr(item map[string]types.AttributeValue, key string) []types.AttributeValue {
	if v, ok := item[key].(*types.AttributeValueMemberL); ok {
		return v.Value
	}
	return nil
}
