//go:build e2e

// Package e2e contains end-to-end integration tests using a real DynamoDB table.
// Run with: go test -tags=e2e -v ./e2e/...
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/arbor/snapshot"
	"github.com/jacentio/arbor/tree"
)

// Test configuration
const (
	awsProfile = "jacent-alpha-cp"

	// Table name - unique per test run to avoid conflicts
	tablePrefix = "arbor-e2e-test"
)

var (
	testID         string
	snapshotsTable string

	ddbClient *dynamodb.Client
	testStore *snapshot.Store
)

// layer is the payload used throughout the e2e suite.
type layer struct {
	Name  string `dynamodbav:"name"`
	Group bool   `dynamodbav:"group"`
}

func (l layer) CanHaveChildren() bool { return l.Group }

// --- Test Setup & Teardown ---

func TestMain(m *testing.M) {
	// Generate unique test ID
	testID = uuid.New().String()[:8]
	snapshotsTable = fmt.Sprintf("%s-%s-snapshots", tablePrefix, testID)

	fmt.Printf("Test ID: %s\n", testID)
	fmt.Printf("Table: %s\n", snapshotsTable)

	// Initialize AWS client (uses region from profile config)
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithSharedConfigProfile(awsProfile),
	)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}

	ddbClient = dynamodb.NewFromConfig(cfg)

	// Create table
	if err := createTable(ctx); err != nil {
		fmt.Printf("Failed to create table: %v\n", err)
		os.Exit(1)
	}

	// Initialize store
	testStore = snapshot.NewStore(ddbClient, snapshot.Config{
		TableName: snapshotsTable,
	})

	// Run tests
	code := m.Run()

	// Cleanup table
	if err := deleteTable(ctx); err != nil {
		fmt.Printf("Failed to delete table: %v\n", err)
	}

	os.Exit(code)
}

func createTable(ctx context.Context) error {
	fmt.Println("Creating test table...")

	_, err := ddbClient.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(snapshotsTable),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("pk"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("sk"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("pk"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("sk"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", snapshotsTable, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(ddbClient)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(snapshotsTable),
	}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", snapshotsTable, err)
	}

	fmt.Println("Table created and active")
	return nil
}

func deleteTable(ctx context.Context) error {
	fmt.Println("Deleting test table...")

	_, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{
		TableName: aws.String(snapshotsTable),
	})
	if err != nil {
		fmt.Printf("Warning: failed to delete table %s: %v\n", snapshotsTable, err)
	}

	fmt.Println("Table deleted")
	return nil
}

// buildManager creates a small hierarchy: one group with two children plus
// one top-level leaf.
func buildManager(t *testing.T) *tree.Manager[layer] {
	t.Helper()
	m := tree.New[layer]()
	grp, err := m.AddItem(tree.RootID, layer{Name: "background", Group: true})
	if err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := m.AddItem(grp, layer{Name: "sketch"}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := m.AddItem(grp, layer{Name: "ink"}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	if _, err := m.AddItem(tree.RootID, layer{Name: "notes"}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	return m
}

// uniqueList returns a list name no other test run or case shares.
func uniqueList(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, testID, uuid.New().String()[:8])
}

// --- Save & Load Tests ---

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	list := uniqueList("roundtrip")

	m := buildManager(t)
	snap, err := snapshot.Capture(list, m)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := testStore.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := testStore.Load(ctx, list, snap.SnapshotID)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.SnapshotID != snap.SnapshotID {
		t.Errorf("expected snapshot id %q, got %q", snap.SnapshotID, loaded.SnapshotID)
	}
	if loaded.NextID != snap.NextID {
		t.Errorf("expected next id %d, got %d", snap.NextID, loaded.NextID)
	}
	if len(loaded.Records) != len(snap.Records) {
		t.Fatalf("expected %d records, got %d", len(snap.Records), len(loaded.Records))
	}

	restored, err := snapshot.RestoreManager[layer](loaded, tree.DefaultConfig())
	if err != nil {
		t.Fatalf("RestoreManager failed: %v", err)
	}
	want := m.Flatten()
	got := restored.Flatten()
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Item.ID != want[i].Item.ID || got[i].Depth != want[i].Depth {
			t.Errorf("row %d: expected (%d, depth %d), got (%d, depth %d)",
				i, want[i].Item.ID, want[i].Depth, got[i].Item.ID, got[i].Depth)
		}
		if got[i].Item.Payload != want[i].Item.Payload {
			t.Errorf("row %d: expected payload %+v, got %+v",
				i, want[i].Item.Payload, got[i].Item.Payload)
		}
	}
}

func TestSave_Duplicate(t *testing.T) {
	ctx := context.Background()
	list := uniqueList("duplicate")

	snap, err := snapshot.Capture(list, buildManager(t))
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := testStore.Save(ctx, snap); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	err = testStore.Save(ctx, snap)
	if !errors.Is(err, snapshot.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	ctx := context.Background()

	_, err := testStore.Load(ctx, uniqueList("empty"), uuid.New().String())
	if !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// --- Latest & List Tests ---

func TestLatest_ReturnsNewest(t *testing.T) {
	ctx := context.Background()
	list := uniqueList("latest")

	m := buildManager(t)
	first, err := snapshot.Capture(list, m)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	// Force distinct sort keys; RFC 3339 has second granularity.
	first.SavedAt = time.Now().UTC().Add(-time.Minute).Format(time.RFC3339)
	if err := testStore.Save(ctx, first); err != nil {
		t.Fatalf("Save first failed: %v", err)
	}

	if _, err := m.AddItem(tree.RootID, layer{Name: "late addition"}); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}
	second, err := snapshot.Capture(list, m)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := testStore.Save(ctx, second); err != nil {
		t.Fatalf("Save second failed: %v", err)
	}

	latest, err := testStore.Latest(ctx, list)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.SnapshotID != second.SnapshotID {
		t.Errorf("expected latest %q, got %q", second.SnapshotID, latest.SnapshotID)
	}
	if len(latest.Records) != m.Len() {
		t.Errorf("expected %d records, got %d", m.Len(), len(latest.Records))
	}
}

func TestLatest_EmptyList(t *testing.T) {
	ctx := context.Background()

	_, err := testStore.Latest(ctx, uniqueList("none"))
	if !errors.Is(err, snapshot.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestList_ReturnsAllSnapshots(t *testing.T) {
	ctx := context.Background()
	list := uniqueList("listing")

	m := buildManager(t)
	base := time.Now().UTC().Add(-time.Hour)
	var saved []string
	for i := 0; i < 3; i++ {
		snap, err := snapshot.Capture(list, m)
		if err != nil {
			t.Fatalf("Capture %d failed: %v", i, err)
		}
		snap.SavedAt = base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339)
		if err := testStore.Save(ctx, snap); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
		saved = append(saved, snap.SnapshotID)
	}

	infos, err := testStore.List(ctx, list)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(infos))
	}
	// Oldest first, by sort key.
	for i, info := range infos {
		if info.SnapshotID != saved[i] {
			t.Errorf("position %d: expected %q, got %q", i, saved[i], info.SnapshotID)
		}
		if info.ItemCount != m.Len() {
			t.Errorf("position %d: expected %d items, got %d", i, m.Len(), info.ItemCount)
		}
	}
}

// --- Full Workflow Test ---

func TestWorkflow_EditSaveRestoreContinue(t *testing.T) {
	ctx := context.Background()
	list := uniqueList("workflow")

	// Build, rearrange, persist.
	m := buildManager(t)
	rows := m.Flatten()
	last := rows[len(rows)-1].Item.ID
	first := rows[0].Item.ID
	if err := m.MoveItem(last, first); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	snap, err := snapshot.Capture(list, m)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if err := testStore.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh session restores the latest snapshot and keeps editing.
	loaded, err := testStore.Latest(ctx, list)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	restored, err := snapshot.RestoreManager[layer](loaded, tree.DefaultConfig())
	if err != nil {
		t.Fatalf("RestoreManager failed: %v", err)
	}
	id, err := restored.AddItem(tree.RootID, layer{Name: "post-restore"})
	if err != nil {
		t.Fatalf("AddItem after restore failed: %v", err)
	}
	if id != m.NextID() {
		t.Errorf("expected fresh id %d, got %d", m.NextID(), id)
	}
	if err := restored.Validate(); err != nil {
		t.Errorf("invariants broken after restore: %v", err)
	}
}
