package index

import (
	"os"
	"testing"

	"github.com/starford/raidho/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "raidho-index-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func demoEvents() []models.TimelineEvent {
	return []models.TimelineEvent{
		{Index: 0, Kind: models.KindFabrication, Member: "B-1", Date: "2025-01-01", File: "BSGSifc-1.glb", Key: "ifc-1"},
		{Index: 1, Kind: models.KindErection, Member: "B-1", Date: "2025-01-10", Note: "night lift"},
		{Index: 2, Kind: models.KindFabrication, Member: "COL-2", Date: "2025-01-05", File: "BSGSifc-2.glb", Key: "ifc-2"},
		{Index: 3, Kind: models.KindErection, Member: "COL-2", Date: "2025-01-20"},
	}
}

func TestReplaceProjectAndEvents(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceProject("bsgs", demoEvents()); err != nil {
		t.Fatalf("ReplaceProject: %v", err)
	}

	events, err := db.Events("bsgs")
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("len(events) = %d, want 4", len(events))
	}
	if events[0].Key != "ifc-1" || events[0].Kind != models.KindFabrication {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[3].Member != "COL-2" {
		t.Errorf("events[3] = %+v", events[3])
	}
}

func TestReplaceProject_SwapsWholesale(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceProject("bsgs", demoEvents()); err != nil {
		t.Fatal(err)
	}
	replacement := []models.TimelineEvent{
		{Index: 0, Kind: models.KindFabrication, Member: "NEW-1", Date: "2025-03-01"},
		{Index: 1, Kind: models.KindErection, Member: "NEW-1", Date: "2025-03-02"},
	}
	if err := db.ReplaceProject("bsgs", replacement); err != nil {
		t.Fatal(err)
	}
	events, err := db.Events("bsgs")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].Member != "NEW-1" {
		t.Errorf("events = %+v, want replacement set only", events)
	}
}

func TestReplaceProject_IsolatedByProject(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceProject("bsgs", demoEvents()); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceProject("other", demoEvents()[:2]); err != nil {
		t.Fatal(err)
	}
	if err := db.ReplaceProject("other", nil); err != nil {
		t.Fatal(err)
	}
	events, err := db.Events("bsgs")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 4 {
		t.Errorf("bsgs events = %d, want 4 untouched", len(events))
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	if err := db.ReplaceProject("bsgs", demoEvents()); err != nil {
		t.Fatal(err)
	}

	hits, err := db.Search("bsgs", "COL", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 || hits[0].Index != 2 {
		t.Errorf("hits = %+v", hits)
	}

	hits, err = db.Search("bsgs", "night", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Index != 1 {
		t.Errorf("note search hits = %+v", hits)
	}

	hits, err = db.Search("bsgs", "no-such-member", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %+v", hits)
	}
}
