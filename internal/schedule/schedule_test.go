package schedule

import (
	"errors"
	"testing"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/normalize"
)

var norm = normalize.New("")

func TestParse_Valid(t *testing.T) {
	doc := []byte(`[
		{"member":"B-1",
		 "fabricationCompletion":{"date":"2025-01-10","file":"BSGSifc-1.glb"},
		 "erectionCompletion":{"date":"2025-02-01","files":["old.glb","BSGSifc-2.glb"],"note":"night lift"}}
	]`)
	members, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(members) != 1 || members[0].Member != "B-1" {
		t.Fatalf("members = %+v", members)
	}
}

func TestParse_InvalidAndEmpty(t *testing.T) {
	for _, doc := range []string{`{"not":"a list"}`, `[]`, `garbage`} {
		_, err := Parse([]byte(doc))
		if !errors.Is(err, apperr.ErrSchedule) {
			t.Errorf("Parse(%q) err = %v, want ErrSchedule", doc, err)
		}
	}
}

func TestBuildEvents_IndexDerivation(t *testing.T) {
	members := []models.Member{
		{Member: "B-1", Fabrication: models.Completion{Date: "2025-01-01"}, Erection: models.Completion{Date: "2025-01-05"}},
		{Member: "B-2", Fabrication: models.Completion{Date: "2025-01-02"}, Erection: models.Completion{Date: "2025-01-06"}},
		{Member: "B-3", Fabrication: models.Completion{Date: "2025-01-03"}, Erection: models.Completion{Date: "2025-01-07"}},
	}
	events := BuildEvents(members, norm)
	if len(events) != 6 {
		t.Fatalf("len(events) = %d, want 6", len(events))
	}
	seen := make(map[int]bool)
	for i, e := range events {
		if e.Index != i {
			t.Errorf("events[%d].Index = %d", i, e.Index)
		}
		if seen[e.Index] {
			t.Errorf("duplicate index %d", e.Index)
		}
		seen[e.Index] = true
		wantKind := models.KindFabrication
		if e.Index%2 == 1 {
			wantKind = models.KindErection
		}
		if e.Kind != wantKind {
			t.Errorf("events[%d].Kind = %s, want %s", i, e.Kind, wantKind)
		}
	}
}

func TestBuildEvents_LastFileAuthoritative(t *testing.T) {
	members := []models.Member{{
		Member:      "C-1",
		Fabrication: models.Completion{Date: "2025-01-01", Files: []string{"a.glb", "BSGSfinal.glb"}},
		Erection:    models.Completion{Date: "2025-01-02", File: "single.glb"},
	}}
	events := BuildEvents(members, norm)
	if events[0].File != "BSGSfinal.glb" || events[0].Key != "final" {
		t.Errorf("fab event = %+v, want last of files list", events[0])
	}
	if events[1].Key != "single" {
		t.Errorf("erec key = %q, want single", events[1].Key)
	}
}

func TestKeyIndex_SkipsEmptyAndFirstWins(t *testing.T) {
	events := []models.TimelineEvent{
		{Index: 0, Key: "a"},
		{Index: 1, Key: ""},
		{Index: 2, Key: "a"},
		{Index: 3, Key: "b"},
	}
	idx := KeyIndex(events)
	if len(idx) != 2 {
		t.Fatalf("len(idx) = %d, want 2", len(idx))
	}
	if idx["a"] != 0 || idx["b"] != 3 {
		t.Errorf("idx = %v", idx)
	}
}
