package schedule

import (
	"testing"

	"github.com/starford/raidho/internal/models"
)

func demoEvents() []models.TimelineEvent {
	return []models.TimelineEvent{
		{Index: 0, Kind: models.KindFabrication, Member: "B-1", Date: "2025-01-01"},
		{Index: 1, Kind: models.KindErection, Member: "B-1", Date: "2025-01-10", Note: "crane 2"},
		{Index: 2, Kind: models.KindFabrication, Member: "B-2", Date: "2025-01-05"},
		{Index: 3, Kind: models.KindErection, Member: "B-2", Date: "2025-01-20"},
	}
}

func TestProject_CurrentAndDone(t *testing.T) {
	marks, ok := Project(1, demoEvents())
	if !ok {
		t.Fatal("Project returned not-ok")
	}
	want := []models.CellState{models.CellDone, models.CellCurrent, models.CellDone, models.CellNone}
	for i, w := range want {
		if marks[i].State != w {
			t.Errorf("marks[%d] = %q, want %q", i, marks[i].State, w)
		}
	}
}

func TestProject_OutOfRangeIsNoop(t *testing.T) {
	if _, ok := Project(-1, demoEvents()); ok {
		t.Error("negative index should be a no-op")
	}
	if _, ok := Project(99, demoEvents()); ok {
		t.Error("out-of-range index should be a no-op")
	}
}

func TestProject_UnparseableDateIsNoop(t *testing.T) {
	events := demoEvents()
	events[2].Date = "sometime soon"
	if _, ok := Project(2, events); ok {
		t.Error("unparseable current date should be a no-op")
	}
	// Other cells with bad dates are simply unmarked.
	marks, ok := Project(3, events)
	if !ok {
		t.Fatal("Project returned not-ok")
	}
	if marks[2].State != models.CellNone {
		t.Errorf("cell with bad date = %q, want unmarked", marks[2].State)
	}
}

func TestLabel(t *testing.T) {
	events := demoEvents()
	if got := Label(events[0]); got != "Fabrication Complete: B-1" {
		t.Errorf("Label = %q", got)
	}
	if got := Label(events[1]); got != "Erection Complete: B-1 – crane 2" {
		t.Errorf("Label with note = %q", got)
	}
}

func TestNeighbors(t *testing.T) {
	events := demoEvents()

	p := Neighbors(0, events)
	if p.Prev != "" || p.Current == "" || p.Next == "" {
		t.Errorf("Neighbors(0) = %+v", p)
	}

	p = Neighbors(3, events)
	if p.Next != "" || p.Prev == "" {
		t.Errorf("Neighbors(last) = %+v", p)
	}

	p = Neighbors(-1, events)
	if p.Prev != "" || p.Current != "" || p.Next != "" {
		t.Errorf("Neighbors(unset) = %+v, want empty", p)
	}
}
