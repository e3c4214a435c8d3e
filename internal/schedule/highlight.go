package schedule

import (
	"fmt"
	"time"

	"github.com/starford/raidho/internal/models"
)

// dateLayouts are the accepted schedule date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Project computes the highlight mark of every cell as a pure function of
// the current timeline index: the current cell is "current", cells whose
// own date is at-or-before the current event's date are "done", everything
// else is unmarked.
//
// When the current index has no matching event, or its date fails to
// parse, Project returns (nil, false) and the caller keeps whatever marks
// were previously applied.
func Project(current int, events []models.TimelineEvent) ([]models.CellMark, bool) {
	if current < 0 || current >= len(events) {
		return nil, false
	}
	ref, ok := parseDate(events[current].Date)
	if !ok {
		return nil, false
	}

	marks := make([]models.CellMark, len(events))
	for i, e := range events {
		marks[i] = models.CellMark{Index: e.Index, State: models.CellNone}
		if e.Index == current {
			marks[i].State = models.CellCurrent
			continue
		}
		if d, ok := parseDate(e.Date); ok && !d.After(ref) {
			marks[i].State = models.CellDone
		}
	}
	return marks, true
}

// Label renders the popup line for one event:
// "<Fabrication|Erection> Complete: <member>[ – note]".
func Label(e models.TimelineEvent) string {
	kind := "Fabrication"
	if e.Kind == models.KindErection {
		kind = "Erection"
	}
	s := fmt.Sprintf("%s Complete: %s", kind, e.Member)
	if e.Note != "" {
		s += " – " + e.Note
	}
	return s
}

// Neighbors renders the side popup: the previous, current, and next event
// by sorted index order relative to the current index. Absent neighbors
// render as empty strings.
func Neighbors(current int, events []models.TimelineEvent) models.Popup {
	var p models.Popup
	if current < 0 || current >= len(events) {
		return p
	}
	if current > 0 {
		p.Prev = Label(events[current-1])
	}
	p.Current = Label(events[current])
	if current+1 < len(events) {
		p.Next = Label(events[current+1])
	}
	return p
}
