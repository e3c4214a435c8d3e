// Package schedule parses per-project schedule documents and derives the
// flattened timeline event sequence used for cross-navigation.
package schedule

import (
	"encoding/json"
	"fmt"

	"github.com/starford/raidho/internal/apperr"
	"github.com/starford/raidho/internal/models"
	"github.com/starford/raidho/internal/normalize"
)

// Parse decodes a schedule document: an ordered, non-empty JSON array of
// member records. Anything else is an apperr.ErrSchedule.
func Parse(data []byte) ([]models.Member, error) {
	var members []models.Member
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("%w: invalid schedule document: %v", apperr.ErrSchedule, err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: schedule is empty", apperr.ErrSchedule)
	}
	return members, nil
}

// eventFile returns the authoritative model filename of a completion
// record: the last entry of Files when given, otherwise File.
func eventFile(c models.Completion) string {
	if len(c.Files) > 0 {
		return c.Files[len(c.Files)-1]
	}
	return c.File
}

// BuildEvents flattens members into the chronologically-paired event
// sequence. Each member yields exactly two events: fabrication at index
// memberIndex*2 and erection at memberIndex*2+1, preserving the document's
// original member ordering.
func BuildEvents(members []models.Member, norm normalize.Normalizer) []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, len(members)*2)
	for i, m := range members {
		fabFile := eventFile(m.Fabrication)
		erecFile := eventFile(m.Erection)
		events = append(events, models.TimelineEvent{
			Index:  i * 2,
			Kind:   models.KindFabrication,
			Member: m.Member,
			Date:   m.Fabrication.Date,
			Note:   m.Fabrication.Note,
			File:   fabFile,
			Key:    norm.Key(fabFile),
		}, models.TimelineEvent{
			Index:  i*2 + 1,
			Kind:   models.KindErection,
			Member: m.Member,
			Date:   m.Erection.Date,
			Note:   m.Erection.Note,
			File:   erecFile,
			Key:    norm.Key(erecFile),
		})
	}
	return events
}

// KeyIndex builds the normalized-key → timeline-index lookup map. Events
// without a key are skipped; on duplicate keys the first event wins.
func KeyIndex(events []models.TimelineEvent) map[string]int {
	idx := make(map[string]int, len(events))
	for _, e := range events {
		if e.Key == "" {
			continue
		}
		if _, ok := idx[e.Key]; !ok {
			idx[e.Key] = e.Index
		}
	}
	return idx
}
