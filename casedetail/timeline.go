package casedetail

import (
	"fmt"
	"sort"

	"github.com/citizenvoice/pqrs-dashboard-api/models"
)

// BuildTimeline assembles the detail-view timeline from the creation
// event, the update log and the last-modified event, most recent first.
// It is recomputed from the current record on every call, never cached.
func BuildTimeline(c models.Case) []models.TimelineEntry {
	entries := make([]models.TimelineEntry, 0, len(c.Updates)+2)

	entries = append(entries, models.TimelineEntry{
		Date:        c.CreatedAt,
		Title:       "PQRS Created",
		Description: fmt.Sprintf("%s submitted by %s", c.Type, c.SubmitterLabel()),
	})
	for _, u := range c.Updates {
		entries = append(entries, models.TimelineEntry{
			Date:        u.Date,
			Title:       "Update",
			Description: u.Content,
		})
	}
	entries = append(entries, models.TimelineEntry{
		Date:        c.UpdatedAt,
		Title:       "Last Updated",
		Description: "PQRS details were last modified",
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return models.ParseDate(entries[i].Date).After(models.ParseDate(entries[j].Date))
	})
	return entries
}
