package flatten

import (
	"strings"
	"time"

	"event-dataset-processor/internal/models"
)

// dateTimeLayouts are tried in order by ParseDateTime
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Flatten expands entries into one Row per (entry, event) pair.
// Entries without events produce a single Row with HasEvent false.
func Flatten(entries []models.DatasetEntry) []models.Row {
	rows := make([]models.Row, 0, len(entries))

	for _, entry := range entries {
		base := models.Row{
			EmailSubject: entry.EmailSubject,
			EmailBody:    entry.EmailBody,
			EmailSender:  entry.EmailSender,
			EmailDate:    entry.EmailDate,
			Action:       entry.Action,
			Timestamp:    entry.Timestamp,
		}

		if len(entry.Events) == 0 {
			rows = append(rows, base)
			continue
		}

		for _, event := range entry.Events {
			row := base
			row.EventTitle = event.Title
			row.EventDescription = event.Description
			row.EventStartDateTime = ParseDateTime(event.StartDateTime)
			row.EventEndDateTime = ParseDateTime(event.EndDateTime)
			row.EventLocation = event.Location
			row.HasEvent = true
			rows = append(rows, row)
		}
	}

	return rows
}

// ParseDateTime coerces an ISO 8601 string into a time. It returns nil
// for blank or unparsable input instead of an error.
func ParseDateTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
