package flatten

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-dataset-processor/internal/models"
)

func TestFlattenEntryWithoutEvents(t *testing.T) {
	entries := []models.DatasetEntry{
		{EmailSubject: "Newsletter", EmailBody: "Weekly digest", Action: models.ActionRejected, Events: []models.Event{}},
		{EmailSubject: "Spam", Action: models.ActionRejected},
	}

	rows := Flatten(entries)
	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.False(t, row.HasEvent)
		assert.Equal(t, entries[i].EmailSubject, row.EmailSubject)
		assert.Equal(t, "", row.EventTitle)
		assert.Equal(t, "", row.EventDescription)
		assert.Equal(t, "", row.EventLocation)
		assert.Nil(t, row.EventStartDateTime)
		assert.Nil(t, row.EventEndDateTime)
	}
}

func TestFlattenPreservesEventOrder(t *testing.T) {
	entries := []models.DatasetEntry{
		{
			EmailSubject: "Two events",
			Action:       models.ActionApproved,
			Events: []models.Event{
				{Title: "First", StartDateTime: "2024-01-15T09:00:00"},
				{Title: "Second", StartDateTime: "2024-01-15T11:00:00"},
				{Title: "Third"},
			},
		},
		{EmailSubject: "After", Action: models.ActionRejected},
	}

	rows := Flatten(entries)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"First", "Second", "Third", ""},
		[]string{rows[0].EventTitle, rows[1].EventTitle, rows[2].EventTitle, rows[3].EventTitle})
	for _, row := range rows[:3] {
		assert.True(t, row.HasEvent)
		assert.Equal(t, "Two events", row.EmailSubject)
	}
	assert.False(t, rows[3].HasEvent)
	assert.Nil(t, rows[2].EventStartDateTime)
}

func TestFlattenRowCountInvariant(t *testing.T) {
	entries := []models.DatasetEntry{
		{Events: []models.Event{{Title: "a"}}},
		{Events: []models.Event{}},
		{Events: []models.Event{{Title: "b"}, {Title: "c"}}},
	}

	rows := Flatten(entries)
	assert.GreaterOrEqual(t, len(rows), len(entries))
	assert.Len(t, rows, 4)

	assert.Empty(t, Flatten(nil))
}

func TestFlattenScenarioApproved(t *testing.T) {
	entries := []models.DatasetEntry{{
		EmailSubject: "Meeting tomorrow",
		EmailBody:    "Let's meet tomorrow at 3pm",
		Action:       models.ActionApproved,
		Events:       []models.Event{{Title: "Sync", StartDateTime: "2024-01-15T15:00:00"}},
	}}

	rows := Flatten(entries)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].HasEvent)
	require.NotNil(t, rows[0].EventStartDateTime)
	assert.Equal(t, 15, rows[0].EventStartDateTime.Hour())
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-01-15T15:00:00", time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC), true},
		{"2024-01-15T15:00:00.000Z", time.Date(2024, 1, 15, 15, 0, 0, 0, time.UTC), true},
		{"2024-01-15T08:30:00+02:00", time.Date(2024, 1, 15, 6, 30, 0, 0, time.UTC), true},
		{"2024-01-15 10:15:00", time.Date(2024, 1, 15, 10, 15, 0, 0, time.UTC), true},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"2024-13-45T99:00:00", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDateTime(tt.input)
			if !tt.ok {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
		})
	}
}

func TestParseDateTimeKeepsOffsetHour(t *testing.T) {
	got := ParseDateTime("2024-01-15T08:30:00+02:00")
	require.NotNil(t, got)
	assert.Equal(t, 8, got.Hour())
}
