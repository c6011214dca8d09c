package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"event-dataset-processor/internal/models"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly10!", Truncate("exactly10!", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "שלו...", Truncate("שלום עולם", 3))
	assert.Equal(t, "", Truncate("", 3))
}

func TestAnalysisOutput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{})

	r.Analysis(&models.Analysis{
		Summary:             models.Summary{Total: 4, Approved: 3, Rejected: 1, ApprovalRate: 0.75},
		ApprovedPercent:     75,
		RejectedPercent:     25,
		UniqueSenders:       2,
		AvgBodyLength:       120.4,
		AvgEventTitleLength: 9.6,
		CommonEventHours:    []models.HourCount{{Hour: 9, Count: 2}, {Hour: 14, Count: 1}},
	})

	out := buf.String()
	assert.Contains(t, out, "Total interactions: 4")
	assert.Contains(t, out, "Approved events: 3 (75.0%)")
	assert.Contains(t, out, "Rejected events: 1 (25.0%)")
	assert.Contains(t, out, "Unique senders: 2")
	assert.Contains(t, out, "Average email body length: 120 chars")
	assert.Contains(t, out, "Average event title length: 10 chars")
	assert.Contains(t, out, "Most common event hours: 09:00 (2), 14:00 (1)")
}

func TestEmptyDatasetOutput(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{}).EmptyDataset(models.Summary{})
	assert.Contains(t, buf.String(), "Approval rate: 0.00")
}

func TestSamplesTruncatesAndLimits(t *testing.T) {
	rows := []models.Row{
		{EmailSubject: strings.Repeat("s", 80), EmailBody: strings.Repeat("b", 150), EmailSender: "Dana <dana@example.com>", Action: models.ActionApproved, EventTitle: "Sync"},
		{EmailSubject: "second approved", Action: models.ActionApproved},
		{EmailSubject: "rejected one", EmailSender: "no address here", Action: models.ActionRejected},
	}

	var buf bytes.Buffer
	New(&buf, Options{SubjectWidth: 60, BodyWidth: 100}).Samples(rows, 1)
	out := buf.String()

	assert.Contains(t, out, "Subject: "+strings.Repeat("s", 60)+"...\n")
	assert.Contains(t, out, "Body snippet: "+strings.Repeat("b", 100)+"...\n")
	assert.Contains(t, out, "From: dana@example.com")
	assert.Contains(t, out, "Event: Sync")
	assert.NotContains(t, out, "second approved")
	assert.Contains(t, out, "Subject: rejected one")
	assert.Contains(t, out, "From: no address here")
}

func TestFeaturesOutput(t *testing.T) {
	rows := []models.FeatureRow{
		{HasTimeKeywords: true, SenderDomain: "b.com"},
		{HasTimeKeywords: true, HasDatePattern: true, SenderDomain: "a.com"},
		{SenderDomain: "b.com"},
	}

	var buf bytes.Buffer
	New(&buf, Options{}).Features(rows)
	out := buf.String()

	assert.Contains(t, out, "has_time_keywords  2/3")
	assert.Contains(t, out, "has_date_pattern   1/3")
	assert.Less(t, strings.Index(out, "b.com (2)"), strings.Index(out, "a.com (1)"))
}
