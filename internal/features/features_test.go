package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-dataset-processor/internal/models"
)

func newDefaultExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(DefaultVocabulary())
	require.NoError(t, err)
	return e
}

func TestHasTimeKeywords(t *testing.T) {
	e := newDefaultExtractor(t)

	tests := []struct {
		body string
		want bool
	}{
		{"Let's meet tomorrow at 3pm", true},
		{"TODAY works for me", true},
		{"Come by at noon", true},
		{"What a great idea", false},
		{"Attachments included", false},
		{"The 5 o'clock train", true},
		{"Please send the meeting time", true},
		{"Our schedule changed", true},
		{"Reschedule please", false},
		{"נפגש מחר בשעה 10", true},
		{"נתראה ב-10 בבוקר", true},
		{"תודה רבה על הכל", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, e.HasTimeKeywords(tt.body))
		})
	}
}

func TestHasDatePattern(t *testing.T) {
	e := newDefaultExtractor(t)

	tests := []struct {
		body string
		want bool
	}{
		{"Due 15/01/2024", true},
		{"Due 1-2-24", true},
		{"Due 01.02.2024", true},
		{"See you on 15 March", true},
		{"see you on 3 DECEMBER", true},
		{"הפגישה ב-15 מרץ", true},
		{"הפגישה ב-15\u00a0מרץ", true},
		{"meet on 3\u202fMarch", true},
		{"version 1.2 released", false},
		{"call 555-1234", false},
		{"March 15", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, tt.want, e.HasDatePattern(tt.body))
		})
	}
}

func TestFeaturesArePureFunctionsOfBody(t *testing.T) {
	e := newDefaultExtractor(t)
	body := "Standup tomorrow, 15/01/2024"

	rows := []models.Row{
		{EmailBody: body, Action: models.ActionApproved},
		{EmailBody: "unrelated", Action: models.ActionRejected},
		{EmailBody: body, Action: models.ActionRejected, EmailSubject: "different"},
	}
	out := e.Extract(rows)
	require.Len(t, out, 3)

	assert.Equal(t, out[0].HasTimeKeywords, out[2].HasTimeKeywords)
	assert.Equal(t, out[0].HasDatePattern, out[2].HasDatePattern)

	single := e.ExtractRow(rows[2])
	assert.Equal(t, single, out[2])
}

func TestExtractScenarios(t *testing.T) {
	e := newDefaultExtractor(t)

	rows := []models.Row{
		{
			EmailSubject: "Meeting tomorrow",
			EmailBody:    "Let's meet tomorrow at 3pm",
			EmailSender:  "Dana Levi <dana@example.co.il>",
			Action:       models.ActionApproved,
			EventTitle:   "Sync",
			HasEvent:     true,
		},
		{EmailSubject: "Promo", EmailBody: "Big sale", Action: models.ActionRejected},
	}

	out := e.Extract(rows)
	require.Len(t, out, 2)

	assert.Equal(t, models.FeatureRow{
		EmailBodyLength:    26,
		EmailSubjectLength: 16,
		HasTimeKeywords:    true,
		HasDatePattern:     false,
		Action:             models.ActionApproved,
		Label:              1,
		SenderDomain:       "example.co.il",
	}, out[0])

	assert.Equal(t, 0, out[1].Label)
	assert.Equal(t, "", out[1].SenderDomain)
}

func TestBodyLengthCountsRunes(t *testing.T) {
	e := newDefaultExtractor(t)
	fr := e.ExtractRow(models.Row{EmailBody: "שלום", EmailSubject: "héllo"})
	assert.Equal(t, 4, fr.EmailBodyLength)
	assert.Equal(t, 5, fr.EmailSubjectLength)
}

func TestCustomVocabulary(t *testing.T) {
	e, err := NewExtractor(Vocabulary{TimeKeywords: []string{"Standup"}})
	require.NoError(t, err)

	assert.True(t, e.HasTimeKeywords("daily STANDUP"))
	assert.False(t, e.HasTimeKeywords("meet tomorrow"))
	assert.True(t, e.HasDatePattern("on 1/2/2024"))
	assert.False(t, e.HasDatePattern("on 15 March"))

	_, err = NewExtractor(Vocabulary{TimeKeywords: []string{" "}})
	assert.Error(t, err)
	_, err = NewExtractor(Vocabulary{MonthNames: []string{""}})
	assert.Error(t, err)
}

func TestDefaultVocabularyIsCopied(t *testing.T) {
	v := DefaultVocabulary()
	v.TimeKeywords[0] = "changed"
	assert.Equal(t, "today", DefaultTimeKeywords[0])
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		sender string
		want   string
		ok     bool
	}{
		{"Dana <dana@example.com>", "example.com", true},
		{"<ops@mail.example.org>", "mail.example.org", true},
		{"dana@example.com", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := SenderDomain(tt.sender)
		assert.Equal(t, tt.ok, ok, tt.sender)
		assert.Equal(t, tt.want, got, tt.sender)
	}
}

func TestSenderAddress(t *testing.T) {
	addr, ok := SenderAddress("Dana Levi <dana@example.com>")
	assert.True(t, ok)
	assert.Equal(t, "dana@example.com", addr)

	addr, ok = SenderAddress("dana@example.com")
	assert.True(t, ok)
	assert.Equal(t, "dana@example.com", addr)

	_, ok = SenderAddress("not an address")
	assert.False(t, ok)
}
