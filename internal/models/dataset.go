package models

import "time"

// Action values recorded by the labelling UI
const (
	ActionApproved = "approved"
	ActionRejected = "rejected"
)

// Document is the top-level shape of an exported dataset file
type Document struct {
	Metadata Metadata       `json:"metadata"`
	Entries  []DatasetEntry `json:"entries"`
}

// Metadata holds the optional export header
type Metadata struct {
	ExportDate   string `json:"exportDate"`
	TotalEntries int    `json:"totalEntries"`
}

// DatasetEntry represents one email together with the decision taken on it
type DatasetEntry struct {
	EmailSubject string  `json:"emailSubject"`
	EmailBody    string  `json:"emailBody"`
	EmailSender  string  `json:"emailSender"`
	EmailDate    string  `json:"emailDate"`
	Action       string  `json:"action"`
	Timestamp    string  `json:"timestamp"`
	Events       []Event `json:"events"`
}

// Event represents a calendar event suggested for an email
type Event struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
	Location      string `json:"location"`
}

// Row is the flattened (entry, event) pairing.
// Entries without events yield one Row with blank event fields and HasEvent false.
type Row struct {
	EmailSubject string
	EmailBody    string
	EmailSender  string
	EmailDate    string
	Action       string
	Timestamp    string

	EventTitle         string
	EventDescription   string
	EventStartDateTime *time.Time // nil when absent or unparsable
	EventEndDateTime   *time.Time
	EventLocation      string

	HasEvent bool
}

// IsApproved reports whether the row was approved
func (r Row) IsApproved() bool {
	return r.Action == ActionApproved
}

// FeatureRow is the training representation of a Row
type FeatureRow struct {
	EmailBodyLength    int    `json:"email_body_length"`
	EmailSubjectLength int    `json:"email_subject_length"`
	HasTimeKeywords    bool   `json:"has_time_keywords"`
	HasDatePattern     bool   `json:"has_date_pattern"`
	Action             string `json:"action"`
	Label              int    `json:"label"`

	// SenderDomain is kept for diagnostics and never exported
	SenderDomain string `json:"-"`
}

// LabelFor maps an action to the binary training label
func LabelFor(action string) int {
	if action == ActionApproved {
		return 1
	}
	return 0
}
