package models

// Summary is the guarded result of an analysis run
type Summary struct {
	Total        int     `json:"total_interactions"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	ApprovalRate float64 `json:"approval_rate"`
}

// HourCount is one bucket of the event start-hour histogram
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// Analysis holds the descriptive statistics of a non-empty row set
type Analysis struct {
	Summary

	ApprovedPercent float64 `json:"approved_percent"`
	RejectedPercent float64 `json:"rejected_percent"`

	UniqueSenders       int     `json:"unique_senders"`
	AvgBodyLength       float64 `json:"avg_body_length"`
	AvgEventTitleLength float64 `json:"avg_event_title_length"`

	// CommonEventHours is empty when no approved row carries a start time
	CommonEventHours []HourCount `json:"common_event_hours"`
}
