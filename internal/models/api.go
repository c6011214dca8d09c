package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Dataset   string            `json:"dataset"`
	Scheduler map[string]string `json:"scheduler,omitempty"`
}

// SummaryResponse wraps the guarded summary of the latest run
type SummaryResponse struct {
	Source     string    `json:"source"`
	FinishedAt time.Time `json:"finished_at"`
	Entries    int       `json:"entries"`
	Rows       int       `json:"rows"`
	Summary    Summary   `json:"summary"`
	ExportPath string    `json:"export_path,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
