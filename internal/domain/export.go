package domain

import "time"

type ExportStatus string

const (
	ExportStatusPending   ExportStatus = "pending"
	ExportStatusRunning   ExportStatus = "running"
	ExportStatusCompleted ExportStatus = "completed"
	ExportStatusFailed    ExportStatus = "failed"
)

// ReportExport tracks an asynchronous upload of a company's report snapshot.
type ReportExport struct {
	ID           int64
	CompanyID    int64
	Status       ExportStatus
	Location     string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}
