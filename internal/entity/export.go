package entity

import (
	"time"
)

// ExportFormat is the closed set of supported export file formats.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
)

// Valid reports whether the format is one of the supported set.
func (f ExportFormat) Valid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return true
	}
	return false
}

// Extension returns the file extension for the format, without dot.
func (f ExportFormat) Extension() string {
	return string(f)
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// JobStatus tracks an export job through its lifecycle. Transitions are
// strictly forward: pending -> processing -> completed | failed.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions occur from the status.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ExportRequest selects the documents to export and how to materialize them.
// When both CaseID and DocumentIDs are absent, all documents match, subject
// to the date window.
type ExportRequest struct {
	CaseID          *int64       `json:"case_id,omitempty"`
	DocumentIDs     []int64      `json:"document_ids,omitempty"`
	Format          ExportFormat `json:"format"`
	IncludeMetadata *bool        `json:"include_metadata,omitempty"`
	DateFrom        *time.Time   `json:"date_from,omitempty"`
	DateTo          *time.Time   `json:"date_to,omitempty"`
}

// WithMetadata resolves the metadata-inclusion flag; unset means included.
func (r ExportRequest) WithMetadata() bool {
	return r.IncludeMetadata == nil || *r.IncludeMetadata
}

// ExportJob tracks one export's lifecycle from submission to terminal state.
type ExportJob struct {
	JobID        string       `json:"job_id"`
	Status       JobStatus    `json:"status"`
	Format       ExportFormat `json:"format"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at"`
	DownloadURL  *string      `json:"download_url"`
	TotalRecords int          `json:"total_records"`
	ErrorMessage *string      `json:"error_message"`
}

// ExportFormatInfo is a static descriptor of a supported format.
type ExportFormatInfo struct {
	ID          ExportFormat `json:"id"`
	Name        string       `json:"name"`
	Extension   string       `json:"extension"`
	Description string       `json:"description"`
}
