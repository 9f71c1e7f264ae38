package entity

import (
	"time"
)

// ExportDocument is the read-only projection of a document joined with its
// owning case, in the column order the export query returns. Nothing in this
// projection is ever written back.
type ExportDocument struct {
	ID         int64          `json:"id"`
	Filename   string         `json:"filename"`
	CaseID     *int64         `json:"case_id"`
	CaseName   *string        `json:"case_name"`
	CaseNumber *string        `json:"case_number"`
	FileType   *string        `json:"file_type"`
	FileSize   *int64         `json:"file_size"`
	UploadDate *time.Time     `json:"upload_date"`
	UploadedBy *string        `json:"uploaded_by"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	Hash       *string        `json:"hash,omitempty"`
}

// ExportFilter narrows the document set resolved for an export. CaseID and
// DocumentIDs apply conjunctively when both are present; the date bounds are
// inclusive.
type ExportFilter struct {
	CaseID      *int64
	DocumentIDs []int64
	DateFrom    *time.Time
	DateTo      *time.Time
}

// CorpusStats summarizes the indexed document corpus.
type CorpusStats struct {
	TotalDocuments int64 `json:"total_documents"`
	TotalCases     int64 `json:"total_cases"`
	FileTypes      int64 `json:"file_types"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}
