package entity

import (
	"time"
)

// SearchQuery holds free-text search parameters and optional filters.
type SearchQuery struct {
	Query        string     `json:"query" binding:"required"`
	CaseID       *int64     `json:"case_id,omitempty"`
	DocumentType *string    `json:"document_type,omitempty"`
	Custodian    *string    `json:"custodian,omitempty"`
	DateFrom     *time.Time `json:"date_from,omitempty"`
	DateTo       *time.Time `json:"date_to,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Limit        int        `json:"limit" binding:"omitempty,min=1,max=1000"`
	Offset       int        `json:"offset" binding:"omitempty,min=0"`
}

// SearchResult is a single matched document.
type SearchResult struct {
	ID             int64     `json:"id"`
	Filename       string    `json:"filename"`
	CaseID         int64     `json:"case_id"`
	CaseName       string    `json:"case_name"`
	FileType       string    `json:"file_type"`
	UploadDate     time.Time `json:"upload_date"`
	Custodian      *string   `json:"custodian"`
	Tags           []string  `json:"tags"`
	RelevanceScore float64   `json:"relevance_score"`
	Snippet        *string   `json:"snippet"`
}

// SearchResponse carries results plus paging and timing metadata.
type SearchResponse struct {
	Query           string         `json:"query"`
	TotalResults    int64          `json:"total_results"`
	Results         []SearchResult `json:"results"`
	Page            int            `json:"page"`
	PerPage         int            `json:"per_page"`
	ExecutionTimeMs float64        `json:"execution_time_ms"`
}
