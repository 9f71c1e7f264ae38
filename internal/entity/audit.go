package entity

import (
	"time"
)

// AuditLogEntry is one row of the externally written activity log, joined to
// users for a display name. This service only reads the log.
type AuditLogEntry struct {
	ID           int64          `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	UserID       *int64         `json:"user_id"`
	Username     string         `json:"username"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   *int64         `json:"resource_id"`
	Details      map[string]any `json:"details"`
	IPAddress    *string        `json:"ip_address"`
	UserAgent    *string        `json:"user_agent"`
	Status       string         `json:"status"`
}

// AuditFilter narrows a log query; every field is optional.
type AuditFilter struct {
	UserID       *int64
	Action       *string
	ResourceType *string
	ResourceID   *int64
	Status       *string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// AuditLogResponse pages through filtered log entries.
type AuditLogResponse struct {
	TotalRecords   int64           `json:"total_records"`
	Logs           []AuditLogEntry `json:"logs"`
	Page           int             `json:"page"`
	PerPage        int             `json:"per_page"`
	FiltersApplied map[string]any  `json:"filters_applied"`
}

// AuditStats aggregates activity over a trailing time window.
type AuditStats struct {
	TotalEvents    int64            `json:"total_events"`
	EventsByAction map[string]int64 `json:"events_by_action"`
	EventsByUser   map[string]int64 `json:"events_by_user"`
	EventsByStatus map[string]int64 `json:"events_by_status"`
	RecentActivity []AuditLogEntry  `json:"recent_activity"`
	TimeRange      string           `json:"time_range"`
}

// TimelineBucket is one aggregated interval of audit activity.
type TimelineBucket struct {
	Timestamp   time.Time `json:"timestamp"`
	EventCount  int64     `json:"event_count"`
	UniqueUsers int64     `json:"unique_users"`
}
