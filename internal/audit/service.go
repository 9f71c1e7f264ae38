package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
	"github.com/joseph-ayodele/ediscovery-service/internal/repository"
)

// Service reads and aggregates the activity log. The log itself is written by
// the upstream system; everything here is a pure read.
type Service struct {
	repo   repository.AuditRepository
	logger *slog.Logger
}

// NewService creates a new audit service.
func NewService(repo repository.AuditRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Logs returns one page of filtered log entries.
func (s *Service) Logs(ctx context.Context, filter entity.AuditFilter) (*entity.AuditLogResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	logs, total, err := s.repo.Logs(ctx, filter)
	if err != nil {
		s.logger.Error("audit log retrieval failed", "error", err)
		return nil, err
	}
	if logs == nil {
		logs = []entity.AuditLogEntry{}
	}

	applied := map[string]any{}
	if filter.UserID != nil {
		applied["user_id"] = *filter.UserID
	}
	if filter.Action != nil {
		applied["action"] = *filter.Action
	}
	if filter.ResourceType != nil {
		applied["resource_type"] = *filter.ResourceType
	}
	if filter.ResourceID != nil {
		applied["resource_id"] = *filter.ResourceID
	}
	if filter.Status != nil {
		applied["status"] = *filter.Status
	}
	if filter.DateFrom != nil {
		applied["date_from"] = filter.DateFrom.Format(time.RFC3339)
	}
	if filter.DateTo != nil {
		applied["date_to"] = filter.DateTo.Format(time.RFC3339)
	}

	return &entity.AuditLogResponse{
		TotalRecords:   total,
		Logs:           logs,
		Page:           filter.Offset/filter.Limit + 1,
		PerPage:        filter.Limit,
		FiltersApplied: applied,
	}, nil
}

const maxStatsHours = 8760 // one year

func clampHours(hours int) int {
	if hours <= 0 {
		return 24
	}
	if hours > maxStatsHours {
		return maxStatsHours
	}
	return hours
}

// Stats aggregates activity over a trailing window of whole hours.
func (s *Service) Stats(ctx context.Context, hours int) (*entity.AuditStats, error) {
	hours = clampHours(hours)
	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)

	total, err := s.repo.TotalSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	byAction, err := s.repo.CountByAction(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	byUser, err := s.repo.CountByUser(ctx, cutoff, 10)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.repo.CountByStatus(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentActivity(ctx, cutoff, 10)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []entity.AuditLogEntry{}
	}

	return &entity.AuditStats{
		TotalEvents:    total,
		EventsByAction: byAction,
		EventsByUser:   byUser,
		EventsByStatus: byStatus,
		RecentActivity: recent,
		TimeRange:      fmt.Sprintf("Last %d hours", hours),
	}, nil
}

// Actions lists all distinct action types in the log.
func (s *Service) Actions(ctx context.Context) ([]string, error) {
	actions, err := s.repo.Actions(ctx)
	if err != nil {
		return nil, err
	}
	if actions == nil {
		actions = []string{}
	}
	return actions, nil
}

// ResourceTypes lists all distinct resource types in the log.
func (s *Service) ResourceTypes(ctx context.Context) ([]string, error) {
	types, err := s.repo.ResourceTypes(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []string{}
	}
	return types, nil
}

// TimelineResponse is the aggregated activity series for a trailing window.
type TimelineResponse struct {
	TimeRange  string                  `json:"time_range"`
	Interval   string                  `json:"interval"`
	DataPoints int                     `json:"data_points"`
	Timeline   []entity.TimelineBucket `json:"timeline"`
}

// Timeline buckets events per hour or per day over the trailing window.
func (s *Service) Timeline(ctx context.Context, hours int, interval string) (*TimelineResponse, error) {
	hours = clampHours(hours)

	// hour buckets unless a coarser interval was asked for
	trunc := "hour"
	if interval != "hour" {
		trunc = "day"
	}

	cutoff := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	buckets, err := s.repo.Timeline(ctx, cutoff, trunc)
	if err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []entity.TimelineBucket{}
	}

	return &TimelineResponse{
		TimeRange:  fmt.Sprintf("Last %d hours", hours),
		Interval:   interval,
		DataPoints: len(buckets),
		Timeline:   buckets,
	}, nil
}
