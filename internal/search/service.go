package search

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
	"github.com/joseph-ayodele/ediscovery-service/internal/repository"
)

// Service handles document search business logic.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

// NewService creates a new search service.
func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// Search runs a filtered free-text query and shapes one page of results.
func (s *Service) Search(ctx context.Context, q entity.SearchQuery) (*entity.SearchResponse, error) {
	start := time.Now()

	if strings.TrimSpace(q.Query) == "" {
		return nil, common.NewAppError("SEARCH_QUERY", "query is required", common.ErrInvalidInput)
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 1000 {
		q.Limit = 1000
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	results, total, err := s.docs.Search(ctx, q)
	if err != nil {
		s.logger.Error("search failed", "query", q.Query, "error", err)
		return nil, err
	}
	if results == nil {
		results = []entity.SearchResult{}
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	resp := &entity.SearchResponse{
		Query:           q.Query,
		TotalResults:    total,
		Results:         results,
		Page:            q.Offset/q.Limit + 1,
		PerPage:         q.Limit,
		ExecutionTimeMs: math.Round(elapsed*100) / 100,
	}

	s.logger.Info("search executed",
		"query", q.Query,
		"results", len(results),
		"total", total,
		"elapsed_ms", resp.ExecutionTimeMs,
	)
	return resp, nil
}

// Suggest returns filename completions for a query prefix.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if len(strings.TrimSpace(prefix)) < 2 {
		return nil, common.NewAppError("SEARCH_SUGGEST", "query prefix must be at least 2 characters", common.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	suggestions, err := s.docs.Suggest(ctx, prefix, limit)
	if err != nil {
		s.logger.Error("suggestion query failed", "prefix", prefix, "error", err)
		return nil, err
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	return suggestions, nil
}

// StatsResponse is the corpus summary plus a derived megabyte figure.
type StatsResponse struct {
	entity.CorpusStats
	TotalSizeMB float64 `json:"total_size_mb"`
}

// Stats summarizes the indexed corpus.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	stats, err := s.docs.Stats(ctx)
	if err != nil {
		return nil, err
	}
	mb := float64(stats.TotalSizeBytes) / (1024 * 1024)
	return &StatsResponse{
		CorpusStats: stats,
		TotalSizeMB: math.Round(mb*100) / 100,
	}, nil
}
