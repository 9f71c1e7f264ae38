package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/ediscovery-service/internal/async"
	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// Service is the API-facing surface of the export subsystem: it validates
// submissions, owns job-id generation, and answers status/download requests
// from the shared job store.
type Service struct {
	store  JobStore
	queue  async.Queue
	writer *Writer
	logger *slog.Logger
}

// NewService creates an export service.
func NewService(store JobStore, queue async.Queue, writer *Writer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, queue: queue, writer: writer, logger: logger}
}

// newJobID builds a timestamped id with a uuid suffix so concurrent
// submissions within the same second never collide.
func newJobID(now time.Time) string {
	return fmt.Sprintf("export_%s_%s",
		now.UTC().Format("20060102_150405"),
		uuid.NewString()[:8],
	)
}

// Submit validates the request, records a pending job, and schedules
// background processing. It returns as soon as the job is queued.
func (s *Service) Submit(ctx context.Context, req entity.ExportRequest) (entity.ExportJob, error) {
	if req.Format == "" {
		req.Format = entity.FormatCSV
	}
	if !req.Format.Valid() {
		s.logger.Warn("rejected export submission", "format", req.Format)
		return entity.ExportJob{}, common.NewAppError(
			"UNSUPPORTED_FORMAT",
			fmt.Sprintf("format %q is not supported", req.Format),
			common.ErrUnsupportedFormat,
		)
	}

	now := time.Now().UTC()
	job := entity.ExportJob{
		JobID:     newJobID(now),
		Status:    entity.StatusPending,
		Format:    req.Format,
		CreatedAt: now,
	}
	if err := s.store.Create(job); err != nil {
		return entity.ExportJob{}, err
	}

	if err := s.queue.Enqueue(ctx, async.Job{
		JobID:       job.JobID,
		Request:     req,
		SubmittedAt: now,
	}); err != nil {
		// the caller still gets a job handle; the record carries the failure
		completedAt := time.Now().UTC()
		message := err.Error()
		_ = s.store.Update(job.JobID, func(j *entity.ExportJob) {
			j.Status = entity.StatusFailed
			j.CompletedAt = &completedAt
			j.ErrorMessage = &message
		})
	}

	s.logger.Info("export job submitted", "job_id", job.JobID, "format", job.Format)
	return job, nil
}

// Status returns the current job record.
func (s *Service) Status(jobID string) (entity.ExportJob, error) {
	return s.store.Get(jobID)
}

// DownloadFile describes a completed export ready to stream.
type DownloadFile struct {
	Path        string
	Filename    string
	ContentType string
}

// Download resolves the output file for a completed job. A known job that is
// not yet terminal yields ErrJobNotReady; a missing job or missing file
// yields a not-found error.
func (s *Service) Download(jobID string) (DownloadFile, error) {
	job, err := s.store.Get(jobID)
	if err != nil {
		return DownloadFile{}, err
	}
	if job.Status != entity.StatusCompleted {
		return DownloadFile{}, common.NewAppError(
			"EXPORT_NOT_READY",
			fmt.Sprintf("export not ready, status: %s", job.Status),
			common.ErrJobNotReady,
		)
	}

	path := s.writer.FilePath(jobID, job.Format)
	if _, err := os.Stat(path); err != nil {
		s.logger.Error("export file missing for completed job", "job_id", jobID, "path", path)
		return DownloadFile{}, common.NewAppError("EXPORT_FILE_MISSING", "export file not found", common.ErrNotFound)
	}

	// client-facing name is independent of the internal job id
	filename := fmt.Sprintf("ediscovery_export_%s.%s",
		time.Now().UTC().Format("20060102"), job.Format.Extension())

	return DownloadFile{
		Path:        path,
		Filename:    filename,
		ContentType: job.Format.ContentType(),
	}, nil
}

// Formats returns static descriptors for the supported export formats.
func (s *Service) Formats() []entity.ExportFormatInfo {
	return []entity.ExportFormatInfo{
		{
			ID:          entity.FormatCSV,
			Name:        "CSV (Comma-Separated Values)",
			Extension:   ".csv",
			Description: "Universal format, compatible with Excel and other tools",
		},
		{
			ID:          entity.FormatJSON,
			Name:        "JSON",
			Extension:   ".json",
			Description: "Structured data format, ideal for API integration",
		},
		{
			ID:          entity.FormatXLSX,
			Name:        "Excel Spreadsheet",
			Extension:   ".xlsx",
			Description: "Microsoft Excel format with formatting support",
		},
	}
}
