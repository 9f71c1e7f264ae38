package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
	"github.com/joseph-ayodele/ediscovery-service/internal/repository"
)

// Processor executes one export job end-to-end: resolve the document set,
// materialize the file, and advance the job record through processing to a
// terminal state. The job record is the sole error-reporting channel; the
// submitter has already returned by the time anything here runs.
type Processor struct {
	store  JobStore
	docs   repository.DocumentRepository
	writer *Writer
	logger *slog.Logger
}

// NewProcessor creates a processor over the shared job store.
func NewProcessor(store JobStore, docs repository.DocumentRepository, writer *Writer, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, docs: docs, writer: writer, logger: logger}
}

// Process runs the job to a terminal state. The returned error duplicates
// what is recorded on the job, for worker logging only.
func (p *Processor) Process(ctx context.Context, jobID string, req entity.ExportRequest) error {
	start := time.Now()

	if err := p.store.Update(jobID, func(j *entity.ExportJob) {
		j.Status = entity.StatusProcessing
	}); err != nil {
		p.logger.Error("job missing at processing start", "job_id", jobID, "error", err)
		return err
	}

	docs, err := p.docs.ListForExport(ctx, entity.ExportFilter{
		CaseID:      req.CaseID,
		DocumentIDs: req.DocumentIDs,
		DateFrom:    req.DateFrom,
		DateTo:      req.DateTo,
	})
	if err != nil {
		return p.fail(jobID, err)
	}

	if err := ctx.Err(); err != nil {
		return p.fail(jobID, err)
	}

	if _, err := p.writer.Write(ctx, jobID, req.Format, docs, req.WithMetadata()); err != nil {
		return p.fail(jobID, err)
	}

	downloadURL := "/api/export/download/" + jobID
	completedAt := time.Now().UTC()
	if err := p.store.Update(jobID, func(j *entity.ExportJob) {
		j.Status = entity.StatusCompleted
		j.CompletedAt = &completedAt
		j.DownloadURL = &downloadURL
		j.TotalRecords = len(docs)
	}); err != nil {
		return err
	}

	p.logger.Info("export job completed",
		"job_id", jobID,
		"format", req.Format,
		"records", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Processor) fail(jobID string, cause error) error {
	completedAt := time.Now().UTC()
	message := cause.Error()
	if err := p.store.Update(jobID, func(j *entity.ExportJob) {
		j.Status = entity.StatusFailed
		j.CompletedAt = &completedAt
		j.ErrorMessage = &message
	}); err != nil {
		p.logger.Error("failed to record job failure", "job_id", jobID, "error", err)
	}
	p.logger.Warn("export job failed", "job_id", jobID, "error", message)
	return cause
}
