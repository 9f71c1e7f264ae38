package async

import (
	"context"
	"time"

	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// Job is one unit of export work: a job id already present in the job store
// as pending, plus the request that created it.
type Job struct {
	JobID       string
	Request     entity.ExportRequest
	SubmittedAt time.Time
}

// Queue dispatches export jobs for background execution.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}

// Processor executes one export job end-to-end. Failures are recorded on the
// job record; the returned error exists only for worker logging.
type Processor interface {
	Process(ctx context.Context, jobID string, req entity.ExportRequest) error
}
