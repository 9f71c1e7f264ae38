package export

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ediscovery-service/internal/async"
	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

type stubQueue struct {
	mu   sync.Mutex
	jobs []async.Job
	err  error
}

func (q *stubQueue) Enqueue(_ context.Context, job async.Job) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	return nil
}

func (q *stubQueue) Shutdown(context.Context) {}

func newTestService(t *testing.T) (*Service, *MemoryJobStore, *stubQueue, *Writer) {
	t.Helper()
	store := NewMemoryJobStore()
	queue := &stubQueue{}
	writer := NewWriter(t.TempDir())
	return NewService(store, queue, writer, nil), store, queue, writer
}

func TestSubmitCreatesPendingJob(t *testing.T) {
	svc, store, queue, _ := newTestService(t)

	caseID := int64(1)
	job, err := svc.Submit(context.Background(), entity.ExportRequest{
		Format: entity.FormatJSON,
		CaseID: &caseID,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StatusPending, job.Status)
	assert.Equal(t, entity.FormatJSON, job.Format)
	assert.True(t, strings.HasPrefix(job.JobID, "export_"))
	assert.Nil(t, job.CompletedAt)
	assert.Nil(t, job.DownloadURL)
	assert.Zero(t, job.TotalRecords)

	stored, err := store.Get(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, job.JobID, queue.jobs[0].JobID)
	require.NotNil(t, queue.jobs[0].Request.CaseID)
	assert.Equal(t, int64(1), *queue.jobs[0].Request.CaseID)
}

func TestSubmitDefaultsToCSV(t *testing.T) {
	svc, _, queue, _ := newTestService(t)

	job, err := svc.Submit(context.Background(), entity.ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.FormatCSV, job.Format)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, entity.FormatCSV, queue.jobs[0].Request.Format)
}

func TestSubmitRejectsUnsupportedFormat(t *testing.T) {
	svc, _, queue, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), entity.ExportRequest{Format: "pdf"})
	require.ErrorIs(t, err, common.ErrUnsupportedFormat)

	// no job is created and nothing is scheduled
	assert.Empty(t, queue.jobs)
}

func TestSubmitEnqueueFailureRecordedOnJob(t *testing.T) {
	store := NewMemoryJobStore()
	queue := &stubQueue{err: common.ErrInternal}
	svc := NewService(store, queue, NewWriter(t.TempDir()), nil)

	job, err := svc.Submit(context.Background(), entity.ExportRequest{Format: entity.FormatCSV})
	require.NoError(t, err)

	stored, err := store.Get(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
}

func TestJobIDsUniqueUnderConcurrentSubmission(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	const (
		goroutines = 20
		perRoutine = 10
	)
	ids := make(chan string, goroutines*perRoutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perRoutine; i++ {
				job, err := svc.Submit(context.Background(), entity.ExportRequest{Format: entity.FormatCSV})
				assert.NoError(t, err)
				ids <- job.JobID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		require.False(t, seen[id], "duplicate job id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perRoutine)
}

func TestStatusUnknownJob(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Status("missing")
	require.ErrorIs(t, err, common.ErrJobNotFound)
}

func TestDownloadUnknownJob(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Download("missing")
	require.ErrorIs(t, err, common.ErrJobNotFound)
}

func TestDownloadBeforeCompletion(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	job, err := svc.Submit(context.Background(), entity.ExportRequest{Format: entity.FormatCSV})
	require.NoError(t, err)

	_, err = svc.Download(job.JobID)
	require.ErrorIs(t, err, common.ErrJobNotReady)
	assert.NotErrorIs(t, err, common.ErrJobNotFound)
}

func TestDownloadMissingFile(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	job, err := svc.Submit(context.Background(), entity.ExportRequest{Format: entity.FormatCSV})
	require.NoError(t, err)

	completedAt := time.Now().UTC()
	require.NoError(t, store.Update(job.JobID, func(j *entity.ExportJob) {
		j.Status = entity.StatusCompleted
		j.CompletedAt = &completedAt
	}))

	_, err = svc.Download(job.JobID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDownloadCompletedJob(t *testing.T) {
	svc, store, _, writer := newTestService(t)

	job, err := svc.Submit(context.Background(), entity.ExportRequest{Format: entity.FormatJSON})
	require.NoError(t, err)

	_, err = writer.Write(context.Background(), job.JobID, entity.FormatJSON, sampleDocs(), true)
	require.NoError(t, err)

	completedAt := time.Now().UTC()
	require.NoError(t, store.Update(job.JobID, func(j *entity.ExportJob) {
		j.Status = entity.StatusCompleted
		j.CompletedAt = &completedAt
	}))

	file, err := svc.Download(job.JobID)
	require.NoError(t, err)
	assert.Equal(t, writer.FilePath(job.JobID, entity.FormatJSON), file.Path)
	assert.Equal(t, "application/json", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "ediscovery_export_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".json"))
	assert.NotContains(t, file.Filename, job.JobID)
}

func TestFormatsCatalog(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	formats := svc.Formats()
	require.Len(t, formats, 3)

	ids := make([]entity.ExportFormat, 0, len(formats))
	for _, f := range formats {
		ids = append(ids, f.ID)
		assert.NotEmpty(t, f.Name)
		assert.NotEmpty(t, f.Extension)
		assert.NotEmpty(t, f.Description)
	}
	assert.ElementsMatch(t, []entity.ExportFormat{
		entity.FormatCSV, entity.FormatJSON, entity.FormatXLSX,
	}, ids)
}
