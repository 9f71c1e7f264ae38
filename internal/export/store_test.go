package export

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

func pendingJob(id string) entity.ExportJob {
	return entity.ExportJob{
		JobID:     id,
		Status:    entity.StatusPending,
		Format:    entity.FormatCSV,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryJobStoreCreateAndGet(t *testing.T) {
	store := NewMemoryJobStore()

	require.NoError(t, store.Create(pendingJob("job-1")))

	got, err := store.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.JobID)
	assert.Equal(t, entity.StatusPending, got.Status)
}

func TestMemoryJobStoreDuplicateCreate(t *testing.T) {
	store := NewMemoryJobStore()

	require.NoError(t, store.Create(pendingJob("job-1")))
	err := store.Create(pendingJob("job-1"))
	require.ErrorIs(t, err, common.ErrDuplicateJob)
}

func TestMemoryJobStoreGetUnknown(t *testing.T) {
	store := NewMemoryJobStore()

	_, err := store.Get("nope")
	require.ErrorIs(t, err, common.ErrJobNotFound)

	err = store.Update("nope", func(j *entity.ExportJob) {})
	require.ErrorIs(t, err, common.ErrJobNotFound)
}

func TestMemoryJobStoreUpdate(t *testing.T) {
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(pendingJob("job-1")))

	require.NoError(t, store.Update("job-1", func(j *entity.ExportJob) {
		j.Status = entity.StatusProcessing
	}))

	got, err := store.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusProcessing, got.Status)
}

func TestMemoryJobStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(pendingJob("job-1")))

	got, err := store.Get("job-1")
	require.NoError(t, err)
	got.Status = entity.StatusFailed

	again, err := store.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, again.Status)
}

// Concurrent readers polling a job while the processor mutates it must only
// ever observe consistent records: completed_at and total_records appear
// together with the completed status.
func TestMemoryJobStoreConcurrentReadersNeverSeeTornWrites(t *testing.T) {
	store := NewMemoryJobStore()
	require.NoError(t, store.Create(pendingJob("job-1")))

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				got, err := store.Get("job-1")
				if err != nil {
					t.Error(err)
					return
				}
				if got.Status == entity.StatusCompleted {
					if got.CompletedAt == nil || got.TotalRecords != 42 {
						t.Errorf("torn read: %+v", got)
					}
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		require.NoError(t, store.Update("job-1", func(j *entity.ExportJob) {
			j.Status = entity.StatusProcessing
			j.CompletedAt = nil
			j.TotalRecords = 0
		}))
		completedAt := time.Now().UTC()
		require.NoError(t, store.Update("job-1", func(j *entity.ExportJob) {
			j.Status = entity.StatusCompleted
			j.CompletedAt = &completedAt
			j.TotalRecords = 42
		}))
	}
	close(done)
	wg.Wait()
}

func TestMemoryJobStoreConcurrentCreates(t *testing.T) {
	store := NewMemoryJobStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, store.Create(pendingJob(fmt.Sprintf("job-%d", n))))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		_, err := store.Get(fmt.Sprintf("job-%d", i))
		assert.NoError(t, err)
	}
}
