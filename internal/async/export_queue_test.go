package async

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

type procFunc func(ctx context.Context, jobID string, req entity.ExportRequest) error

func (f procFunc) Process(ctx context.Context, jobID string, req entity.ExportRequest) error {
	return f(ctx, jobID, req)
}

func TestExportQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	processed := make(map[string]bool)
	done := make(chan struct{}, 10)

	q := NewExportQueue(procFunc(func(_ context.Context, jobID string, _ entity.ExportRequest) error {
		mu.Lock()
		processed[jobID] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}), nil, WithWorkers(2), WithQueueSize(16))

	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "a"}))
	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "b"}))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, processed["a"])
	assert.True(t, processed["b"])
}

func TestExportQueueEnqueueDoesNotBlockOnSlowJobs(t *testing.T) {
	release := make(chan struct{})
	q := NewExportQueue(procFunc(func(context.Context, string, entity.ExportRequest) error {
		<-release
		return nil
	}), nil, WithWorkers(1), WithQueueSize(8))
	defer close(release)

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "slow"}))
	}
	assert.Less(t, time.Since(start), time.Second, "submission must not wait on processing")
}

func TestExportQueueRejectsWhenFull(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	q := NewExportQueue(procFunc(func(context.Context, string, entity.ExportRequest) error {
		startedOnce.Do(func() { close(started) })
		<-release
		return nil
	}), nil, WithWorkers(1), WithQueueSize(1))

	// occupy the single worker, then fill the one-slot buffer
	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "busy"}))
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the job")
	}
	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "buffered"}))

	// a full buffer must reject promptly instead of blocking submission
	start := time.Now()
	err := q.Enqueue(context.Background(), Job{JobID: "overflow"})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	close(release)
	q.Shutdown(context.Background())
}

func TestExportQueueAppliesJobTimeout(t *testing.T) {
	deadlineSeen := make(chan bool, 1)

	q := NewExportQueue(procFunc(func(ctx context.Context, _ string, _ entity.ExportRequest) error {
		_, ok := ctx.Deadline()
		deadlineSeen <- ok
		return nil
	}), nil, WithWorkers(1), WithJobTimeout(50*time.Millisecond))

	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "a"}))

	select {
	case ok := <-deadlineSeen:
		assert.True(t, ok, "worker context must carry a deadline")
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
	q.Shutdown(context.Background())
}

func TestExportQueueShutdownDrains(t *testing.T) {
	var count atomic.Int32
	q := NewExportQueue(procFunc(func(context.Context, string, entity.ExportRequest) error {
		time.Sleep(10 * time.Millisecond)
		count.Add(1)
		return nil
	}), nil, WithWorkers(2), WithQueueSize(32))

	for i := 0; i < 10; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "x"}))
	}

	q.Shutdown(context.Background())
	assert.Equal(t, int32(10), count.Load())
}

func TestExportQueueRejectsAfterShutdown(t *testing.T) {
	q := NewExportQueue(procFunc(func(context.Context, string, entity.ExportRequest) error {
		return nil
	}), nil, WithWorkers(1))

	q.Shutdown(context.Background())
	err := q.Enqueue(context.Background(), Job{JobID: "late"})
	require.Error(t, err)
}

func TestExportQueueShutdownIdempotent(t *testing.T) {
	q := NewExportQueue(procFunc(func(context.Context, string, entity.ExportRequest) error {
		return nil
	}), nil, WithWorkers(1))

	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
}
