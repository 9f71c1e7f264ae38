package export

import (
	"sync"

	"github.com/joseph-ayodele/ediscovery-service/internal/common"
	"github.com/joseph-ayodele/ediscovery-service/internal/entity"
)

// JobStore is the authoritative mapping from job id to job record, shared by
// the API (status/download) and the processor (mutation). Updates are atomic
// per job id; a concurrent reader never observes a torn record.
type JobStore interface {
	Create(job entity.ExportJob) error
	Get(jobID string) (entity.ExportJob, error)
	Update(jobID string, mutate func(*entity.ExportJob)) error
}

// MemoryJobStore keeps job records in process memory. State is volatile and
// unbounded: records survive until the process exits and are never evicted.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*entity.ExportJob
}

// NewMemoryJobStore creates an empty in-memory job store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*entity.ExportJob)}
}

// Create inserts a new job record.
func (s *MemoryJobStore) Create(job entity.ExportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.JobID]; ok {
		return common.NewAppError("DUPLICATE_JOB", job.JobID, common.ErrDuplicateJob)
	}
	j := job
	s.jobs[job.JobID] = &j
	return nil
}

// Get returns a copy of the job record.
func (s *MemoryJobStore) Get(jobID string) (entity.ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return entity.ExportJob{}, common.ErrJobNotFound
	}
	return *j, nil
}

// Update applies the mutator to the stored record under the write lock.
func (s *MemoryJobStore) Update(jobID string, mutate func(*entity.ExportJob)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return common.ErrJobNotFound
	}
	mutate(j)
	return nil
}
