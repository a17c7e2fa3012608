package registry

import (
	"sync"

	"github.com/moldock/docking-be/internal/docking/domain"
)

// Registry is the process-wide job ID → Job mapping. Job state lives in
// process memory only and does not survive a restart; that is an accepted
// limitation of this service, not an oversight.
//
// Only the pipeline run owning a given job ID mutates that entry, but readers
// poll concurrently with pipeline writes, so every access goes through the
// lock. A reader may observe PROCESSING with a partially filled result
// sequence; the registry promises nothing stronger than the most recent
// committed state.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		jobs: make(map[string]*domain.Job),
	}
}

// Put stores a job record, replacing any existing record with the same ID.
func (r *Registry) Put(job *domain.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[job.JobID] = job
}

// Get returns a snapshot copy of the job, or ErrJobNotFound. Callers may hold
// and mutate the snapshot freely; it never aliases pipeline-owned state.
func (r *Registry) Get(jobID string) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	return snapshot(job), nil
}

// Update applies fn to the stored job under the write lock. Returns
// ErrJobNotFound if the job has been deleted in the meantime.
func (r *Registry) Update(jobID string, fn func(job *domain.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}

	fn(job)
	return nil
}

// Delete removes the job record. It does not touch the filesystem; artifact
// cleanup is the caller's responsibility.
func (r *Registry) Delete(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[jobID]; !ok {
		return domain.ErrJobNotFound
	}

	delete(r.jobs, jobID)
	return nil
}

// snapshot deep-copies the fields a reader could otherwise race on.
func snapshot(job *domain.Job) *domain.Job {
	cp := *job

	if job.LigandResults != nil {
		cp.LigandResults = make([]domain.LigandResult, len(job.LigandResults))
		copy(cp.LigandResults, job.LigandResults)
	}

	if job.CompletedAt != nil {
		t := *job.CompletedAt
		cp.CompletedAt = &t
	}

	return &cp
}
