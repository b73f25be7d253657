package jobs

import (
	"fmt"
	"sync"
	"time"

	"influencerd/internal/domain"
)

// Registry is the in-memory store of job records shared between the request
// boundary and the background executors. It is the single source of truth
// for job state; all access goes through its lock.
//
// Records are never evicted. They are garbage-collected with the process,
// matching the submit-now-poll-later contract of the API.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

// NewRegistry constructs an empty registry. Callers inject the instance into
// the boundary layer and every executor; there is no package-level state.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*domain.Job)}
}

// Create inserts a fresh pending record for id.
func (r *Registry) Create(id string) (domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; ok {
		return domain.Job{}, domain.ErrDuplicateJob
	}
	now := time.Now()
	job := &domain.Job{
		ID:        id,
		Status:    domain.JobStatusPending,
		Progress:  0,
		Message:   "Job queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[id] = job
	return snapshot(job), nil
}

// Get returns an immutable snapshot of the record, or false when unknown.
func (r *Registry) Get(id string) (domain.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, false
	}
	return snapshot(job), true
}

// Len reports the number of tracked jobs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// Update merges the non-nil fields of upd into the record. It reports false
// when the job does not exist. Terminal records are never mutated, and
// progress never moves backwards.
func (r *Registry) Update(id string, upd domain.JobUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return false
	}
	if job.Status.Terminal() {
		return true
	}
	if upd.Status != nil {
		job.Status = *upd.Status
	}
	if upd.Progress != nil && *upd.Progress > job.Progress {
		p := *upd.Progress
		if p > 100 {
			p = 100
		}
		job.Progress = p
	}
	if upd.Message != nil {
		job.Message = *upd.Message
	}
	if upd.ResultURL != nil {
		job.ResultURL = *upd.ResultURL
	}
	if upd.ResultURLs != nil {
		job.ResultURLs = cloneURLs(upd.ResultURLs)
	}
	if upd.Error != nil {
		job.Error = *upd.Error
	}
	if upd.AuditRef != nil {
		job.AuditRef = *upd.AuditRef
	}
	job.UpdatedAt = time.Now()
	return true
}

// SetProgress pushes a milestone update while the job is processing.
func (r *Registry) SetProgress(id string, progress int, message string) bool {
	status := domain.JobStatusProcessing
	upd := domain.JobUpdate{Status: &status, Progress: &progress}
	if message != "" {
		upd.Message = &message
	}
	return r.Update(id, upd)
}

// Complete marks the job completed with its result references.
func (r *Registry) Complete(id, resultURL, message string, resultURLs map[string]string) bool {
	status := domain.JobStatusCompleted
	progress := 100
	if message == "" {
		message = "Completed successfully"
	}
	return r.Update(id, domain.JobUpdate{
		Status:     &status,
		Progress:   &progress,
		Message:    &message,
		ResultURL:  &resultURL,
		ResultURLs: resultURLs,
	})
}

// Fail marks the job failed, recording the error's description.
func (r *Registry) Fail(id string, err error) bool {
	status := domain.JobStatusFailed
	detail := err.Error()
	message := fmt.Sprintf("Failed: %s", detail)
	return r.Update(id, domain.JobUpdate{
		Status:  &status,
		Message: &message,
		Error:   &detail,
	})
}

// SetAuditRef records the external audit record identifier for the job.
func (r *Registry) SetAuditRef(id, ref string) bool {
	// Audit refs may arrive after the job turned terminal; they still need
	// to land so a later failure patch can find the record.
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return false
	}
	job.AuditRef = ref
	return true
}

func snapshot(job *domain.Job) domain.Job {
	out := *job
	out.ResultURLs = cloneURLs(job.ResultURLs)
	return out
}

func cloneURLs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
