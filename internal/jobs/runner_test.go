package jobs

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"influencerd/internal/domain"
)

func waitForStatus(t *testing.T, r *Registry, id string, want domain.JobStatus) domain.Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if job, ok := r.Get(id); ok && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := r.Get(id)
	t.Fatalf("job %s status = %q, want %q", id, job.Status, want)
	return domain.Job{}
}

func TestScheduleRunsFunction(t *testing.T) {
	registry := NewRegistry()
	runner, err := NewRunner(2, registry, zerolog.Nop())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer runner.Release()

	if _, err := registry.Create("job-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := runner.Schedule("job-1", func() {
		registry.Complete("job-1", "/done", "", nil)
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	waitForStatus(t, registry, "job-1", domain.JobStatusCompleted)
}

func TestSchedulePanicFailsJob(t *testing.T) {
	registry := NewRegistry()
	runner, err := NewRunner(2, registry, zerolog.Nop())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	defer runner.Release()

	if _, err := registry.Create("job-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := runner.Schedule("job-1", func() {
		panic("executor blew up")
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	job := waitForStatus(t, registry, "job-1", domain.JobStatusFailed)
	if job.Error != "internal error: executor blew up" {
		t.Fatalf("error = %q", job.Error)
	}
}

func TestScheduleAfterRelease(t *testing.T) {
	registry := NewRegistry()
	runner, err := NewRunner(1, registry, zerolog.Nop())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	runner.Release()

	if _, err := registry.Create("job-1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := runner.Schedule("job-1", func() {}); err == nil {
		t.Fatalf("expected schedule on released pool to fail")
	}
	job, _ := registry.Get("job-1")
	if job.Status != domain.JobStatusFailed {
		t.Fatalf("status = %q, want failed", job.Status)
	}
}
