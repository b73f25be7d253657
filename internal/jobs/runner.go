package jobs

import (
	"fmt"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
)

// Runner schedules pipeline executors onto a shared goroutine pool so that
// submissions return immediately while the work proceeds detached from the
// request path.
type Runner struct {
	pool     *ants.Pool
	registry *Registry
	logger   zerolog.Logger
}

// NewRunner creates a runner backed by a pool of size workers.
func NewRunner(size int, registry *Registry, logger zerolog.Logger) (*Runner, error) {
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(v any) {
		logger.Error().Interface("panic", v).Msg("runner: executor panicked")
	}))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Runner{pool: pool, registry: registry, logger: logger}, nil
}

// Schedule runs fn for jobID on the pool. A panic inside fn fails the job
// instead of killing the worker; a pool submission error fails the job
// synchronously so the caller never leaves a record stuck in pending.
func (r *Runner) Schedule(jobID string, fn func()) error {
	err := r.pool.Submit(func() {
		defer func() {
			if v := recover(); v != nil {
				r.logger.Error().Str("job_id", jobID).Interface("panic", v).Msg("runner: executor panicked")
				r.registry.Fail(jobID, fmt.Errorf("internal error: %v", v))
			}
		}()
		fn()
	})
	if err != nil {
		r.registry.Fail(jobID, fmt.Errorf("schedule job: %w", err))
		return err
	}
	return nil
}

// Running reports the number of executors currently in flight.
func (r *Runner) Running() int {
	return r.pool.Running()
}

// Release shuts the pool down. In-flight executors finish; new submissions
// are rejected.
func (r *Runner) Release() {
	r.pool.Release()
}
