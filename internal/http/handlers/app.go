package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"influencerd/internal/audit"
	"influencerd/internal/infra"
	"influencerd/internal/jobs"
	"influencerd/internal/middleware"
	"influencerd/internal/pipeline"
	"influencerd/internal/storage"

	"influencerd/internal/domain"
)

// App is the handler container; every boundary endpoint hangs off it. The
// registry, runner and pipelines are constructed in main and injected so
// tests can build isolated instances.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	Registry  *jobs.Registry
	Runner    *jobs.Runner
	Pipelines *pipeline.Pipelines
	Store     *storage.FileStore
	Audit     *audit.Recorder
}

// jobStatusResponse mirrors the job record for API consumers.
type jobStatusResponse struct {
	JobID      string            `json:"job_id"`
	Status     string            `json:"status"`
	Progress   int               `json:"progress"`
	Message    string            `json:"message"`
	ResultURL  string            `json:"result_url,omitempty"`
	ResultURLs map[string]string `json:"result_urls,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func jobStatusFromRecord(job domain.Job) jobStatusResponse {
	return jobStatusResponse{
		JobID:      job.ID,
		Status:     string(job.Status),
		Progress:   job.Progress,
		Message:    job.Message,
		ResultURL:  job.ResultURL,
		ResultURLs: job.ResultURLs,
		Error:      job.Error,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// detachedContext builds the context a background executor runs under: it
// outlives the request but keeps its id so pipeline logs stay correlated
// with the submission.
func detachedContext(r *http.Request) context.Context {
	return middleware.WithRequestID(context.Background(), middleware.RequestIDFromContext(r.Context()))
}

// accepted creates the job record, schedules the executor and writes the
// immediate submission response. The schedule call never blocks on pipeline
// work.
func (a *App) accepted(w http.ResponseWriter, jobID, message string, execute func()) {
	if _, err := a.Registry.Create(jobID); err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: create job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create job")
		return
	}
	if err := a.Runner.Schedule(jobID, execute); err != nil {
		a.Logger.Error().Err(err).Str("job_id", jobID).Msg("handlers: schedule job failed")
		a.error(w, http.StatusServiceUnavailable, "unavailable", "failed to schedule job")
		return
	}
	a.json(w, http.StatusAccepted, jobStatusResponse{
		JobID:    jobID,
		Status:   string(domain.JobStatusPending),
		Progress: 0,
		Message:  message,
	})
}
