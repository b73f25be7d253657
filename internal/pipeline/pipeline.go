package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"influencerd/internal/audit"
	"influencerd/internal/jobs"
	"influencerd/internal/media"
	"influencerd/internal/middleware"
	"influencerd/internal/providers/image"
	"influencerd/internal/providers/speech"
	"influencerd/internal/providers/video"
	"influencerd/internal/storage"
)

// Deps collects the collaborators every executor needs. All of them are
// injected; the pipelines hold no global state.
type Deps struct {
	Registry *jobs.Registry
	Store    *storage.FileStore
	Images   image.Generator
	Videos   video.Generator
	Speech   speech.Synthesizer
	Muxer    media.Muxer
	Audit    *audit.Recorder
	Logger   zerolog.Logger

	PollBudget      time.Duration
	PollInterval    time.Duration
	DefaultDuration int
}

// Pipelines hosts the executors. Each executor is scheduled once per job by
// the boundary layer and is the sole writer to that job's record.
type Pipelines struct {
	registry *jobs.Registry
	store    *storage.FileStore
	images   image.Generator
	videos   video.Generator
	speech   speech.Synthesizer
	muxer    media.Muxer
	audit    *audit.Recorder
	logger   zerolog.Logger
	poller   Poller

	defaultDuration int
}

// New constructs the pipeline set.
func New(deps Deps) *Pipelines {
	defaultDuration := deps.DefaultDuration
	if defaultDuration <= 0 {
		defaultDuration = 8
	}
	return &Pipelines{
		registry:        deps.Registry,
		store:           deps.Store,
		images:          deps.Images,
		videos:          deps.Videos,
		speech:          deps.Speech,
		muxer:           deps.Muxer,
		audit:           deps.Audit,
		logger:          deps.Logger,
		poller:          NewPoller(deps.PollBudget, deps.PollInterval),
		defaultDuration: defaultDuration,
	}
}

// run is the single outer guard shared by every executor: any error from the
// steps becomes a failed job plus a best-effort audit status patch. Nothing
// is retried.
func (p *Pipelines) run(ctx context.Context, jobID, kind string, fn func() error) {
	log := p.logger.With().Str("job_id", jobID).Str("pipeline", kind).Logger()
	if rid := middleware.RequestIDFromContext(ctx); rid != "" {
		log = log.With().Str("request_id", rid).Logger()
	}
	log.Info().Msg("pipeline: started")
	if err := fn(); err != nil {
		log.Error().Err(err).Msg("pipeline: failed")
		p.registry.Fail(jobID, err)
		p.patchAuditFailure(ctx, jobID, err)
		return
	}
	log.Info().Msg("pipeline: completed")
}

// recordAudit pushes a metadata record and remembers its id on the job.
// Failures here are logged and swallowed; they never affect the job outcome.
func (p *Pipelines) recordAudit(ctx context.Context, jobID string, fields audit.Fields) {
	if !p.audit.Enabled() {
		return
	}
	recordID, err := p.audit.CreateRecord(ctx, fields)
	if err != nil {
		p.logger.Warn().Err(err).Str("job_id", jobID).Msg("pipeline: audit record failed")
		return
	}
	p.registry.SetAuditRef(jobID, recordID)
}

// patchAuditFailure pushes a failure status to a previously created audit
// record, if one exists. Best-effort like recordAudit.
func (p *Pipelines) patchAuditFailure(ctx context.Context, jobID string, cause error) {
	if !p.audit.Enabled() {
		return
	}
	job, ok := p.registry.Get(jobID)
	if !ok || job.AuditRef == "" {
		return
	}
	if err := p.audit.UpdateStatus(ctx, job.AuditRef, "Failed", cause.Error()); err != nil {
		p.logger.Warn().Err(err).Str("job_id", jobID).Msg("pipeline: audit failure update failed")
	}
}

// DownloadURL builds the boundary-facing reference for an output artifact.
func DownloadURL(filename string) string {
	return "/api/v1/download/" + filename
}

func outputKey(filename string) string {
	return storage.DirOutput + "/" + filename
}

func tempKey(filename string) string {
	return storage.DirTemp + "/" + filename
}
