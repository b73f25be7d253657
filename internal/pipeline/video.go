package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"influencerd/internal/audit"
	"influencerd/internal/providers/video"
	"influencerd/internal/storage"
)

// VideoParams is the validated input for the video pipeline. The reference
// image key points into the store: a fresh upload under temp/, or a prior
// character job's artifact under output/.
type VideoParams struct {
	Prompt             string
	ProductDescription string
	ReferenceImageKey  string
	AspectRatio        string
	DurationSeconds    int
}

// GenerateVideo drives a Veo long-running operation to completion and
// persists the downloaded result.
func (p *Pipelines) GenerateVideo(ctx context.Context, jobID string, params VideoParams) {
	p.run(ctx, jobID, "video", func() error {
		return p.generateVideo(ctx, jobID, params)
	})
}

func (p *Pipelines) generateVideo(ctx context.Context, jobID string, params VideoParams) error {
	p.registry.SetProgress(jobID, 10, "Preparing video generation...")

	refImage, err := p.store.Read(ctx, params.ReferenceImageKey)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("character reference image not found")
		}
		return err
	}

	fullPrompt := fmt.Sprintf("%s\n\nShowing: %s", params.Prompt, params.ProductDescription)

	p.registry.SetProgress(jobID, 20, "Sending request to Veo...")
	op, err := p.videos.Start(ctx, video.GenerateRequest{
		Prompt:          fullPrompt,
		AspectRatio:     params.AspectRatio,
		DurationSeconds: params.DurationSeconds,
		ImageBytes:      refImage,
		ImageMIME:       "image/jpeg",
	})
	if err != nil {
		return fmt.Errorf("start video generation: %w", err)
	}

	p.registry.SetProgress(jobID, 30, "Generating video (30-90 seconds)...")
	// The refresh closure replaces op, so the returned handle is op itself.
	_, err = p.poller.Wait(ctx, op,
		func(ctx context.Context) (Handle, error) {
			next, err := p.videos.Refresh(ctx, op)
			if err != nil {
				return nil, err
			}
			op = next
			return next, nil
		},
		ProgressBand{Floor: 30, Ceil: 90},
		func(progress int) {
			p.registry.SetProgress(jobID, progress, "")
		},
	)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			// The provider may still finish this operation out-of-band; it
			// is abandoned, never reconciled.
			p.logger.Warn().Str("job_id", jobID).Str("operation", op.Name).Msg("video: operation abandoned after timeout")
			return fmt.Errorf("video generation timeout")
		}
		return fmt.Errorf("poll video operation: %w", err)
	}

	if op.Err != nil {
		return fmt.Errorf("video generation failed: %w", op.Err)
	}
	if len(op.Videos) == 0 {
		return fmt.Errorf("video generation returned no videos")
	}

	p.registry.SetProgress(jobID, 90, "Downloading video...")
	data, err := p.videos.Download(ctx, op.Videos[0])
	if err != nil {
		return err
	}

	videoName := storage.ArtifactName(jobID, "video", "mp4")
	if _, err := p.store.Write(ctx, outputKey(videoName), data); err != nil {
		return err
	}

	p.registry.Complete(jobID, DownloadURL(videoName), "Video generated successfully", nil)
	p.recordAudit(ctx, jobID, audit.Fields{
		"Job ID":              jobID,
		"Type":                "Video",
		"Prompt":              params.Prompt,
		"Product Description": params.ProductDescription,
		"Aspect Ratio":        params.AspectRatio,
		"Duration (seconds)":  params.DurationSeconds,
		"Status":              "Completed",
	})
	return nil
}
