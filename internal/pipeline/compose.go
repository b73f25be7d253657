package pipeline

import (
	"context"
	"fmt"

	"influencerd/internal/storage"
)

// ComposeParams is the validated input for the final composition pipeline.
// The voiceover job is optional; without it the video stream is copied
// through unchanged.
type ComposeParams struct {
	VideoJobID     string
	VoiceoverJobID string
}

// ComposeVideo muxes a generated video with an optional voiceover track into
// the final deliverable.
func (p *Pipelines) ComposeVideo(ctx context.Context, jobID string, params ComposeParams) {
	p.run(ctx, jobID, "compose", func() error {
		return p.composeVideo(ctx, jobID, params)
	})
}

func (p *Pipelines) composeVideo(ctx context.Context, jobID string, params ComposeParams) error {
	videoName := storage.ArtifactName(params.VideoJobID, "video", "mp4")
	if !p.store.Exists(outputKey(videoName)) {
		return fmt.Errorf("video not found for job %s", params.VideoJobID)
	}
	videoPath, err := p.store.Path(outputKey(videoName))
	if err != nil {
		return err
	}

	audioPath := ""
	if params.VoiceoverJobID != "" {
		audioName := storage.ArtifactName(params.VoiceoverJobID, "voiceover", "mp3")
		if !p.store.Exists(outputKey(audioName)) {
			return fmt.Errorf("voiceover not found for job %s", params.VoiceoverJobID)
		}
		if audioPath, err = p.store.Path(outputKey(audioName)); err != nil {
			return err
		}
	}

	p.registry.SetProgress(jobID, 30, "Composing final video...")
	outName := storage.ArtifactName(jobID, "final", "mp4")
	outPath, err := p.store.Path(outputKey(outName))
	if err != nil {
		return err
	}
	if err := p.muxer.Mux(ctx, videoPath, audioPath, outPath); err != nil {
		return err
	}

	p.registry.Complete(jobID, DownloadURL(outName), "Final video composed successfully", nil)
	return nil
}
