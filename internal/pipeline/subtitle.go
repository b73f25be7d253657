package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"influencerd/internal/media"
	"influencerd/internal/storage"
)

// SubtitleParams is the validated input for the subtitle burn-in pipeline.
type SubtitleParams struct {
	VideoJobID string
	Text       string
	Language   string
	FontSize   int
	FontColor  string
}

// BurnSubtitles renders a single-cue subtitle over a previously generated
// video.
func (p *Pipelines) BurnSubtitles(ctx context.Context, jobID string, params SubtitleParams) {
	p.run(ctx, jobID, "subtitle", func() error {
		return p.burnSubtitles(ctx, jobID, params)
	})
}

func (p *Pipelines) burnSubtitles(ctx context.Context, jobID string, params SubtitleParams) error {
	text := strings.TrimSpace(params.Text)
	if text == "" {
		return fmt.Errorf("subtitle text is required")
	}
	videoName := storage.ArtifactName(params.VideoJobID, "video", "mp4")
	if !p.store.Exists(outputKey(videoName)) {
		return fmt.Errorf("video not found for job %s", params.VideoJobID)
	}

	p.registry.SetProgress(jobID, 20, "Preparing subtitles...")
	clipDuration := time.Duration(p.defaultDuration) * time.Second
	srt := media.SingleCueSRT(text, clipDuration)
	srtKey := tempKey(storage.ArtifactName(jobID, "subtitle", "srt"))
	srtPath, err := p.store.Write(ctx, srtKey, []byte(srt))
	if err != nil {
		return err
	}

	p.registry.SetProgress(jobID, 50, "Burning subtitles into video...")
	videoPath, err := p.store.Path(outputKey(videoName))
	if err != nil {
		return err
	}
	outName := storage.ArtifactName(jobID, "subtitled", "mp4")
	outPath, err := p.store.Path(outputKey(outName))
	if err != nil {
		return err
	}
	style := media.SubtitleStyle{FontSize: params.FontSize, FontColor: params.FontColor}
	if err := p.muxer.BurnSubtitles(ctx, videoPath, srtPath, outPath, style); err != nil {
		return err
	}

	p.registry.Complete(jobID, DownloadURL(outName), "Subtitles burned in successfully", nil)
	return nil
}
