package pipeline

import (
	"context"
	"fmt"
	"strings"

	"influencerd/internal/audit"
	"influencerd/internal/storage"
)

// VoiceoverParams is the validated input for the voiceover pipeline.
type VoiceoverParams struct {
	Script   string
	Language string
}

// GenerateVoiceover synthesizes the script into an MP3 artifact with one
// synchronous TTS call.
func (p *Pipelines) GenerateVoiceover(ctx context.Context, jobID string, params VoiceoverParams) {
	p.run(ctx, jobID, "voiceover", func() error {
		return p.generateVoiceover(ctx, jobID, params)
	})
}

func (p *Pipelines) generateVoiceover(ctx context.Context, jobID string, params VoiceoverParams) error {
	script := strings.TrimSpace(params.Script)
	if script == "" {
		return fmt.Errorf("voiceover script is required")
	}

	p.registry.SetProgress(jobID, 50, "Generating voiceover...")
	audioData, err := p.speech.Synthesize(ctx, script, params.Language)
	if err != nil {
		return fmt.Errorf("generate voiceover: %w", err)
	}

	audioName := storage.ArtifactName(jobID, "voiceover", "mp3")
	if _, err := p.store.Write(ctx, outputKey(audioName), audioData); err != nil {
		return err
	}

	p.registry.Complete(jobID, DownloadURL(audioName), "Voiceover generated successfully", nil)
	p.recordAudit(ctx, jobID, audit.Fields{
		"Job ID":   jobID,
		"Type":     "Voiceover",
		"Script":   script,
		"Language": params.Language,
		"Status":   "Completed",
	})
	return nil
}
