package video

import (
	"context"

	"influencerd/internal/providers/genai"
)

// GenerateRequest describes one long-running video generation submission.
type GenerateRequest struct {
	Prompt          string
	AspectRatio     string
	DurationSeconds int
	ImageBytes      []byte
	ImageMIME       string
}

// Generator drives a provider's asynchronous video generation: submit an
// operation, refresh it until done, then download the referenced result.
type Generator interface {
	Start(ctx context.Context, req GenerateRequest) (*genai.Operation, error)
	Refresh(ctx context.Context, op *genai.Operation) (*genai.Operation, error)
	Download(ctx context.Context, ref genai.VideoRef) ([]byte, error)
}

// Veo generates videos through the Veo predictLongRunning endpoint.
type Veo struct {
	client *genai.Client
	model  string
}

// NewVeo constructs a Veo generator for the given model.
func NewVeo(client *genai.Client, model string) *Veo {
	return &Veo{client: client, model: model}
}

func (g *Veo) Start(ctx context.Context, req GenerateRequest) (*genai.Operation, error) {
	return g.client.StartVideoGeneration(ctx, genai.VideoRequest{
		Model:           g.model,
		Prompt:          req.Prompt,
		AspectRatio:     req.AspectRatio,
		DurationSeconds: req.DurationSeconds,
		ImageBytes:      req.ImageBytes,
		ImageMIME:       req.ImageMIME,
	})
}

func (g *Veo) Refresh(ctx context.Context, op *genai.Operation) (*genai.Operation, error) {
	return g.client.GetOperation(ctx, op.Name)
}

func (g *Veo) Download(ctx context.Context, ref genai.VideoRef) ([]byte, error) {
	return g.client.DownloadFile(ctx, ref.URI)
}

var _ Generator = (*Veo)(nil)
