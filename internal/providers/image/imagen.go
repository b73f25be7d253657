package image

import (
	"context"

	"influencerd/internal/providers/genai"
)

// GenerateRequest describes one image generation call.
type GenerateRequest struct {
	Prompt      string
	AspectRatio string
}

// Asset is a generated image.
type Asset struct {
	Data []byte
	MIME string
}

// Generator produces reference images from a text prompt.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) ([]Asset, error)
}

// Imagen generates images through the Imagen prediction endpoint.
type Imagen struct {
	client *genai.Client
	model  string
}

// NewImagen constructs an Imagen generator for the given model.
func NewImagen(client *genai.Client, model string) *Imagen {
	return &Imagen{client: client, model: model}
}

func (g *Imagen) Generate(ctx context.Context, req GenerateRequest) ([]Asset, error) {
	images, err := g.client.GenerateImages(ctx, genai.ImageRequest{
		Model:       g.model,
		Prompt:      req.Prompt,
		SampleCount: 1,
		AspectRatio: req.AspectRatio,
	})
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(images))
	for _, img := range images {
		assets = append(assets, Asset{Data: img.Data, MIME: img.MIME})
	}
	return assets, nil
}

var _ Generator = (*Imagen)(nil)
