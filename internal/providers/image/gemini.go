package image

import (
	"context"

	"emojibooth/internal/providers/genai"
)

// GeminiGenerator adapts the genai client to the Generator contract.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (Asset, error) {
	asset, err := g.client.EditImage(ctx, genai.ImageRequest{
		Prompt:     req.Prompt,
		RequestID:  req.RequestID,
		SourceData: req.Source.Data,
		SourceMIME: req.Source.MIME,
	})
	if err != nil {
		return Asset{}, err
	}
	return Asset{
		Data:   asset.Data,
		Format: asset.Format,
		Width:  asset.Width,
		Height: asset.Height,
	}, nil
}

var _ Generator = (*GeminiGenerator)(nil)
