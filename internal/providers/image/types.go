package image

import "context"

// SourceImage is the uploaded photo used as conditioning input.
type SourceImage struct {
	Data []byte
	MIME string
}

// GenerateRequest describes a normalized request passed to any image provider.
type GenerateRequest struct {
	Prompt    string
	RequestID string
	Source    SourceImage
}

// Asset represents one generated image.
type Asset struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (Asset, error)
}
