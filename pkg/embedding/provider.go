package embedding

import "context"

// Provider generates text embeddings for source chunks
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
