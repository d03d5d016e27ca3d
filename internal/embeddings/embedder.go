package embeddings

import "context"

// Embedder turns text into vectors for the taxonomy and catalog
// collections.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector width the model produces.
	Dimensions() int

	// Name identifies the model, for logs.
	Name() string
}
