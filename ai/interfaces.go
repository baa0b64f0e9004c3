package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in
	// a single batched call. The returned slice contains embeddings in the
	// same order and of the same length as the input texts. A failure
	// fails the whole batch; partial results are never returned.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Message is a single chat message handed to a Generator.
type Message struct {
	// Role is "system", "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Generator produces answer text from an ordered list of chat messages.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate invokes the generation model with the given messages and
	// returns the raw answer text. Failures are classified as transient
	// or permanent via GenerationError.
	Generate(ctx context.Context, messages []Message) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// Generator instances, ensuring they share configuration and that the
// underlying model clients are built once per process.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
