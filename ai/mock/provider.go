package mock

import "github.com/poiesic/recall/ai"

// Provider is a test double for ai.Provider aggregating mock services.
type Provider struct {
	MockEmbedder  *Embedder
	MockGenerator *Generator
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider with default mock services.
func NewProvider() *Provider {
	return &Provider{
		MockEmbedder:  NewEmbedder(),
		MockGenerator: NewGenerator("mock answer"),
	}
}

// Embedder returns the mock embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Generator returns the mock generation service.
func (p *Provider) Generator() ai.Generator {
	return p.MockGenerator
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
