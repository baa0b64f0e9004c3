package mock

import (
	"context"

	"github.com/poiesic/recall/ai"
)

// Generator is a test double for ai.Generator.
type Generator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, Response is returned.
	GenerateFunc func(ctx context.Context, messages []ai.Message) (string, error)

	// Response is the fixed answer returned when GenerateFunc is nil.
	Response string

	callCount int
	lastCall  []ai.Message
}

// NewGenerator creates a mock generator returning the given fixed response.
func NewGenerator(response string) *Generator {
	return &Generator{Response: response}
}

// Generate records the call and returns the scripted behavior.
func (m *Generator) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	m.callCount++
	m.lastCall = messages

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, messages)
	}
	return m.Response, nil
}

// CallCount returns the number of Generate calls made.
func (m *Generator) CallCount() int {
	return m.callCount
}

// LastMessages returns the messages from the most recent Generate call.
func (m *Generator) LastMessages() []ai.Message {
	return m.lastCall
}

// Reset clears recorded calls and injected behavior.
func (m *Generator) Reset() {
	m.callCount = 0
	m.lastCall = nil
	m.GenerateFunc = nil
}
