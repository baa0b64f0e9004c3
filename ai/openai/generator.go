// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

var _ ai.Generator = (*Generator)(nil)

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.GenerationHost),
		openai.WithToken("none"),
		openai.WithModel(config.GenerationModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		timeout: config.RequestTimeout,
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// Generate invokes the chat model with the given messages and returns the
// answer text. The call carries a bounded timeout; exceeding it surfaces
// as a transient generation failure.
func (g *Generator) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	content := make([]llms.MessageContent, len(messages))
	for i, m := range messages {
		content[i] = llms.MessageContent{
			Role:  chatMessageType(m.Role),
			Parts: []llms.ContentPart{llms.TextPart(m.Content)},
		}
	}

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		genErr := ai.ClassifyGenerationError(err)
		g.logger.Error("generation call failed", "transient", genErr.Transient, "err", err)
		return "", genErr
	}

	if len(response.Choices) < 1 {
		g.logger.Warn("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case "system":
		return llms.ChatMessageTypeSystem
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
