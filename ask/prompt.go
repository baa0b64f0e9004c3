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


package ask

import (
	"strings"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/token"
)

// defaultInstructions is the fixed instruction block for every prompt.
const defaultInstructions = "You are a helpful AI assistant. " +
	"Extract the exact answer from the context. Do not include extra text."

// promptBuilder assembles the generation prompt from named, ordered
// sections: instructions, retrieved context, conversation history and
// the current query. Rendering is deterministic for a fixed input.
type promptBuilder struct {
	instructions string
	context      []string
	history      []core.Turn
	query        string
	counter      token.Counter
}

// newPromptBuilder creates a builder over ranked chunk texts and
// oldest-first history. The history is immediately trimmed to an even
// number of messages by dropping the oldest, so it always holds whole
// question/answer pairs.
func newPromptBuilder(counter token.Counter, chunks []core.RetrievedChunk, history []core.Turn, query string) *promptBuilder {
	context := make([]string, len(chunks))
	for i, chunk := range chunks {
		context[i] = chunk.Text
	}

	if len(history)%2 != 0 {
		history = history[1:]
	}

	return &promptBuilder{
		instructions: defaultInstructions,
		context:      context,
		history:      history,
		query:        query,
		counter:      counter,
	}
}

// HistoryLen returns the number of messages currently in the history
// section. Always even.
func (b *promptBuilder) HistoryLen() int {
	return len(b.history)
}

// DropOldestPair removes the oldest question/answer pair from the
// history section. Returns false when no full pair remains.
func (b *promptBuilder) DropOldestPair() bool {
	if len(b.history) < 2 {
		return false
	}
	b.history = b.history[2:]
	return true
}

// Messages renders the prompt as an ordered message list: the
// instruction block, one message per history turn, and a final user
// message carrying the context block and the literal query.
func (b *promptBuilder) Messages() []ai.Message {
	messages := make([]ai.Message, 0, len(b.history)+2)
	messages = append(messages, ai.Message{Role: "system", Content: b.instructions})

	for _, turn := range b.history {
		role := "user"
		if turn.Role == core.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, ai.Message{Role: role, Content: turn.Content})
	}

	var final strings.Builder
	final.WriteString("Context:\n")
	final.WriteString(strings.Join(b.context, "\n\n"))
	final.WriteString("\n\nQuery: ")
	final.WriteString(b.query)
	messages = append(messages, ai.Message{Role: "user", Content: final.String()})

	return messages
}

// EstimateTokens returns the estimated token count of the fully
// rendered prompt with the current candidate history inserted.
func (b *promptBuilder) EstimateTokens() int {
	var rendered strings.Builder
	for _, msg := range b.Messages() {
		rendered.WriteString(msg.Content)
		rendered.WriteString("\n")
	}
	return b.counter.Count(rendered.String())
}
