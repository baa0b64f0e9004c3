package ask

import (
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilderRendersSectionsInOrder(t *testing.T) {
	chunks := []core.RetrievedChunk{
		{Text: "First ranked chunk."},
		{Text: "Second ranked chunk."},
	}
	history := []core.Turn{
		{Role: core.RoleUser, Content: "Earlier question?"},
		{Role: core.RoleAssistant, Content: "Earlier answer."},
	}

	b := newPromptBuilder(token.HeuristicCounter{}, chunks, history, "Current question?")
	messages := b.Messages()
	require.Len(t, messages, 4)

	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "Earlier question?", messages[1].Content)
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "Earlier answer.", messages[2].Content)

	final := messages[3]
	assert.Equal(t, "user", final.Role)
	assert.Contains(t, final.Content, "First ranked chunk.\n\nSecond ranked chunk.")
	assert.Contains(t, final.Content, "Query: Current question?")
}

func TestPromptBuilderEnforcesParity(t *testing.T) {
	history := []core.Turn{
		{Role: core.RoleAssistant, Content: "dangling"},
		{Role: core.RoleUser, Content: "question"},
		{Role: core.RoleAssistant, Content: "answer"},
	}

	b := newPromptBuilder(token.HeuristicCounter{}, nil, history, "q")
	assert.Equal(t, 2, b.HistoryLen())

	messages := b.Messages()
	assert.Equal(t, "question", messages[1].Content)
}

func TestPromptBuilderDropOldestPair(t *testing.T) {
	history := []core.Turn{
		{Role: core.RoleUser, Content: "old q"},
		{Role: core.RoleAssistant, Content: "old a"},
		{Role: core.RoleUser, Content: "new q"},
		{Role: core.RoleAssistant, Content: "new a"},
	}

	b := newPromptBuilder(token.HeuristicCounter{}, nil, history, "q")
	before := b.EstimateTokens()

	require.True(t, b.DropOldestPair())
	assert.Equal(t, 2, b.HistoryLen())
	assert.Less(t, b.EstimateTokens(), before)

	require.True(t, b.DropOldestPair())
	assert.Equal(t, 0, b.HistoryLen())
	assert.False(t, b.DropOldestPair())
}

func TestPromptBuilderDeterministic(t *testing.T) {
	chunks := []core.RetrievedChunk{{Text: "chunk"}}
	history := []core.Turn{
		{Role: core.RoleUser, Content: "q"},
		{Role: core.RoleAssistant, Content: "a"},
	}

	b1 := newPromptBuilder(token.HeuristicCounter{}, chunks, history, "query")
	b2 := newPromptBuilder(token.HeuristicCounter{}, chunks, history, "query")
	assert.Equal(t, b1.Messages(), b2.Messages())
	assert.Equal(t, b1.EstimateTokens(), b2.EstimateTokens())
}

func TestSanitizeAnswer(t *testing.T) {
	assert.Equal(t, "clean", sanitizeAnswer("  clean  "))
	assert.Equal(t, "clean", sanitizeAnswer("<｜begin▁of▁sentence｜>clean"))
	assert.Equal(t, "a b", sanitizeAnswer("a<｜end▁of▁sentence｜> b"))
	assert.Equal(t, "", sanitizeAnswer("<｜begin▁of▁sentence｜>"))
}
