package storage

import (
	"testing"
	"time"

	"github.com/poiesic/recall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexEntryRoundTrip(t *testing.T) {
	entry := &core.IndexEntry{
		SessionID:  "chat-7",
		ChunkIndex: 3,
		Text:       "The quick brown fox jumps over the lazy dog.",
		Vector:     []float32{0.25, -0.5, 0.75, 1.0},
	}

	data := MarshalIndexEntry(entry)
	got, err := UnmarshalIndexEntry(data)
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}

func TestTurnRoundTrip(t *testing.T) {
	turn := &core.Turn{
		Role:      core.RoleAssistant,
		Content:   "It covers photosynthesis.",
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}

	data := MarshalTurn(turn)
	got, err := UnmarshalTurn(data)
	require.NoError(t, err)
	assert.Equal(t, turn, got)
}

func TestDocumentRoundTrip(t *testing.T) {
	text := "Full extracted document text."
	doc := &core.Document{
		SessionID:   "chat-7",
		Text:        text,
		Fingerprint: core.FingerprintFromContent(text),
		UploadedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	data := MarshalDocument(doc)
	got, err := UnmarshalDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestUnmarshalTruncatedData(t *testing.T) {
	entry := &core.IndexEntry{SessionID: "s", ChunkIndex: 0, Text: "t", Vector: []float32{1}}
	data := MarshalIndexEntry(entry)

	_, err := UnmarshalIndexEntry(data[:len(data)-2])
	assert.Error(t, err)
}
