package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) *MemoryStores {
	t.Helper()
	stores, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() { stores.Close() })
	return stores
}

func indexChunks(texts ...string) []core.Chunk {
	chunks := make([]core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = core.Chunk{Index: i, Text: text, Tokens: len(text)}
	}
	return chunks
}

func TestVectorIndexQueryOrdersByDistance(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	chunks := indexChunks("north", "east", "northeast")
	vectors := [][]float32{
		{0, 1},
		{1, 0},
		{1, 1},
	}
	require.NoError(t, stores.Index.Upsert(ctx, "chat-1", chunks, vectors))

	results, err := stores.Index.Query(ctx, "chat-1", []float32{0, 1}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "north", results[0].Text)
	assert.Equal(t, "northeast", results[1].Text)
	assert.Equal(t, "east", results[2].Text)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
	assert.LessOrEqual(t, results[1].Distance, results[2].Distance)
}

func TestVectorIndexQueryBreaksTiesByChunkIndex(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	// Identical vectors, so all distances tie
	chunks := indexChunks("first", "second", "third")
	vectors := [][]float32{
		{1, 0},
		{1, 0},
		{1, 0},
	}
	require.NoError(t, stores.Index.Upsert(ctx, "chat-1", chunks, vectors))

	results, err := stores.Index.Query(ctx, "chat-1", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.Equal(t, 1, results[1].ChunkIndex)
}

func TestVectorIndexQueryReturnsFewerThanTopK(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	chunks := indexChunks("only one")
	require.NoError(t, stores.Index.Upsert(ctx, "chat-1", chunks, [][]float32{{1, 0}}))

	results, err := stores.Index.Query(ctx, "chat-1", []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestVectorIndexQueryUnknownSession(t *testing.T) {
	stores := newTestStores(t)

	results, err := stores.Index.Query(context.Background(), "nobody", []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVectorIndexSessionIsolation(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Index.Upsert(ctx, "alice",
		indexChunks("alice chunk"), [][]float32{{1, 0}}))
	require.NoError(t, stores.Index.Upsert(ctx, "bob",
		indexChunks("bob chunk one", "bob chunk two"),
		[][]float32{{1, 0}, {0, 1}}))

	results, err := stores.Index.Query(ctx, "alice", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice chunk", results[0].Text)
}

func TestVectorIndexSessionIsolationPrefixIDs(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	// One session id is a prefix of the other; key ranges must not overlap.
	require.NoError(t, stores.Index.Upsert(ctx, "a",
		indexChunks("short session"), [][]float32{{1, 0}}))
	require.NoError(t, stores.Index.Upsert(ctx, "a:b",
		indexChunks("long session"), [][]float32{{1, 0}}))

	results, err := stores.Index.Query(ctx, "a", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "short session", results[0].Text)
}

func TestVectorIndexUpsertIdempotent(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	chunks := indexChunks("repeat one", "repeat two")
	vectors := [][]float32{{1, 0}, {0, 1}}

	require.NoError(t, stores.Index.Upsert(ctx, "chat-1", chunks, vectors))
	require.NoError(t, stores.Index.Upsert(ctx, "chat-1", chunks, vectors))

	count, err := stores.Index.Count(ctx, "chat-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVectorIndexUpsertLengthMismatch(t *testing.T) {
	stores := newTestStores(t)

	err := stores.Index.Upsert(context.Background(), "chat-1",
		indexChunks("a", "b"), [][]float32{{1, 0}})
	assert.ErrorIs(t, err, storage.ErrLengthMismatch)
}

func TestVectorIndexDelete(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	require.NoError(t, stores.Index.Upsert(ctx, "gone",
		indexChunks("x", "y"), [][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, stores.Index.Upsert(ctx, "kept",
		indexChunks("z"), [][]float32{{1, 1}}))

	require.NoError(t, stores.Index.Delete(ctx, "gone"))

	count, err := stores.Index.Count(ctx, "gone")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = stores.Index.Count(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Deleting again is a no-op
	assert.NoError(t, stores.Index.Delete(ctx, "gone"))
}

func TestVectorIndexQueryValidation(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	_, err := stores.Index.Query(ctx, "", []float32{1}, 3)
	assert.ErrorIs(t, err, core.ErrEmptySessionID)

	_, err = stores.Index.Query(ctx, "chat-1", []float32{1}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidTopK)

	_, err = stores.Index.Query(ctx, "chat-1", nil, 3)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestVectorIndexManyChunks(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	n := 50
	chunks := make([]core.Chunk, n)
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		chunks[i] = core.Chunk{Index: i, Text: fmt.Sprintf("chunk %d", i)}
		vectors[i] = []float32{float32(i), float32(n - i)}
	}
	require.NoError(t, stores.Index.Upsert(ctx, "big", chunks, vectors))

	results, err := stores.Index.Query(ctx, "big", []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Closest to the x axis is the highest chunk index
	assert.Equal(t, n-1, results[0].ChunkIndex)
}
