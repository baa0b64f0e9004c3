package storage

import (
	"context"

	"github.com/poiesic/recall/core"
)

// VectorIndex is the per-session similarity store.
// Implementations must be thread-safe and support concurrent access.
// Session-id scoping is the only consistency discipline: entries of
// different sessions never mix, and no cross-session transaction exists.
type VectorIndex interface {
	// Upsert writes or overwrites the entries for sessionID at the
	// deterministic ids derived from each chunk index. Requires
	// len(chunks) == len(vectors). Re-running with identical content
	// produces an observably identical index state.
	Upsert(ctx context.Context, sessionID string, chunks []core.Chunk, vectors [][]float32) error

	// Query returns at most topK entries for sessionID, ordered by
	// ascending cosine distance to vector, ties broken by ascending
	// chunk index. Entries of other sessions are never returned.
	Query(ctx context.Context, sessionID string, vector []float32, topK int) ([]core.RetrievedChunk, error)

	// Delete removes all entries for sessionID.
	// It is a no-op if none exist.
	Delete(ctx context.Context, sessionID string) error

	// Count returns the number of entries stored for sessionID.
	Count(ctx context.Context, sessionID string) (int, error)

	// Close closes the index and releases resources.
	Close() error
}

// HistoryRepository stores the append-only conversation turns per session.
type HistoryRepository interface {
	// AppendTurns appends turns to a session's conversation in order.
	AppendTurns(ctx context.Context, sessionID string, turns ...core.Turn) error

	// RecentTurns returns up to limit turns for sessionID, newest first.
	// Callers reverse to oldest-first for prompt assembly.
	RecentTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error)

	// DeleteSession removes all turns for sessionID. Idempotent.
	DeleteSession(ctx context.Context, sessionID string) error

	// Close closes the repository and releases resources.
	Close() error
}

// DocumentRepository stores the extracted document text bound to a session.
// A session owns at most one document; a put replaces it wholesale.
type DocumentRepository interface {
	// PutDocument stores doc, replacing any previous document for the
	// same session.
	PutDocument(ctx context.Context, doc *core.Document) error

	// GetDocument retrieves the document for sessionID.
	// Returns ErrNotFound if the session has no document.
	GetDocument(ctx context.Context, sessionID string) (*core.Document, error)

	// GetText retrieves just the extracted text for sessionID.
	// Returns ErrNotFound if the session has no document.
	GetText(ctx context.Context, sessionID string) (string, error)

	// DeleteDocument removes the document for sessionID. Idempotent.
	DeleteDocument(ctx context.Context, sessionID string) error

	// Close closes the repository and releases resources.
	Close() error
}
