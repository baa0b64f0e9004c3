package ingest

import "errors"

var (
	// ErrNoChunks is returned when a session's document produces no
	// chunks to index.
	ErrNoChunks = errors.New("no chunks found for this chat")

	// ErrQueueFull is returned by Enqueue when the pending buffer is
	// saturated.
	ErrQueueFull = errors.New("ingestion queue is full")

	// ErrQueueClosed is returned by Enqueue after Close.
	ErrQueueClosed = errors.New("ingestion queue is closed")

	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrDocumentsRequired is returned when no document repository is provided.
	ErrDocumentsRequired = errors.New("document repository is required")

	// ErrSplitterRequired is returned when no splitter is provided.
	ErrSplitterRequired = errors.New("splitter is required")

	// ErrIndexRequired is returned when no vector index is provided.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrTaskRequired is returned when no task is provided.
	ErrTaskRequired = errors.New("task is required")
)
