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


package ingest

import (
	"context"
	"log/slog"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/chunk"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// Task indexes a session's document: it loads the extracted text, splits
// it into chunks, embeds them in a single batch and upserts the vectors.
// The upsert only runs once chunking and embedding have both fully
// succeeded, so a failed run leaves the session's prior index state
// untouched.
type Task struct {
	documents storage.DocumentRepository
	splitter  *chunk.Splitter
	embedder  ai.Embedder
	index     storage.VectorIndex
	logger    *slog.Logger
}

// TaskOption configures a Task.
type TaskOption func(*Task) error

// WithTaskLogger sets a custom logger.
// Default is slog.Default().
func WithTaskLogger(logger *slog.Logger) TaskOption {
	return func(t *Task) error {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
		return nil
	}
}

// NewTask creates a new ingestion task.
func NewTask(
	documents storage.DocumentRepository,
	splitter *chunk.Splitter,
	embedder ai.Embedder,
	index storage.VectorIndex,
	opts ...TaskOption,
) (*Task, error) {
	if documents == nil {
		return nil, ErrDocumentsRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if index == nil {
		return nil, ErrIndexRequired
	}

	t := &Task{
		documents: documents,
		splitter:  splitter,
		embedder:  embedder,
		index:     index,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Run performs one ingestion for the session. Safe to invoke repeatedly:
// each successful run fully supersedes the entries it writes. Returns
// ErrNoChunks when the document text yields nothing to index.
func (t *Task) Run(ctx context.Context, sessionID string) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}

	text, err := t.documents.GetText(ctx, sessionID)
	if err != nil {
		return err
	}

	chunks := t.splitter.Split(text)
	if len(chunks) == 0 {
		return ErrNoChunks
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := t.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	if err := t.index.Upsert(ctx, sessionID, chunks, vectors); err != nil {
		return err
	}

	t.logger.Info("ingested document", "session", sessionID, "chunks", len(chunks))
	return nil
}
