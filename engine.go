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


package recall

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/ai/openai"
	"github.com/poiesic/recall/ask"
	"github.com/poiesic/recall/chunk"
	"github.com/poiesic/recall/config"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/ingest"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
	"github.com/poiesic/recall/token"
)

// Engine is the top-level facade: it owns the storage backend, the AI
// provider, the chunker and the ask/ingest components, wired from one
// AppConfig.
type Engine struct {
	backend   *badger.Backend
	index     storage.VectorIndex
	history   storage.HistoryRepository
	documents storage.DocumentRepository
	provider  ai.Provider
	counter   token.Counter
	splitter  *chunk.Splitter
	asker     *ask.Asker
	task      *ingest.Task
	queue     *ingest.Queue
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cfg      *config.AppConfig
	provider ai.Provider
	counter  token.Counter
	inMemory bool
}

// WithConfig sets the application configuration.
// Default is config.DefaultConfig().
func WithConfig(cfg *config.AppConfig) EngineOption {
	return func(o *engineOptions) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithProvider overrides the AI provider. Useful for tests; the default
// is an OpenAI-compatible provider built from the configured hosts.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithCounter overrides the token counter. The default loads the
// tiktoken default encoding.
func WithCounter(counter token.Counter) EngineOption {
	return func(o *engineOptions) {
		o.counter = counter
	}
}

// WithInMemory opens the storage backend in memory, ignoring the path.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// Open creates an Engine with its storage at filePath.
// Caller must Close when done.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		cfg: config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	cfg := options.cfg

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	index, err := badger.NewVectorIndex(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	history, err := badger.NewHistoryRepository(backend)
	if err != nil {
		index.Close()
		backend.Close()
		return nil, err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		history.Close()
		index.Close()
		backend.Close()
		return nil, err
	}

	closeStores := func() {
		documents.Close()
		history.Close()
		index.Close()
		backend.Close()
	}

	counter := options.counter
	if counter == nil {
		counter, err = token.NewTiktokenCounter("")
		if err != nil {
			closeStores()
			return nil, err
		}
	}

	provider := options.provider
	if provider == nil {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
			ai.WithGenerationHost(cfg.AI.GenerationHost),
			ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
			ai.WithGenerationModel(cfg.AI.GenerationModel),
			ai.WithRequestTimeout(time.Duration(cfg.AI.TimeoutSecs)*time.Second),
		)
		provider, err = openai.NewProvider(aiConfig)
		if err != nil {
			closeStores()
			return nil, err
		}
	}

	splitter, err := chunk.NewSplitter(counter,
		chunk.WithMaxTokens(cfg.Chunker.MaxTokens),
		chunk.WithOverlapSentences(cfg.Chunker.OverlapSentences),
	)
	if err != nil {
		provider.Close()
		closeStores()
		return nil, err
	}

	asker, err := ask.NewAsker(index, history, provider, counter,
		ask.WithTopK(cfg.Ask.TopK),
		ask.WithMaxTurns(cfg.Ask.MaxTurns),
		ask.WithTokenBudget(cfg.Ask.TokenBudget),
		ask.WithSafetyMargin(cfg.Ask.SafetyMargin),
	)
	if err != nil {
		provider.Close()
		closeStores()
		return nil, err
	}

	task, err := ingest.NewTask(documents, splitter, provider.Embedder(), index)
	if err != nil {
		provider.Close()
		closeStores()
		return nil, err
	}

	queueOpts := []ingest.QueueOption{
		ingest.WithQueueSize(cfg.Ingest.QueueSize),
		ingest.WithMaxAttempts(cfg.Ingest.MaxAttempts),
		ingest.WithBaseDelay(time.Duration(cfg.Ingest.BackoffSecs) * time.Second),
	}
	if cfg.Ingest.Workers > 0 {
		queueOpts = append(queueOpts, ingest.WithWorkers(cfg.Ingest.Workers))
	}
	queue, err := ingest.NewQueue(task, queueOpts...)
	if err != nil {
		provider.Close()
		closeStores()
		return nil, err
	}

	return &Engine{
		backend:   backend,
		index:     index,
		history:   history,
		documents: documents,
		provider:  provider,
		counter:   counter,
		splitter:  splitter,
		asker:     asker,
		task:      task,
		queue:     queue,
		logger:    slog.Default(),
	}, nil
}

// Close drains the ingestion queue and releases every component.
func (e *Engine) Close() error {
	if err := e.queue.Close(); err != nil {
		e.logger.Error("error closing ingestion queue", "err", err)
	}
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.documents.Close(); err != nil {
		e.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := e.history.Close(); err != nil {
		e.logger.Error("error closing history repository", "err", err)
		return err
	}
	if err := e.index.Close(); err != nil {
		e.logger.Error("error closing vector index", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// UploadDocument stores text as the session's document and enqueues its
// ingestion. Returns without waiting for the indexing to finish.
func (e *Engine) UploadDocument(ctx context.Context, sessionID, text string) error {
	doc := &core.Document{SessionID: sessionID, Text: text}
	if err := e.documents.PutDocument(ctx, doc); err != nil {
		return err
	}
	return e.queue.Enqueue(sessionID)
}

// Ingest indexes the session's stored document synchronously, bypassing
// the queue.
func (e *Engine) Ingest(ctx context.Context, sessionID string) error {
	return e.task.Run(ctx, sessionID)
}

// Ask answers a question about the session's document.
func (e *Engine) Ask(ctx context.Context, sessionID, query string) (string, error) {
	return e.asker.Ask(ctx, sessionID, query)
}

// AskTopK answers a question retrieving at most topK chunks.
func (e *Engine) AskTopK(ctx context.Context, sessionID, query string, topK int) (string, error) {
	return e.asker.AskTopK(ctx, sessionID, query, topK)
}

// DeleteSession removes the session's index entries, history and
// document. Idempotent.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) error {
	if err := e.index.Delete(ctx, sessionID); err != nil {
		return err
	}
	if err := e.history.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	return e.documents.DeleteDocument(ctx, sessionID)
}

// Index returns the vector index.
func (e *Engine) Index() storage.VectorIndex {
	return e.index
}

// History returns the conversation history repository.
func (e *Engine) History() storage.HistoryRepository {
	return e.history
}

// Documents returns the document repository.
func (e *Engine) Documents() storage.DocumentRepository {
	return e.documents
}

// Asker returns the retrieval orchestrator.
func (e *Engine) Asker() *ask.Asker {
	return e.asker
}

// Queue returns the ingestion queue.
func (e *Engine) Queue() *ingest.Queue {
	return e.queue
}
