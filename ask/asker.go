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
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/token"
)

const (
	// DefaultTopK is the number of chunks retrieved per question.
	DefaultTopK = 3

	// DefaultMaxTurns is the number of question/answer pairs fetched
	// from conversation history.
	DefaultMaxTurns = 5

	// DefaultTokenBudget is the prompt token budget.
	DefaultTokenBudget = 3000

	// DefaultSafetyMargin is subtracted from the budget before the
	// truncation loop compares against it.
	DefaultSafetyMargin = 200
)

// NoContextAnswer is returned when a session has neither indexed chunks
// nor conversation history. It is a successful outcome, not an error,
// and costs no generation call.
const NoContextAnswer = "No relevant context found for this chat."

// Asker answers questions about a session's document by retrieving the
// closest indexed chunks and generating over them.
type Asker struct {
	embedder     ai.Embedder
	generator    ai.Generator
	index        storage.VectorIndex
	history      storage.HistoryRepository
	counter      token.Counter
	topK         int
	maxTurns     int
	tokenBudget  int
	safetyMargin int
	monitor      Monitor
	logger       *slog.Logger
}

// Option configures an Asker.
type Option func(*Asker) error

// WithTopK sets the number of chunks retrieved per question.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(a *Asker) error {
		if topK <= 0 {
			return core.ErrInvalidTopK
		}
		a.topK = topK
		return nil
	}
}

// WithMaxTurns sets how many question/answer pairs of history are
// fetched. Zero disables history. Default is DefaultMaxTurns.
func WithMaxTurns(maxTurns int) Option {
	return func(a *Asker) error {
		if maxTurns < 0 {
			return ErrInvalidMaxTurns
		}
		a.maxTurns = maxTurns
		return nil
	}
}

// WithTokenBudget sets the prompt token budget.
// Default is DefaultTokenBudget.
func WithTokenBudget(budget int) Option {
	return func(a *Asker) error {
		if budget <= 0 {
			return ErrInvalidTokenBudget
		}
		a.tokenBudget = budget
		return nil
	}
}

// WithSafetyMargin sets the margin subtracted from the token budget.
// Default is DefaultSafetyMargin.
func WithSafetyMargin(margin int) Option {
	return func(a *Asker) error {
		if margin < 0 {
			return ErrInvalidSafetyMargin
		}
		a.safetyMargin = margin
		return nil
	}
}

// WithMonitor sets a monitor receiving stage callbacks.
func WithMonitor(monitor Monitor) Option {
	return func(a *Asker) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		a.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Asker) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAsker creates a new Asker.
func NewAsker(
	index storage.VectorIndex,
	history storage.HistoryRepository,
	provider ai.Provider,
	counter token.Counter,
	opts ...Option,
) (*Asker, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if history == nil {
		return nil, ErrHistoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if counter == nil {
		return nil, ErrCounterRequired
	}

	a := &Asker{
		embedder:     provider.Embedder(),
		generator:    provider.Generator(),
		index:        index,
		history:      history,
		counter:      counter,
		topK:         DefaultTopK,
		maxTurns:     DefaultMaxTurns,
		tokenBudget:  DefaultTokenBudget,
		safetyMargin: DefaultSafetyMargin,
		monitor:      &noopMonitor{},
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.safetyMargin >= a.tokenBudget {
		return nil, ErrInvalidSafetyMargin
	}

	return a, nil
}

// Ask answers a question about the session's document using the
// configured top-k.
func (a *Asker) Ask(ctx context.Context, sessionID, query string) (string, error) {
	return a.AskTopK(ctx, sessionID, query, a.topK)
}

// AskTopK answers a question about the session's document, retrieving
// at most topK chunks. Returns NoContextAnswer when the session has
// neither indexed chunks nor history. Embedding failures and classified
// generation failures propagate to the caller without retry.
func (a *Asker) AskTopK(ctx context.Context, sessionID, query string, topK int) (string, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return "", err
	}
	if err := core.ValidateQuery(query); err != nil {
		return "", err
	}
	if topK <= 0 {
		return "", core.ErrInvalidTopK
	}

	a.monitor.Start(query)

	vector, err := a.embedder.EmbedText(ctx, query)
	if err != nil {
		a.logger.Error("error embedding query", "session", sessionID, "err", err)
		return "", err
	}
	a.monitor.AfterQueryEmbedding(vector)

	chunks, err := a.index.Query(ctx, sessionID, vector, topK)
	if err != nil {
		a.logger.Error("error querying index", "session", sessionID, "err", err)
		return "", err
	}
	a.monitor.AfterRetrieval(chunks)

	history, err := a.fetchHistory(ctx, sessionID)
	if err != nil {
		a.logger.Error("error fetching history", "session", sessionID, "err", err)
		return "", err
	}
	a.monitor.AfterHistoryFetch(history)

	if len(chunks) == 0 && len(history) == 0 {
		a.monitor.Finish(NoContextAnswer)
		return NoContextAnswer, nil
	}

	builder := newPromptBuilder(a.counter, chunks, history, query)

	limit := a.tokenBudget - a.safetyMargin
	dropped := 0
	for builder.EstimateTokens() > limit {
		if !builder.DropOldestPair() {
			// Context is never truncated. With history exhausted the
			// prompt goes out over budget.
			break
		}
		dropped++
	}
	a.monitor.AfterTruncation(dropped, builder.EstimateTokens())
	if dropped > 0 {
		a.logger.Debug("truncated history to fit token budget",
			"session", sessionID, "droppedPairs", dropped)
	}

	answer, err := a.generator.Generate(ctx, builder.Messages())
	if err != nil {
		a.logger.Error("error generating answer", "session", sessionID, "err", err)
		return "", err
	}

	cleaned := sanitizeAnswer(answer)
	a.monitor.Finish(cleaned)
	return cleaned, nil
}

// fetchHistory returns up to maxTurns question/answer pairs for the
// session, oldest first.
func (a *Asker) fetchHistory(ctx context.Context, sessionID string) ([]core.Turn, error) {
	if a.maxTurns == 0 {
		return nil, nil
	}

	turns, err := a.history.RecentTurns(ctx, sessionID, a.maxTurns*2)
	if err != nil {
		return nil, err
	}

	// RecentTurns is newest-first; prompts want oldest-first.
	slices.Reverse(turns)
	return turns, nil
}
