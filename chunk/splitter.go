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


// Package chunk splits document text into ordered, token-bounded chunks
// with whole-sentence overlap between adjacent chunks.
package chunk

import (
	"strings"

	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/token"
)

const (
	// DefaultMaxTokens bounds the estimated token length of a chunk.
	DefaultMaxTokens = 500
	// DefaultOverlapSentences is the number of sentences carried between
	// adjacent chunks.
	DefaultOverlapSentences = 2
)

// Splitter splits text into token-bounded, sentence-aligned chunks.
// Identical input and configuration always produce identical output.
type Splitter struct {
	maxTokens        int
	overlapSentences int
	counter          token.Counter
}

// Option configures a Splitter.
type Option func(*Splitter) error

// WithMaxTokens sets the token bound per chunk.
func WithMaxTokens(maxTokens int) Option {
	return func(s *Splitter) error {
		if maxTokens <= 0 {
			return core.ErrInvalidMaxTokens
		}
		s.maxTokens = maxTokens
		return nil
	}
}

// WithOverlapSentences sets the number of sentences carried from the end
// of a chunk to the start of the next. Zero disables overlap.
func WithOverlapSentences(overlap int) Option {
	return func(s *Splitter) error {
		if overlap < 0 {
			return core.ErrNegativeOverlap
		}
		s.overlapSentences = overlap
		return nil
	}
}

// NewSplitter creates a Splitter that measures text with counter.
func NewSplitter(counter token.Counter, opts ...Option) (*Splitter, error) {
	if counter == nil {
		return nil, ErrCounterRequired
	}

	s := &Splitter{
		maxTokens:        DefaultMaxTokens,
		overlapSentences: DefaultOverlapSentences,
		counter:          counter,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Split chunks text into ordered core.Chunk values.
// Empty or whitespace-only text yields no chunks. Sentences are packed
// greedily while the running token estimate stays within the bound; when a
// sentence would overflow, the chunk is closed and the next one is seeded
// with the trailing overlap sentences. A single sentence longer than the
// bound is split on commas; a comma fragment that is still over the bound
// is emitted as its own over-budget chunk.
func (s *Splitter) Split(text string) []core.Chunk {
	sentences := segmentSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks    []core.Chunk
		cur       []string
		curTokens int
	)

	closeChunk := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, core.Chunk{
			Index:  len(chunks),
			Text:   strings.Join(cur, " "),
			Tokens: curTokens,
		})
	}

	for _, sent := range sentences {
		tl := s.counter.Count(sent)

		if tl > s.maxTokens {
			// Oversized sentence: fall back to comma fragments. Overlap
			// carry does not apply across fallback boundaries.
			for _, part := range splitOnCommas(sent) {
				pt := s.counter.Count(part)
				if curTokens+pt > s.maxTokens && len(cur) > 0 {
					closeChunk()
					cur = nil
					curTokens = 0
				}
				cur = append(cur, part)
				curTokens += pt
			}
			continue
		}

		if curTokens+tl <= s.maxTokens {
			cur = append(cur, sent)
			curTokens += tl
			continue
		}

		closeChunk()

		// Seed the next chunk with trailing overlap sentences, dropping
		// the oldest while the seed plus the triggering sentence would
		// itself overflow the bound.
		overlap := cur[max(0, len(cur)-s.overlapSentences):]
		if s.overlapSentences == 0 {
			overlap = nil
		}
		seedTokens := tl
		for _, o := range overlap {
			seedTokens += s.counter.Count(o)
		}
		for len(overlap) > 0 && seedTokens > s.maxTokens {
			seedTokens -= s.counter.Count(overlap[0])
			overlap = overlap[1:]
		}

		cur = append(append([]string(nil), overlap...), sent)
		curTokens = seedTokens
	}

	closeChunk()
	return chunks
}

// splitOnCommas breaks a sentence into trimmed non-empty comma fragments.
func splitOnCommas(sentence string) []string {
	raw := strings.Split(sentence, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return []string{strings.TrimSpace(sentence)}
	}
	return parts
}
