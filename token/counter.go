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


// Package token provides token-length estimation for chunking and prompt
// budgeting. Both consumers share one Counter so chunk bounds and prompt
// budgets are measured on the same scale.
package token

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE encoding used when none is specified.
const DefaultEncoding = "cl100k_base"

// Counter estimates the token length of text.
// Implementations must be safe for concurrent use.
type Counter interface {
	Count(text string) int
}

// TiktokenCounter counts tokens with a BPE encoding.
// The encoding is loaded once and shared read-only across goroutines.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

var _ Counter = (*TiktokenCounter)(nil)

// NewTiktokenCounter loads the named BPE encoding.
// Pass an empty name to use DefaultEncoding.
func NewTiktokenCounter(encodingName string) (*TiktokenCounter, error) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &TiktokenCounter{encoding: enc}, nil
}

// Count returns the exact BPE token count of text.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// HeuristicCounter approximates token counts without a tokenizer model.
// A token is counted per whitespace-separated word, plus one extra token
// per eight characters of each word. It overestimates slightly, which
// keeps budget checks conservative.
type HeuristicCounter struct{}

var _ Counter = HeuristicCounter{}

// Count returns an approximate token count for text.
func (HeuristicCounter) Count(text string) int {
	fields := strings.Fields(text)
	count := 0
	for _, f := range fields {
		count++
		if extra := len(f) / 8; extra > 0 {
			count += extra
		}
	}
	return count
}
