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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptySessionID indicates a session id was empty or whitespace.
	ErrEmptySessionID = errors.New("session id cannot be empty")

	// ErrEmptyText indicates document text was empty or whitespace.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEmptyQuery indicates a query string was empty or whitespace.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidRole indicates an invalid Role value.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidTopK indicates a non-positive top-k parameter.
	ErrInvalidTopK = errors.New("top-k must be greater than zero")

	// ErrInvalidMaxTokens indicates a non-positive chunk token bound.
	ErrInvalidMaxTokens = errors.New("max tokens must be greater than zero")

	// ErrNegativeOverlap indicates a negative sentence overlap.
	ErrNegativeOverlap = errors.New("overlap sentences cannot be negative")
)
