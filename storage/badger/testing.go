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


package badger

import "github.com/poiesic/recall/storage"

// MemoryStores bundles in-memory store implementations for testing.
type MemoryStores struct {
	Index     storage.VectorIndex
	History   storage.HistoryRepository
	Documents storage.DocumentRepository
	Backend   *Backend
}

// Close closes the stores and the backing database.
func (m *MemoryStores) Close() error {
	m.Index.Close()
	m.History.Close()
	m.Documents.Close()
	return m.Backend.Close()
}

// NewMemoryStores creates in-memory vector index, history and document
// stores for testing. Caller must Close when done.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	index, err := NewVectorIndex(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	history, err := NewHistoryRepository(backend)
	if err != nil {
		index.Close()
		backend.Close()
		return nil, err
	}

	documents, err := NewDocumentRepository(backend)
	if err != nil {
		history.Close()
		index.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Index:     index,
		History:   history,
		Documents: documents,
		Backend:   backend,
	}, nil
}
