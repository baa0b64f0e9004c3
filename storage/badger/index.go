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

import (
	"context"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB.
// Entries are stored under a per-session key range, so every query is
// scoped to exactly one session's chunks.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) (*VectorIndex, error) {
	return &VectorIndex{
		backend: backend,
	}, nil
}

// Close releases resources. VectorIndex has no resources to release.
func (idx *VectorIndex) Close() error {
	return nil
}

// Upsert writes one index entry per chunk under the session's key range.
// Vectors are normalized to unit length before storage so queries reduce
// to a dot product. Existing entries with the same chunk index are
// overwritten.
func (idx *VectorIndex) Upsert(ctx context.Context, sessionID string, chunks []core.Chunk, vectors [][]float32) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if len(chunks) != len(vectors) {
		return storage.ErrLengthMismatch
	}
	if len(chunks) == 0 {
		return nil
	}

	return idx.backend.WithTx(func(tx *badger.Txn) error {
		for i, chunk := range chunks {
			entry := &core.IndexEntry{
				SessionID:  sessionID,
				ChunkIndex: chunk.Index,
				Text:       chunk.Text,
				Vector:     storage.NormalizeVector(vectors[i]),
			}
			key := makeVectorEntryKey(sessionID, chunk.Index)
			if err := tx.Set(key, storage.MarshalIndexEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query returns the topK stored chunks closest to the query vector by
// cosine distance, ascending. Ties are broken by ascending chunk index.
// Only entries belonging to sessionID are considered. Returns fewer than
// topK results when the session holds fewer entries, and an empty slice
// for an unknown session.
func (idx *VectorIndex) Query(ctx context.Context, sessionID string, vector []float32, topK int) ([]core.RetrievedChunk, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return nil, core.ErrInvalidTopK
	}
	if len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	query := storage.NormalizeVector(vector)

	var results []core.RetrievedChunk
	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeVectorSessionPrefix(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var entry *core.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexEntry(val)
				return err
			})
			if err != nil {
				return err
			}

			results = append(results, core.RetrievedChunk{
				Text:       entry.Text,
				Distance:   storage.CosineDistance(query, entry.Vector),
				ChunkIndex: entry.ChunkIndex,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Iteration visits entries in ascending chunk index order, so a stable
	// sort by distance keeps chunk index as the tie-break.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes every index entry belonging to the session. Deleting an
// unknown session is a no-op.
func (idx *VectorIndex) Delete(ctx context.Context, sessionID string) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}

	return idx.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeVectorSessionPrefix(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)

		var keys [][]byte
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of index entries stored for the session.
func (idx *VectorIndex) Count(ctx context.Context, sessionID string) (int, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return 0, err
	}

	count := 0
	err := idx.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeVectorSessionPrefix(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}
