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
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// DocumentRepository implements storage.DocumentRepository for BadgerDB.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	return &DocumentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// PutDocument stores the session's document, replacing any previous one.
// A zero UploadedAt is filled with the current time.
func (r *DocumentRepository) PutDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateSessionID(doc.SessionID); err != nil {
		return err
	}
	if doc.Text == "" {
		return core.ErrEmptyText
	}

	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	if doc.Fingerprint == 0 {
		doc.Fingerprint = core.FingerprintFromContent(doc.Text)
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeDocumentKey(doc.SessionID)
		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetDocument retrieves the session's document.
// Returns storage.ErrNotFound if the session has no document.
func (r *DocumentRepository) GetDocument(ctx context.Context, sessionID string) (*core.Document, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	var result *core.Document
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeDocumentKey(sessionID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalDocument(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetText retrieves just the extracted text of the session's document.
func (r *DocumentRepository) GetText(ctx context.Context, sessionID string) (string, error) {
	doc, err := r.GetDocument(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// DeleteDocument removes the session's document. Deleting a session with
// no document is a no-op.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, sessionID string) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeDocumentKey(sessionID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
