package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	idSeq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, err
	}

	return &HistoryRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *HistoryRepository) Close() error {
	return r.idSeq.Release()
}

// AppendTurns appends turns to the session's conversation in the given
// order. A zero Timestamp is filled with the current time. Turns written
// in the same call share a timestamp granularity, so a per-turn sequence
// number preserves their relative order.
func (r *HistoryRepository) AppendTurns(ctx context.Context, sessionID string, turns ...core.Turn) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}
	for i := range turns {
		if err := turns[i].Validate(); err != nil {
			return err
		}
	}
	if len(turns) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, turn := range turns {
			if turn.Timestamp.IsZero() {
				turn.Timestamp = time.Now().UTC()
			}

			seq, err := r.idSeq.Next()
			if err != nil {
				return err
			}

			key := makeTurnKey(sessionID, turn.Timestamp, seq)
			if err := tx.Set(key, storage.MarshalTurn(&turn)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// RecentTurns returns up to limit turns for the session, newest first.
// Returns an empty slice for an unknown session or a non-positive limit.
func (r *HistoryRepository) RecentTurns(ctx context.Context, sessionID string, limit int) ([]core.Turn, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	var results []core.Turn
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeTurnSessionPrefix(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration needs a seek key past the end of the
		// session's range. 0xff sorts after every composite suffix.
		seekKey := append(append([]byte{}, prefix...), 0xff)

		for iter.Seek(seekKey); iter.ValidForPrefix(prefix) && len(results) < limit; iter.Next() {
			var turn *core.Turn
			err := iter.Item().Value(func(val []byte) error {
				var err error
				turn, err = storage.UnmarshalTurn(val)
				return err
			})
			if err != nil {
				return err
			}
			results = append(results, *turn)
		}
		return nil
	}, false)

	return results, err
}

// DeleteSession removes every turn belonging to the session. Deleting an
// unknown session is a no-op.
func (r *HistoryRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeTurnSessionPrefix(sessionID)
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
