package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	vectorEntryPrefix = "vecent"
	turnPrefix        = "turn"
	turnIDSeq         = "turnseq"
	documentPrefix    = "docrec"
)

// sessionPrefix renders a prefix that is unambiguous for any session id.
// The id length is baked into the prefix so that one session's key range
// can never be a prefix of another's (e.g. "a" vs "a:b").
func sessionPrefix(kind, sessionID string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s:", kind, len(sessionID), sessionID))
}

// makeVectorEntryKey generates a key for an index entry.
// Format: prefix + chunk index, BigEndian so iteration order follows
// ascending chunk index.
func makeVectorEntryKey(sessionID string, chunkIndex int) []byte {
	prefix := sessionPrefix(vectorEntryPrefix, sessionID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(chunkIndex))
	return buf
}

// makeVectorSessionPrefix generates the iteration prefix for a session's
// index entries.
func makeVectorSessionPrefix(sessionID string) []byte {
	return sessionPrefix(vectorEntryPrefix, sessionID)
}

// makeTurnKey generates a composite key for a conversation turn.
// Format: prefix + timestamp + sequence, BigEndian so lexicographic sort
// matches chronological order with the sequence breaking timestamp ties.
func makeTurnKey(sessionID string, timestamp time.Time, seq uint64) []byte {
	prefix := sessionPrefix(turnPrefix, sessionID)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeTurnSessionPrefix generates the iteration prefix for a session's turns.
func makeTurnSessionPrefix(sessionID string) []byte {
	return sessionPrefix(turnPrefix, sessionID)
}

// makeDocumentKey generates the key for a session's document.
func makeDocumentKey(sessionID string) []byte {
	return sessionPrefix(documentPrefix, sessionID)
}
