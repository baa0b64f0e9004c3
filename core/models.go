package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a content-derived identifier for document text.
// Identical text always produces the same fingerprint.
type Fingerprint uint64

// FingerprintFromContent computes a Fingerprint from text using BLAKE2b hashing.
func FingerprintFromContent(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a conversation turn.
type Role int

const (
	// RoleUser represents the human asking questions.
	RoleUser Role = iota + 1
	// RoleAssistant represents the answering model.
	RoleAssistant
)

// String returns the wire-level name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Turn is a single message in a session's conversation.
// Turns are append-only and strictly ordered per session.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Chunk is an ordered, token-bounded unit of document text.
// Index is zero-based within a single ingestion run.
type Chunk struct {
	Index  int
	Text   string
	Tokens int // Estimated token length at split time
}

// IndexEntry is a stored chunk with its embedding, scoped to one session.
type IndexEntry struct {
	SessionID  string
	ChunkIndex int
	Text       string
	Vector     []float32
}

// EntryID renders the deterministic identifier for an index entry.
// Re-ingesting a session overwrites entries at the same ids.
func EntryID(sessionID string, chunkIndex int) string {
	return fmt.Sprintf("%s_%d", sessionID, chunkIndex)
}

// Document is the raw extracted text owned by exactly one session.
// A re-upload replaces it wholesale.
type Document struct {
	SessionID   string
	Text        string
	Fingerprint Fingerprint
	UploadedAt  time.Time
}

// RetrievedChunk is a single ranked result from a vector index query.
type RetrievedChunk struct {
	Text       string
	Distance   float32 // Cosine distance, lower is closer
	ChunkIndex int
}
