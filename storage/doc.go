// Package storage defines the persistence contracts for the vector index,
// conversation history and session documents, plus the MUS binary
// serialization of the stored types. BadgerDB implementations live in the
// badger subpackage.
package storage
