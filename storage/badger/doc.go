// Package badger provides BadgerDB-backed implementations of the storage
// interfaces. All records for a session live under a length-prefixed key
// range, so session isolation falls out of key layout rather than any
// runtime filtering.
package badger
