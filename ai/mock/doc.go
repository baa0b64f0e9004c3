// Package mock provides deterministic test doubles for the ai package
// interfaces. Vectors are derived from content hashes so tests get stable
// similarity orderings without a model server.
package mock
