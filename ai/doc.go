// Package ai defines the contracts for the embedding and generation
// collaborators and the shared configuration for their providers.
//
// Model clients are expensive to construct; providers build them once at
// process start and the resulting services are shared read-only across
// concurrent requests.
package ai
