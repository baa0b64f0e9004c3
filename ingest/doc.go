// Package ingest turns a session's stored document into indexed vectors.
// The Task does the load-split-embed-upsert work as one all-or-nothing
// unit; the Queue runs tasks asynchronously on a bounded worker pool with
// retry and backoff.
package ingest
