// Package pipeline runs remap passes for the CLI and the HTTP server.
//
// The remap engine in [remap] is a pure function. This package wraps it
// with the concerns every host needs: a payload cache keyed on request
// content, structured logging, observability hooks, and bounded parallel
// execution of batches. Centralizing these keeps the CLI and the server
// behaving identically for the same request.
//
// # Usage
//
// Create a Runner and remap a request:
//
//	runner := pipeline.NewRunner(cache, nil, logger, remap.DefaultOptions())
//	defer runner.Close()
//
//	res, hit, err := runner.Remap(ctx, input)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res == nil {
//	    // source or target not connected yet
//	}
//
// Remap many requests concurrently:
//
//	items := runner.RemapBatch(ctx, inputs, 4)
//	for _, it := range items {
//	    if it.Err != nil { ... }
//	}
package pipeline

import (
	"github.com/matzehuels/refit/pkg/remap"
)

// DefaultBatchLimit bounds how many passes RemapBatch runs at once when
// the caller passes a non-positive limit.
const DefaultBatchLimit = 8

// cacheKeyType labels payload entries in cache hooks.
const cacheKeyType = "payload"

// BatchItem is the outcome of one request in a batch. Items are returned
// in input order. Result is nil when Err is set or when the request was
// idle.
type BatchItem struct {
	Index    int
	Result   *remap.Result
	CacheHit bool
	Err      error
}
