// Package recordstore is the optional downstream sink for staged payloads.
// Inserts are fire-and-forget relative to the pipeline's own success
// criteria; only total unavailability is a batch-level condition.
package recordstore

import "context"

// Record is one staged document payload: the item identifier and its
// transport-safe encoded content.
type Record struct {
	Name           string
	EncodedContent string
}

// Store defines the record-store contract.
type Store interface {
	Ping(ctx context.Context) error
	Insert(ctx context.Context, rec Record) error
}
