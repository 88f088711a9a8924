package object

import (
	"context"
	"io"
)

// Store defines the contract for saving and retrieving binary objects by key.
type Store interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
