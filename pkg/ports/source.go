package ports

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by a DocumentSource for unknown keys.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentSource defines where markup documents are read from.
// This allows the storage layer (file system, memory, Redis) to be decoupled from the builder.
type DocumentSource interface {
	// Fetch returns the full raw contents of the document stored under key.
	Fetch(ctx context.Context, key string) ([]byte, error)

	// List returns the keys of every available document, sorted.
	List(ctx context.Context) ([]string, error)
}
