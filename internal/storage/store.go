// Package storage hands uploaded identity documents to a content store and
// returns opaque tokens. Domain code never touches filesystem paths.
package storage

import (
	"context"
	"io"
)

// Store persists opaque byte blobs under generated tokens.
type Store interface {
	// Save consumes the stream and returns the token the blob is retrievable
	// under. ext is the declared file extension without the leading dot.
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
	// Open returns the blob for a previously issued token together with its
	// MIME type.
	Open(ctx context.Context, token string) (io.ReadCloser, string, error)
}
