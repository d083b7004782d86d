package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error that satisfies errors.Is(err, ErrNotFound).
var ErrNotFound = os.ErrNotExist

// ErrClosed is returned by writes to a finished WritableBlob.
var ErrClosed = errors.New("blobstore: blob is closed")

// BlobStore reads and writes named blobs.
type BlobStore interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create starts writing a blob. It replaces any blob of the same name
	// once the returned WritableBlob is closed.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// List returns the sorted names of all blobs starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
	// NewReader streams the blob from its first byte.
	NewReader(ctx context.Context) (io.ReadCloser, error)
}

// WritableBlob is a blob under construction.
type WritableBlob interface {
	io.WriteCloser
	// Abort discards everything written so far. It is a no-op after Close.
	Abort(ctx context.Context) error
}

// ReadAll is a convenience wrapper that reads a whole blob into memory.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	r, err := blob.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// WriteAll writes data as the complete contents of name.
func WriteAll(ctx context.Context, store BlobStore, name string, data []byte) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Abort(ctx)
		return err
	}
	return w.Close()
}
