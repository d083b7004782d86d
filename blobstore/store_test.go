package blobstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	return map[string]BlobStore{
		"local":  NewLocalStore(t.TempDir()),
		"memory": NewMemoryStore(),
	}
}

func TestBlobStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	data := []byte("2024-01-01T00:00:00Z\n2024-01-01T00:00:01Z\n")

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, WriteAll(ctx, store, "in/a.txt", data))
			require.NoError(t, WriteAll(ctx, store, "in/b.txt", []byte("x")))
			require.NoError(t, WriteAll(ctx, store, "out/a_output.txt", nil))

			blob, err := store.Open(ctx, "in/a.txt")
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), blob.Size())

			r, err := blob.NewReader(ctx)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			require.NoError(t, blob.Close())
			assert.Equal(t, data, got)

			names, err := store.List(ctx, "in/")
			require.NoError(t, err)
			assert.Equal(t, []string{"in/a.txt", "in/b.txt"}, names)

			names, err = store.List(ctx, "")
			require.NoError(t, err)
			assert.Len(t, names, 3)

			empty, err := ReadAll(ctx, store, "out/a_output.txt")
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestBlobStore_NotFound(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Open(context.Background(), "missing.txt")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestBlobStore_WriteVisibleOnlyAfterClose(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := store.Create(ctx, "out.txt")
			require.NoError(t, err)
			_, err = w.Write([]byte("partial"))
			require.NoError(t, err)

			_, err = store.Open(ctx, "out.txt")
			require.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, w.Close())
			assert.ErrorIs(t, w.Close(), ErrClosed)
			_, err = w.Write([]byte("late"))
			assert.ErrorIs(t, err, ErrClosed)

			got, err := ReadAll(ctx, store, "out.txt")
			require.NoError(t, err)
			assert.Equal(t, "partial", string(got))
		})
	}
}

func TestBlobStore_Abort(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			w, err := store.Create(ctx, "out.txt")
			require.NoError(t, err)
			_, err = w.Write([]byte("discard me"))
			require.NoError(t, err)
			require.NoError(t, w.Abort(ctx))

			_, err = store.Open(ctx, "out.txt")
			assert.ErrorIs(t, err, ErrNotFound)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)
		})
	}
}

func TestLocalStore_AbsolutePathsWithEmptyRoot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "events.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	store := NewLocalStore("")
	got, err := ReadAll(ctx, store, filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestMemoryStore_PutCopies(t *testing.T) {
	store := NewMemoryStore()
	data := []byte("abc")
	store.Put("k", data)
	data[0] = 'z'

	got, err := ReadAll(context.Background(), store, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
