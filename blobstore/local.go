package blobstore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/hupe1980/datefilter/internal/mmap"
)

// LocalStore implements BlobStore on the local file system.
// Names are slash-separated paths relative to root. An empty root resolves
// names against the working directory, so absolute paths work as-is.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: dir}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open maps the file read-only with a sequential access hint.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	f, err := mmap.Open(s.path(name))
	if err != nil {
		return nil, err
	}
	_ = f.Advise(mmap.AccessSequential)
	return &localBlob{f: f}, nil
}

// Create writes to a temporary file next to the target and renames it into
// place on Close.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	path := s.path(name)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{f: tmp, path: path}, nil
}

// List walks root and returns every regular file whose relative name starts
// with prefix.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	root := s.root
	if root == "" {
		root = "."
	}

	var names []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

type localBlob struct {
	f *mmap.File
}

func (b *localBlob) Size() int64 { return int64(b.f.Len()) }

func (b *localBlob) NewReader(_ context.Context) (io.ReadCloser, error) {
	if b.f.Bytes() == nil && b.f.Len() > 0 {
		return nil, mmap.ErrClosed
	}
	return io.NopCloser(b.f.NewReader()), nil
}

func (b *localBlob) Close() error {
	return b.f.Close()
}

type localWritableBlob struct {
	f    *os.File
	path string
	done atomic.Bool
}

func (b *localWritableBlob) Write(p []byte) (int, error) {
	if b.done.Load() {
		return 0, ErrClosed
	}
	return b.f.Write(p)
}

func (b *localWritableBlob) Close() error {
	if !b.done.CompareAndSwap(false, true) {
		return ErrClosed
	}
	err := errors.Join(b.f.Sync(), b.f.Close())
	if err == nil {
		err = os.Rename(b.f.Name(), b.path)
	}
	if err != nil {
		_ = os.Remove(b.f.Name())
	}
	return err
}

func (b *localWritableBlob) Abort(_ context.Context) error {
	if !b.done.CompareAndSwap(false, true) {
		return nil
	}
	_ = b.f.Close()
	return os.Remove(b.f.Name())
}
