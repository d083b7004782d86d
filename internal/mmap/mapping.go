package mmap

import (
	"io"
	"math"
	"os"
	"sync/atomic"
)

// File is a read-only memory mapping of a whole file.
type File struct {
	name   string
	data   []byte
	closed atomic.Bool
	unmap  func([]byte) error
}

// Open maps the file at path. Empty files map to an empty File without a
// system mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 || size > math.MaxInt {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &File{name: path}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}

	return &File{name: path, data: data, unmap: unmap}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string { return f.name }

// Len returns the mapped size in bytes.
func (f *File) Len() int { return len(f.data) }

// Bytes returns the mapped contents, or nil after Close.
// The slice must not be used once Close has been called.
func (f *File) Bytes() []byte {
	if f.closed.Load() {
		return nil
	}
	return f.data
}

// Advise passes an access hint for the whole mapping to the kernel.
func (f *File) Advise(pattern AccessPattern) error {
	if f.closed.Load() {
		return ErrClosed
	}
	if len(f.data) == 0 {
		return nil
	}
	return osAdvise(f.data, pattern)
}

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// NewReader returns a sequential reader over the whole mapping.
func (f *File) NewReader() *io.SectionReader {
	return io.NewSectionReader(f, 0, int64(len(f.data)))
}

// Close unmaps the file. It is idempotent.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	if f.unmap != nil && f.data != nil {
		return f.unmap(f.data)
	}
	return nil
}
