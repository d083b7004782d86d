// Package compress picks a stream codec for input and output files by their
// extension.
package compress

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm of a stream.
type Type uint8

const (
	// None passes data through unchanged.
	None Type = iota
	// LZ4 is the fast LZ4 frame format.
	LZ4
	// Zstd is the Zstandard frame format.
	Zstd
)

// ErrUnknownType is returned by ParseType for an unknown codec name.
var ErrUnknownType = errors.New("compress: unknown type")

// ParseType maps a codec name ("none", "lz4", "zstd") to its Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return Zstd, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// FromName infers the codec from a file name's extension.
func FromName(name string) Type {
	switch strings.ToLower(path.Ext(name)) {
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return Zstd
	}
	return None
}

// StripExt removes a compression extension from name, if present.
func StripExt(name string) string {
	if FromName(name) == None {
		return name
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

func (t Type) String() string {
	switch t {
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// Ext returns the file extension for t, including the dot.
func (t Type) Ext() string {
	switch t {
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

type zstdReadCloser struct {
	*zstd.Decoder
}

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// NewReader wraps r in a decompressor for t. Closing the result does not
// close r.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		return zstdReadCloser{dec}, nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewWriter wraps w in a compressor for t. Close flushes the final frame but
// does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case LZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return nil, err
		}
		return zw, nil
	default:
		return nopWriteCloser{w}, nil
	}
}
