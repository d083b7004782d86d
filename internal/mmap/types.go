package mmap

import "errors"

// AccessPattern is a hint about how mapped pages will be touched.
type AccessPattern int

const (
	// AccessDefault gives no advice.
	AccessDefault AccessPattern = iota
	// AccessSequential asks for aggressive read-ahead.
	AccessSequential
	// AccessWillNeed asks the kernel to fault pages in early.
	AccessWillNeed
	// AccessDontNeed lets the kernel drop pages that were already consumed.
	AccessDontNeed
)

func (p AccessPattern) String() string {
	switch p {
	case AccessSequential:
		return "sequential"
	case AccessWillNeed:
		return "willneed"
	case AccessDontNeed:
		return "dontneed"
	default:
		return "default"
	}
}

var (
	// ErrClosed is returned by accessors of a closed File.
	ErrClosed = errors.New("mmap: file is closed")
	// ErrInvalidSize is returned for files too large to map.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrInvalidOffset is returned for negative read offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)
