// Package mmap maps input files read-only so the line scanner can walk them
// without copying through kernel buffers.
//
//	f, err := mmap.Open("events.txt")
//	if err != nil { ... }
//	defer f.Close()
//
//	_ = f.Advise(mmap.AccessSequential)
//	sc := bufio.NewScanner(f.NewReader())
//
// Unix systems use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// A File is safe for concurrent reads. Close is idempotent, but no reader
// may touch Bytes after Close returns.
package mmap
