// Package blobstore abstracts where timestamp files are read from and where
// the deduplicated output is written to.
//
// Implementations must be safe for concurrent use:
//
//   - LocalStore: a directory on the local file system, read through mmap
//   - MemoryStore: an in-process map, mainly for tests
//   - s3.Store: an Amazon S3 bucket prefix
//   - minio.Store: any S3-compatible endpoint through the MinIO client
//
// Blobs are consumed front to back:
//
//	blob, err := store.Open(ctx, "events.txt")
//	if err != nil { ... }
//	defer blob.Close()
//
//	r, err := blob.NewReader(ctx)
//
// Writes become visible only when Close succeeds. Abort discards them.
package blobstore
