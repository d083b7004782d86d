package main

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Supported location schemes.
const (
	schemeLocal = ""
	schemeS3    = "s3"
	schemeMinio = "minio"
)

var errBadLocation = errors.New("invalid location")

// location names a blob or a blob prefix: a local path, s3://bucket/key or
// minio://bucket/key.
type location struct {
	scheme string
	bucket string
	key    string
}

func parseLocation(s string) (location, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return location{key: filepath.ToSlash(s)}, nil
	}

	switch scheme {
	case schemeS3, schemeMinio:
	default:
		return location{}, fmt.Errorf("%w: unknown scheme %q", errBadLocation, scheme)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return location{}, fmt.Errorf("%w: %q has no bucket", errBadLocation, s)
	}
	return location{scheme: scheme, bucket: bucket, key: key}, nil
}

// isPrefix reports whether the location names a directory-like prefix.
func (l location) isPrefix() bool {
	return l.key == "" || strings.HasSuffix(l.key, "/")
}

// join appends name below the location.
func (l location) join(name string) location {
	out := l
	if l.key == "" {
		out.key = name
	} else {
		out.key = path.Join(l.key, name)
	}
	return out
}

// storeKey identifies the store serving the location.
func (l location) storeKey() string {
	return l.scheme + "://" + l.bucket
}

func (l location) String() string {
	if l.scheme == schemeLocal {
		return filepath.FromSlash(l.key)
	}
	return l.scheme + "://" + l.bucket + "/" + l.key
}
