// Package storage contains blob storage abstractions for the uploaded PDF
// files. The store holds only opaque keys; bytes live behind one of the
// implementations here (local filesystem by default, S3-compatible object
// storage optionally).
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned by Get and Delete when no blob exists under the
// requested key.
var ErrNotExist = errors.New("blob does not exist")

// PutObjectOptions define optional parameters for writing blobs.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob backend interface. Methods use context and streaming
// readers; implementations must be safe for concurrent use.
type Storage interface {
	// Put writes a blob under the given key from the provided reader.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a blob's content as a streaming reader alongside its
	// info. Returns ErrNotExist when the key is absent.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a blob by key. Returns ErrNotExist when the key is
	// absent.
	Delete(ctx context.Context, key string) error
}
