package storage

import (
	"context"
	"io"
)

// Store defines the interface for an object storage backend. Objects live
// inside named containers and are addressed by a slash-separated key.
type Store interface {
	// EnsureContainer creates the container if it does not already exist.
	// Calling it for an existing container is not an error.
	EnsureContainer(ctx context.Context, container string) error

	// ContainerExists reports whether the container has been created.
	ContainerExists(ctx context.Context, container string) (bool, error)

	// Put writes the content of the reader as a new object. Overwrite is
	// disabled: writing to an existing key fails rather than clobbering data.
	Put(ctx context.Context, container, key string, reader io.Reader) (int64, error)

	// Get opens an object for reading.
	Get(ctx context.Context, container, key string) (io.ReadCloser, error)

	// List returns the keys of every object in the container, in
	// lexicographic order.
	List(ctx context.Context, container string) ([]string, error)

	// Delete removes an object.
	Delete(ctx context.Context, container, key string) error
}
