package storage

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrInvalidName marks a container or key that the store refuses to map
// onto its backend, e.g. names with path traversal segments.
var ErrInvalidName = errors.New("invalid container or key name")

// Error wraps a failure from the storage backend with enough context to
// identify the operation and object involved.
type Error struct {
	Op        string
	Container string
	Key       string
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage %s %s/%s: %v", e.Op, e.Container, e.Key, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Container, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotExist reports whether err indicates a missing container or object.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// IsExist reports whether err indicates an object already present under the
// key, i.e. an overwrite-disabled write that lost.
func IsExist(err error) bool {
	return errors.Is(err, fs.ErrExist)
}
