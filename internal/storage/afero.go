package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// AferoStore implements Store on top of an afero filesystem. Containers are
// top-level directories and object keys are slash-separated paths beneath
// them. Backed by afero.NewMemMapFs it is a fully in-memory store for
// testing; backed by afero.NewBasePathFs over the OS filesystem it is a
// durable local store.
type AferoStore struct {
	fs afero.Fs
}

// NewAferoStore creates a new AferoStore.
func NewAferoStore(fs afero.Fs) *AferoStore {
	return &AferoStore{fs: fs}
}

// EnsureContainer creates the container directory if it is not present.
func (s *AferoStore) EnsureContainer(ctx context.Context, container string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidContainer(container) {
		return &Error{Op: "ensure-container", Container: container, Err: ErrInvalidName}
	}
	if err := s.fs.MkdirAll(container, 0o755); err != nil {
		return &Error{Op: "ensure-container", Container: container, Err: err}
	}
	return nil
}

// ContainerExists reports whether the container directory exists.
func (s *AferoStore) ContainerExists(ctx context.Context, container string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !ValidContainer(container) {
		return false, &Error{Op: "container-exists", Container: container, Err: ErrInvalidName}
	}
	exists, err := afero.DirExists(s.fs, container)
	if err != nil {
		return false, &Error{Op: "container-exists", Container: container, Err: err}
	}
	return exists, nil
}

// Put writes a new object. The write is overwrite-disabled: an existing
// object under the same key causes a failure instead of being replaced.
func (s *AferoStore) Put(ctx context.Context, container, key string, reader io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !ValidContainer(container) || !ValidKey(key) {
		return 0, &Error{Op: "put", Container: container, Key: key, Err: ErrInvalidName}
	}
	full := path.Join(container, key)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return 0, &Error{Op: "put", Container: container, Key: key, Err: err}
	}
	f, err := s.fs.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, &Error{Op: "put", Container: container, Key: key, Err: err}
	}
	defer f.Close()

	n, err := io.Copy(f, reader)
	if err != nil {
		return n, &Error{Op: "put", Container: container, Key: key, Err: err}
	}
	return n, nil
}

// Get opens an object for reading.
func (s *AferoStore) Get(ctx context.Context, container, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidContainer(container) || !ValidKey(key) {
		return nil, &Error{Op: "get", Container: container, Key: key, Err: ErrInvalidName}
	}
	f, err := s.fs.OpenFile(path.Join(container, key), os.O_RDONLY, 0)
	if err != nil {
		return nil, &Error{Op: "get", Container: container, Key: key, Err: err}
	}
	return f, nil
}

// List walks the container and returns every object key in lexicographic
// order. Keys are relative to the container and use forward slashes.
func (s *AferoStore) List(ctx context.Context, container string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ValidContainer(container) {
		return nil, &Error{Op: "list", Container: container, Err: ErrInvalidName}
	}
	var keys []string
	err := afero.Walk(s.fs, container, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(container, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, &Error{Op: "list", Container: container, Err: err}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes an object.
func (s *AferoStore) Delete(ctx context.Context, container, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidContainer(container) || !ValidKey(key) {
		return &Error{Op: "delete", Container: container, Key: key, Err: ErrInvalidName}
	}
	if err := s.fs.Remove(path.Join(container, key)); err != nil {
		return &Error{Op: "delete", Container: container, Key: key, Err: err}
	}
	return nil
}

// ValidContainer reports whether a container name is safe to map onto a
// directory: a single non-empty path segment with no traversal potential.
// Topic names are otherwise unconstrained, so the store guards itself.
func ValidContainer(container string) bool {
	return container != "" && container != "." && container != ".." &&
		!strings.ContainsAny(container, `/\`)
}

// ValidKey reports whether a key is safe to store: non-empty, slash
// separated, and free of path traversal segments.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
