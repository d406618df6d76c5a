// Package minio provides a read-only handle backend over object
// storage. Objects are immutable through this backend: the handle is
// opened read-only and positional writes are rejected.
package minio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// File adapts a bucket object to the handle.File capability.
type File struct {
	obj  *minio.Object
	key  string
	size int64
}

var _ handle.File = (*File)(nil)

// Open stats and opens bucket/key on client and returns a read-only
// handle over the object.
func Open(ctx context.Context, client *minio.Client, bucket, key string) (*handle.Handle, error) {
	stat, err := client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: stat %q: %w", key, err)
	}
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio: get %q: %w", key, err)
	}
	f := &File{obj: obj, key: key, size: stat.Size}
	return handle.New(f, handle.ReadOnly), nil
}

// ReadAt implements handle.File.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.obj.ReadAt(p, off)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, fmt.Errorf("minio: readat %q off=%d: %w", f.key, off, err)
	}
	return n, nil
}

// WriteAt implements handle.File.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	return 0, handle.ErrReadOnly
}

// Size implements handle.File. The size is captured when the object is
// opened; an object does not change underneath an open handle.
func (f *File) Size() (int64, error) {
	return f.size, nil
}

// Sync implements handle.File.
func (f *File) Sync() error { return nil }

// Close implements handle.File.
func (f *File) Close() error {
	if err := f.obj.Close(); err != nil {
		return fmt.Errorf("minio: close %q: %w", f.key, err)
	}
	return nil
}
