// Package billy adapts go-billy files to the handle core, giving the
// same handle semantics over in-memory and chrooted OS filesystems.
package billy

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// File adapts a billy.File to the handle.File capability.
//
// billy files carry no positional write, so WriteAt is emulated with a
// guarded seek-and-write pair. The seek offset therefore belongs to
// this adapter: the wrapped billy.File must not be shared with other
// users.
type File struct {
	fs   billy.Filesystem
	file billy.File

	mu sync.Mutex // serializes the seek+write pairs
}

var _ handle.File = (*File)(nil)

// ReadAt implements handle.File.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.file.ReadAt(p, off)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, io.EOF
		}
		return n, fmt.Errorf("billy: readat %q off=%d: %w", f.file.Name(), off, err)
	}
	return n, nil
}

// WriteAt implements handle.File.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.file.Seek(off, io.SeekStart); err != nil {
		return 0, fmt.Errorf("billy: seek %q off=%d: %w", f.file.Name(), off, err)
	}
	n, err := f.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("billy: write %q off=%d: %w", f.file.Name(), off, err)
	}
	return n, nil
}

// Size implements handle.File.
func (f *File) Size() (int64, error) {
	info, err := f.fs.Stat(f.file.Name())
	if err != nil {
		return 0, fmt.Errorf("billy: stat %q: %w", f.file.Name(), err)
	}
	return info.Size(), nil
}

// Sync implements handle.File. billy files expose no durability
// primitive, so Sync is a no-op.
func (f *File) Sync() error { return nil }

// Close implements handle.File.
func (f *File) Close() error {
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("billy: close %q: %w", f.file.Name(), err)
	}
	return nil
}

// Open opens the named file on fsys for reading and returns a read-only
// handle over it.
func Open(fsys billy.Filesystem, name string) (*handle.Handle, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return handle.New(&File{fs: fsys, file: f}, handle.ReadOnly), nil
}

// Create creates or truncates the named file on fsys and returns a
// read-write handle over it.
func Create(fsys billy.Filesystem, name string) (*handle.Handle, error) {
	return OpenFile(fsys, name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// OpenFile mirrors billy's OpenFile; the handle's mode is derived from
// flag.
func OpenFile(fsys billy.Filesystem, name string, flag int, perm os.FileMode) (*handle.Handle, error) {
	f, err := fsys.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("billy: openfile %q: %w", name, err)
	}
	return handle.New(&File{fs: fsys, file: f}, modeFor(flag)), nil
}

// NewInMemoryFS returns a fresh in-memory filesystem for use with Open
// and friends.
//
//nolint:ireturn // billy.Filesystem is the adapter target.
func NewInMemoryFS() billy.Filesystem {
	return memfs.New()
}

// NewOSFS returns a filesystem rooted at path.
//
//nolint:ireturn // billy.Filesystem is the adapter target.
func NewOSFS(path string) billy.Filesystem {
	return osfs.New(path)
}

func modeFor(flag int) handle.Mode {
	switch {
	case flag&os.O_WRONLY != 0:
		return handle.WriteOnly
	case flag&os.O_RDWR != 0:
		return handle.ReadWrite
	default:
		return handle.ReadOnly
	}
}
