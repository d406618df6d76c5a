// Package osfile adapts operating-system files to the handle core.
package osfile

import (
	"fmt"
	"os"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// File adapts an *os.File to the handle.File capability.
type File struct {
	f *os.File
}

var _ handle.File = (*File)(nil)

// New wraps an already-open OS file. The returned File assumes
// ownership of f; it is closed through the handle lifecycle. Files
// opened with O_APPEND cannot serve positional writes and should not be
// used here.
func New(f *os.File) *File {
	return &File{f: f}
}

// ReadAt implements handle.File.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.f.ReadAt(p, off)
}

// WriteAt implements handle.File.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	return f.f.WriteAt(p, off)
}

// Size implements handle.File.
func (f *File) Size() (int64, error) {
	info, err := f.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("osfile: stat %q: %w", f.f.Name(), err)
	}
	return info.Size(), nil
}

// Sync implements handle.File.
func (f *File) Sync() error {
	if err := f.f.Sync(); err != nil {
		return fmt.Errorf("osfile: sync %q: %w", f.f.Name(), err)
	}
	return nil
}

// Close implements handle.File.
func (f *File) Close() error {
	if err := f.f.Close(); err != nil {
		return fmt.Errorf("osfile: close %q: %w", f.f.Name(), err)
	}
	return nil
}

// Open opens the named file for reading and returns a read-only handle
// over it.
func Open(name string) (*handle.Handle, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("osfile: open %q: %w", name, err)
	}
	return handle.New(New(f), handle.ReadOnly), nil
}

// Create creates or truncates the named file and returns a read-write
// handle over it.
func Create(name string) (*handle.Handle, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("osfile: create %q: %w", name, err)
	}
	return handle.New(New(f), handle.ReadWrite), nil
}

// OpenFile mirrors os.OpenFile; the handle's mode is derived from flag.
func OpenFile(name string, flag int, perm os.FileMode) (*handle.Handle, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("osfile: openfile %q: %w", name, err)
	}
	return handle.New(New(f), modeFor(flag)), nil
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
