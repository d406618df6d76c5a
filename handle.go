package handle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Handle owns the open/closed state of one file and the count of live
// streams over it. It exposes random-access reads and writes directly
// and acts as the factory for Source and Sink streams.
//
// A Handle is safe for concurrent use. The underlying File's resources
// are released exactly once, at the moment the Handle has been closed
// and its last stream has been closed, whichever of those happens
// later.
type Handle struct {
	file File
	mode Mode
	log  *slog.Logger

	// mu guards closed and streams, and every decision to release.
	// Platform I/O runs outside of it.
	mu      sync.Mutex
	closed  bool
	streams int
}

// New wraps f in a Handle permitting the directions described by mode.
// The Handle assumes ownership of f: f.Close is called exactly once,
// after Close has been called on the Handle and on every stream it
// produced.
func New(f File, mode Mode, opts ...Option) *Handle {
	h := &Handle{
		file: f,
		mode: mode,
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ReadAt reads up to len(p) bytes from the file starting at offset off
// and returns the number of bytes read. End of file is reported as
// io.EOF; a read never returns 0 bytes with a nil error for a non-empty
// p. Fails with ErrClosed on a closed handle and ErrWriteOnly on a
// write-only one.
func (h *Handle) ReadAt(p []byte, off int64) (int, error) {
	if err := h.usable(ReadOnly); err != nil {
		return 0, err
	}
	return h.readAt(p, off)
}

// WriteAt writes len(p) bytes to the file at offset off, extending the
// file if necessary. A short write fails with io.ErrShortWrite. Fails
// with ErrClosed on a closed handle and ErrReadOnly on a read-only one.
func (h *Handle) WriteAt(p []byte, off int64) (int, error) {
	if err := h.usable(WriteOnly); err != nil {
		return 0, err
	}
	return h.writeAt(p, off)
}

// Size returns the current total length of the file. The value may
// change between calls if the file is mutated through this handle or
// externally.
func (h *Handle) Size() (int64, error) {
	if err := h.usable(0); err != nil {
		return 0, err
	}
	return h.size()
}

// Sync forces buffered writes to their durable destination. On a
// read-only handle Sync is a no-op.
func (h *Handle) Sync() error {
	if err := h.usable(0); err != nil {
		return err
	}
	if !h.mode.writable() {
		return nil
	}
	return h.sync()
}

// Source returns a stream reading from the file at offset off. The
// stream keeps the file's resources open until it is closed, even if
// the handle is closed first.
func (h *Handle) Source(off int64) (*Source, error) {
	if !h.mode.readable() {
		return nil, ErrWriteOnly
	}
	if err := h.addStream(); err != nil {
		return nil, err
	}
	h.log.Debug("source opened", slog.Int64("offset", off))
	return &Source{h: h, pos: off}, nil
}

// Sink returns a stream writing to the file at offset off. The stream
// keeps the file's resources open until it is closed, even if the
// handle is closed first.
func (h *Handle) Sink(off int64) (*Sink, error) {
	if !h.mode.writable() {
		return nil, ErrReadOnly
	}
	if err := h.addStream(); err != nil {
		return nil, err
	}
	h.log.Debug("sink opened", slog.Int64("offset", off))
	return &Sink{h: h, pos: off}, nil
}

// AppendingSink returns a sink positioned at the file's current size.
// The size is read when AppendingSink is called, not when the first
// write lands, so a concurrent writer can move the true end of file in
// between; callers that need a stronger guarantee must serialize
// writers themselves.
func (h *Handle) AppendingSink() (*Sink, error) {
	size, err := h.Size()
	if err != nil {
		return nil, err
	}
	return h.Sink(size)
}

// Close marks the handle closed. If no streams are open the underlying
// file is released immediately and any release error is returned;
// otherwise release is deferred to whichever stream closes last. Close
// is idempotent: calls after the first return nil.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	release := h.streams == 0
	streams := h.streams
	h.mu.Unlock()

	if !release {
		h.log.Debug("handle closed, release deferred", slog.Int("streams", streams))
		return nil
	}
	return h.release()
}

// Position reports the logical file offset of a stream produced by this
// handle. v may be a *Source or *Sink, or a buffering decorator
// implementing BufferedSource or BufferedSink around one; bytes held in
// the decorator are folded in, so the reported offset is the one the
// caller logically occupies rather than the raw I/O position. Fails
// with ErrNotOwned if the stream, after unwrapping, was not produced by
// this exact handle.
func (h *Handle) Position(v any) (int64, error) {
	switch d := v.(type) {
	case BufferedSource:
		src, ok := d.Source().(*Source)
		if !ok || src.h != h {
			return 0, ErrNotOwned
		}
		return src.pos - int64(d.Buffered()), nil
	case BufferedSink:
		snk, ok := d.Sink().(*Sink)
		if !ok || snk.h != h {
			return 0, ErrNotOwned
		}
		return snk.pos + int64(d.Buffered()), nil
	case *Source:
		if d.h != h {
			return 0, ErrNotOwned
		}
		return d.pos, nil
	case *Sink:
		if d.h != h {
			return 0, ErrNotOwned
		}
		return d.pos, nil
	default:
		return 0, ErrNotOwned
	}
}

// usable reports whether the handle is open and, when dir is ReadOnly
// or WriteOnly, whether it permits that direction.
func (h *Handle) usable(dir Mode) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	switch {
	case closed:
		return ErrClosed
	case dir == ReadOnly && !h.mode.readable():
		return ErrWriteOnly
	case dir == WriteOnly && !h.mode.writable():
		return ErrReadOnly
	}
	return nil
}

// addStream increments the live-stream count, atomically with the
// closed check, so a concurrent Close can never observe a transient
// count.
func (h *Handle) addStream() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	h.streams++
	return nil
}

// removeStream decrements the live-stream count and reports whether the
// calling stream must perform the release.
func (h *Handle) removeStream() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.streams--
	return h.closed && h.streams == 0
}

// release closes the platform file. Callers must have established,
// under mu, that the handle is closed and the stream count has reached
// zero; that joint condition becomes true at most once, so release runs
// at most once.
func (h *Handle) release() error {
	h.log.Debug("releasing file resources")
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("handle: close: %w", err)
	}
	return nil
}

// readAt performs the positional read without the handle-closed check.
// Streams use it directly: a live stream may outlast the handle's own
// Close until the stream itself is closed.
func (h *Handle) readAt(p []byte, off int64) (int, error) {
	n, err := h.file.ReadAt(p, off)
	switch {
	case errors.Is(err, io.EOF):
		return n, io.EOF
	case err != nil:
		return n, fmt.Errorf("handle: read at %d: %w", off, err)
	case n == 0 && len(p) > 0:
		return 0, io.ErrNoProgress
	}
	return n, nil
}

// writeAt performs the positional write without the handle-closed
// check, enforcing the full-write contract.
func (h *Handle) writeAt(p []byte, off int64) (int, error) {
	n, err := h.file.WriteAt(p, off)
	if err != nil {
		return n, fmt.Errorf("handle: write at %d: %w", off, err)
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (h *Handle) size() (int64, error) {
	size, err := h.file.Size()
	if err != nil {
		return 0, fmt.Errorf("handle: size: %w", err)
	}
	return size, nil
}

func (h *Handle) sync() error {
	if err := h.file.Sync(); err != nil {
		return fmt.Errorf("handle: sync: %w", err)
	}
	return nil
}
