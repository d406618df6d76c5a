package handle

import "io"

// Source is a read stream over a Handle at a tracked offset.
//
// A Source has exactly one logical owner: its position is mutated
// without synchronization, so a single Source must not be used from
// multiple goroutines at once. Distinct streams over the same handle
// are independent.
type Source struct {
	h      *Handle
	pos    int64
	closed bool
}

var _ io.ReadCloser = (*Source)(nil)

// Read reads up to len(p) bytes from the owning handle at the stream's
// current offset and advances the offset by the number of bytes
// actually read. At end of file Read returns 0, io.EOF and leaves the
// offset unchanged; a read that drains the file returns its count with
// a nil error and the following Read reports io.EOF.
func (s *Source) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	n, err := s.h.readAt(p, s.pos)
	s.pos += int64(n)
	if n > 0 && err == io.EOF {
		err = nil
	}
	return n, err
}

// Close releases the stream's hold on the owning handle. If the handle
// was already closed and this was its last open stream, the underlying
// file resources are released now and any release error is returned
// here. Close is idempotent.
func (s *Source) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.h.removeStream() {
		return s.h.release()
	}
	return nil
}

// Sink is a write stream over a Handle at a tracked offset.
//
// Like Source, a Sink is single-owner and must not be shared between
// goroutines.
type Sink struct {
	h      *Handle
	pos    int64
	closed bool
}

var _ io.WriteCloser = (*Sink)(nil)

// Write writes len(p) bytes to the owning handle at the stream's
// current offset, extending the file if necessary, and advances the
// offset by the full count. Partial writes fail loudly with
// io.ErrShortWrite and do not advance the offset.
func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	n, err := s.h.writeAt(p, s.pos)
	if err != nil {
		return n, err
	}
	s.pos += int64(len(p))
	return n, nil
}

// Flush forces writes through the owning handle to their durable
// destination.
func (s *Sink) Flush() error {
	if s.closed {
		return ErrStreamClosed
	}
	return s.h.sync()
}

// Close releases the stream's hold on the owning handle, triggering the
// one-time resource release if the handle is closed and no other
// streams remain. Close is idempotent.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.h.removeStream() {
		return s.h.release()
	}
	return nil
}
