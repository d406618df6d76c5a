package handle

import "io"

// BufferedSource is the capability a read-direction buffering decorator
// exposes so Handle.Position can see through it. Buffered reports the
// bytes read ahead from the raw stream but not yet consumed by the
// caller; Source returns the wrapped raw stream.
//
// The buffered subpackage provides a ready implementation; any decorator
// satisfying this interface cooperates the same way.
type BufferedSource interface {
	io.Reader

	// Buffered returns the number of unread bytes held in the buffer.
	Buffered() int

	// Source returns the wrapped raw stream.
	Source() io.Reader
}

// BufferedSink is the write-direction counterpart of BufferedSource.
// Buffered reports the bytes accepted from the caller but not yet
// flushed to the raw stream.
type BufferedSink interface {
	io.Writer

	// Buffered returns the number of unflushed bytes held in the buffer.
	Buffered() int

	// Sink returns the wrapped raw stream.
	Sink() io.Writer
}
