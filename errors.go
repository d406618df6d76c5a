package handle

import "errors"

// Usage errors. They signal a caller defect rather than a transient
// platform failure; this package never retries them. Platform I/O
// errors are passed through wrapped with operation context, except
// io.EOF, which is always returned bare.
var (
	// ErrClosed is returned by operations on a Handle after Close.
	ErrClosed = errors.New("handle is closed")

	// ErrStreamClosed is returned by operations on a closed Source or
	// Sink.
	ErrStreamClosed = errors.New("stream is closed")

	// ErrReadOnly is returned when a write-direction operation is
	// attempted on a read-only handle.
	ErrReadOnly = errors.New("handle is read-only")

	// ErrWriteOnly is returned when a read-direction operation is
	// attempted on a write-only handle.
	ErrWriteOnly = errors.New("handle is write-only")

	// ErrNotOwned is returned by Position when the supplied stream was
	// not produced by the queried handle.
	ErrNotOwned = errors.New("stream was not created by this handle")
)
