// Package buffered provides buffering decorators that cooperate with
// handle position resolution.
//
// A Reader or Writer wraps a raw stream while retaining access to it
// and to its own fill level, satisfying the handle.BufferedSource and
// handle.BufferedSink capabilities. Handle.Position uses those to
// report the offset a caller logically occupies instead of the raw I/O
// position.
package buffered

import (
	"bufio"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// Reader buffers reads from a raw stream. Reads are served from an
// internal buffer that is refilled from the raw stream in larger
// chunks.
type Reader struct {
	raw io.Reader
	*bufio.Reader
}

var _ handle.BufferedSource = (*Reader)(nil)

// NewReader returns a buffering reader over raw with the default buffer
// size.
func NewReader(raw io.Reader) *Reader {
	return &Reader{raw: raw, Reader: bufio.NewReader(raw)}
}

// NewReaderSize returns a buffering reader over raw whose buffer holds
// at least size bytes.
func NewReaderSize(raw io.Reader, size int) *Reader {
	return &Reader{raw: raw, Reader: bufio.NewReaderSize(raw, size)}
}

// Source implements handle.BufferedSource.
func (r *Reader) Source() io.Reader { return r.raw }

// Writer buffers writes to a raw stream. Writes accumulate in an
// internal buffer until it fills or Flush is called.
type Writer struct {
	raw io.Writer
	*bufio.Writer
}

var _ handle.BufferedSink = (*Writer)(nil)

// NewWriter returns a buffering writer over raw with the default buffer
// size.
func NewWriter(raw io.Writer) *Writer {
	return &Writer{raw: raw, Writer: bufio.NewWriter(raw)}
}

// NewWriterSize returns a buffering writer over raw whose buffer holds
// at least size bytes.
func NewWriterSize(raw io.Writer, size int) *Writer {
	return &Writer{raw: raw, Writer: bufio.NewWriterSize(raw, size)}
}

// Sink implements handle.BufferedSink.
func (w *Writer) Sink() io.Writer { return w.raw }
