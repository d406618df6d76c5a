// Package handle unifies random-access and streaming I/O over a single
// open file while guaranteeing that the file's operating-system
// resources are released exactly once.
//
// A Handle wraps a narrow platform capability (the File interface) and
// exposes positional reads and writes directly, alongside a factory for
// positioned streams (Source and Sink). A Handle counts the streams it
// has produced; the underlying File is closed only after the Handle
// itself and every stream have been closed, in whatever order those
// closes arrive.
//
// Streams are single-owner values: a Source or Sink must not be used
// from multiple goroutines at once. The Handle itself is safe for
// concurrent use.
//
// Backends adapting concrete platforms to the File capability live in
// the osfile, billy and minio subpackages; the buffered subpackage
// provides buffering decorators whose readahead and write-behind are
// folded into Handle.Position.
package handle
