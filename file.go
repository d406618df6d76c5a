package handle

// File is the platform capability a Handle is built over. It is the
// only thing this package requires from the platform layer: positional
// read, positional write, size query, durability flush, and the
// one-time resource release performed by Close.
//
// ReadAt and WriteAt follow the io.ReaderAt and io.WriterAt contracts;
// end of file is reported as io.EOF. Close is invoked exactly once by
// the owning Handle, after the Handle and all of its streams have been
// closed. Implementations need not serialize concurrent calls unless
// the underlying platform requires it; the Handle does not serialize
// I/O on their behalf.
type File interface {
	ReadAt(p []byte, off int64) (n int, err error)
	WriteAt(p []byte, off int64) (n int, err error)
	Size() (int64, error)
	Sync() error
	Close() error
}

// Mode describes which directions of I/O a Handle permits.
type Mode int

const (
	// ReadOnly permits reads and read streams only.
	ReadOnly Mode = iota + 1
	// WriteOnly permits writes and write streams only.
	WriteOnly
	// ReadWrite permits both directions.
	ReadWrite
)

func (m Mode) readable() bool { return m == ReadOnly || m == ReadWrite }
func (m Mode) writable() bool { return m == WriteOnly || m == ReadWrite }

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	default:
		return "invalid"
	}
}
