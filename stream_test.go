package handle_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

func TestSourceAdvancesByBytesRead(t *testing.T) {
	f := newMemFile([]byte("0123456789"))
	h := handle.New(f, handle.ReadOnly)
	defer func() { _ = h.Close() }()

	src, err := h.Source(0)
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	buf := make([]byte, 4)
	n, err := src.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "0123", string(buf))
	pos, err := h.Position(src)
	require.NoError(t, err)
	require.EqualValues(t, 4, pos)

	// Ask for more than remains: position advances by what was read.
	buf = make([]byte, 16)
	n, err = src.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	pos, err = h.Position(src)
	require.NoError(t, err)
	require.EqualValues(t, 10, pos)

	// End of file: position untouched.
	n, err = src.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, n)
	pos, err = h.Position(src)
	require.NoError(t, err)
	require.EqualValues(t, 10, pos)
}

func TestSinkAdvancesByFullCount(t *testing.T) {
	f := newMemFile(nil)
	h := handle.New(f, handle.ReadWrite)
	defer func() { _ = h.Close() }()

	snk, err := h.Sink(0)
	require.NoError(t, err)
	defer func() { _ = snk.Close() }()

	n, err := snk.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	pos, err := h.Position(snk)
	require.NoError(t, err)
	require.EqualValues(t, 5, pos)

	_, err = snk.Write([]byte(" world"))
	require.NoError(t, err)
	pos, err = h.Position(snk)
	require.NoError(t, err)
	require.EqualValues(t, 11, pos)

	got := make([]byte, 11)
	_, err = h.ReadAt(got, 0)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}

func TestSinkFlushDelegatesToFile(t *testing.T) {
	f := newMemFile(nil)
	h := handle.New(f, handle.ReadWrite)
	defer func() { _ = h.Close() }()

	snk, err := h.Sink(0)
	require.NoError(t, err)
	defer func() { _ = snk.Close() }()

	require.NoError(t, snk.Flush())
	require.Equal(t, 1, f.syncs)
}

func TestClosedStreamOperationsFail(t *testing.T) {
	f := newMemFile([]byte("data"))
	h := handle.New(f, handle.ReadWrite)
	defer func() { _ = h.Close() }()

	src, err := h.Source(0)
	require.NoError(t, err)
	snk, err := h.Sink(0)
	require.NoError(t, err)

	require.NoError(t, src.Close())
	require.NoError(t, snk.Close())

	_, err = src.Read(make([]byte, 1))
	require.ErrorIs(t, err, handle.ErrStreamClosed)
	_, err = snk.Write([]byte("x"))
	require.ErrorIs(t, err, handle.ErrStreamClosed)
	require.ErrorIs(t, snk.Flush(), handle.ErrStreamClosed)
}

func TestStreamCloseIdempotentPerStream(t *testing.T) {
	f := newMemFile([]byte("data"))
	h := handle.New(f, handle.ReadWrite)

	src, err := h.Source(0)
	require.NoError(t, err)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close(), "repeated close is a no-op")

	// The double close must not have decremented twice: a second stream
	// still defers release.
	snk, err := h.Sink(0)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	require.EqualValues(t, 0, f.closes.Load())
	require.NoError(t, snk.Close())
	require.EqualValues(t, 1, f.closes.Load())
}

func TestStreamsAreIndependent(t *testing.T) {
	f := newMemFile([]byte("0123456789"))
	h := handle.New(f, handle.ReadOnly)
	defer func() { _ = h.Close() }()

	a, err := h.Source(0)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()
	b, err := h.Source(5)
	require.NoError(t, err)
	defer func() { _ = b.Close() }()

	buf := make([]byte, 2)
	_, err = a.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "01", string(buf))

	_, err = b.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "56", string(buf))

	posA, err := h.Position(a)
	require.NoError(t, err)
	posB, err := h.Position(b)
	require.NoError(t, err)
	require.EqualValues(t, 2, posA)
	require.EqualValues(t, 7, posB)
}

func TestAppendingSinkStartsAtSize(t *testing.T) {
	f := newMemFile([]byte("abc"))
	h := handle.New(f, handle.ReadWrite)
	defer func() { _ = h.Close() }()

	snk, err := h.AppendingSink()
	require.NoError(t, err)
	defer func() { _ = snk.Close() }()

	pos, err := h.Position(snk)
	require.NoError(t, err)
	require.EqualValues(t, 3, pos)

	_, err = snk.Write([]byte("def"))
	require.NoError(t, err)

	got := make([]byte, 6)
	_, err = h.ReadAt(got, 0)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(got))
}
