package osfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
	"github.com/input-output-hk/catalyst-forge-libs/handle/handletest"
)

func TestConformance(t *testing.T) {
	handletest.TestSuite(t, func(t *testing.T, contents []byte) *handle.Handle {
		name := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(name, contents, 0o644))
		h, err := OpenFile(name, os.O_RDWR, 0)
		require.NoError(t, err)
		return h
	})
}

func TestOpenIsReadOnly(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(name, []byte("content"), 0o644))

	h, err := Open(name)
	require.NoError(t, err)
	defer func() { _ = h.Close() }()

	buf := make([]byte, 7)
	_, err = h.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "content", string(buf))

	_, err = h.WriteAt([]byte("x"), 0)
	require.ErrorIs(t, err, handle.ErrReadOnly)
}

func TestCreateTruncatesAndWrites(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(name, []byte("old contents"), 0o644))

	h, err := Create(name)
	require.NoError(t, err)

	size, err := h.Size()
	require.NoError(t, err)
	require.Zero(t, size)

	_, err = h.WriteAt([]byte("new"), 0)
	require.NoError(t, err)
	require.NoError(t, h.Sync())
	require.NoError(t, h.Close())

	got, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Equal(t, "new", string(got))
}

func TestModeFor(t *testing.T) {
	require.Equal(t, handle.ReadOnly, modeFor(os.O_RDONLY))
	require.Equal(t, handle.WriteOnly, modeFor(os.O_WRONLY|os.O_CREATE))
	require.Equal(t, handle.ReadWrite, modeFor(os.O_RDWR|os.O_TRUNC))
}

func TestCloseReleasesDescriptor(t *testing.T) {
	name := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(name, []byte("data"), 0o644))

	h, err := Open(name)
	require.NoError(t, err)
	src, err := h.Source(0)
	require.NoError(t, err)

	require.NoError(t, h.Close())

	// The descriptor is still valid through the surviving stream.
	buf := make([]byte, 4)
	n, err := src.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	require.NoError(t, src.Close())

	// Closed for good now: further stream reads fail.
	_, err = src.Read(buf)
	require.ErrorIs(t, err, handle.ErrStreamClosed)
}
