// Package handletest provides a conformance test suite for validating
// platform backends against the handle core contracts.
//
// Backend packages import the suite and run it against their own
// factory:
//
//	func TestBackend(t *testing.T) {
//	    handletest.TestSuite(t, func(t *testing.T, contents []byte) *handle.Handle {
//	        return openFreshHandle(t, contents)
//	    })
//	}
//
// The suite validates the observable handle contracts: position
// bookkeeping across streams, end-of-file semantics, deferred resource
// release, and failure of every operation after close. It requires
// read-write handles; read-only backends are covered by their own
// integration tests.
package handletest

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/handle"
)

// Factory opens a fresh read-write handle whose file initially holds
// contents. Every call must return a handle over an independent file.
type Factory func(t *testing.T, contents []byte) *handle.Handle

// TestSuite runs all conformance tests against handles produced by
// newHandle.
func TestSuite(t *testing.T, newHandle Factory) {
	t.Run("RandomAccess", func(t *testing.T) {
		testRandomAccess(t, newHandle)
	})
	t.Run("SourceExhaustion", func(t *testing.T) {
		testSourceExhaustion(t, newHandle)
	})
	t.Run("SourceAtOffset", func(t *testing.T) {
		testSourceAtOffset(t, newHandle)
	})
	t.Run("SinkAdvancesPosition", func(t *testing.T) {
		testSinkAdvancesPosition(t, newHandle)
	})
	t.Run("AppendingSink", func(t *testing.T) {
		testAppendingSink(t, newHandle)
	})
	t.Run("DeferredRelease", func(t *testing.T) {
		testDeferredRelease(t, newHandle)
	})
	t.Run("ClosedHandleFails", func(t *testing.T) {
		testClosedHandleFails(t, newHandle)
	})
	t.Run("CloseIdempotent", func(t *testing.T) {
		testCloseIdempotent(t, newHandle)
	})
}

// pattern returns n bytes of deterministic test data.
func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte('a' + i%26)
	}
	return p
}

// testRandomAccess exercises ReadAt, WriteAt and Size directly on the
// handle, including writes that extend the file.
func testRandomAccess(t *testing.T, newHandle Factory) {
	contents := pattern(64)
	h := newHandle(t, contents)
	defer func() {
		if err := h.Close(); err != nil {
			t.Errorf("Close(): got error %v", err)
		}
	}()

	size, err := h.Size()
	if err != nil {
		t.Fatalf("Size(): got error %v, want nil", err)
	}
	if size != 64 {
		t.Errorf("Size() = %d, want 64", size)
	}

	buf := make([]byte, 16)
	n, err := h.ReadAt(buf, 8)
	if err != nil {
		t.Fatalf("ReadAt(8): got error %v, want nil", err)
	}
	if n != 16 {
		t.Errorf("ReadAt(8): read %d bytes, want 16", n)
	}
	if !bytes.Equal(buf, contents[8:24]) {
		t.Errorf("ReadAt(8) = %q, want %q", buf, contents[8:24])
	}

	if _, err := h.WriteAt([]byte("OVERWRITE"), 4); err != nil {
		t.Fatalf("WriteAt(4): got error %v, want nil", err)
	}
	check := make([]byte, 9)
	if _, err := h.ReadAt(check, 4); err != nil {
		t.Fatalf("ReadAt(4): got error %v, want nil", err)
	}
	if string(check) != "OVERWRITE" {
		t.Errorf("ReadAt(4) after WriteAt = %q, want %q", check, "OVERWRITE")
	}

	// Extend past the current end.
	if _, err := h.WriteAt([]byte("tail"), 64); err != nil {
		t.Fatalf("WriteAt(64): got error %v, want nil", err)
	}
	size, err = h.Size()
	if err != nil {
		t.Fatalf("Size(): got error %v, want nil", err)
	}
	if size != 68 {
		t.Errorf("Size() after extending write = %d, want 68", size)
	}

	if err := h.Sync(); err != nil {
		t.Errorf("Sync(): got error %v, want nil", err)
	}
}

// testSourceExhaustion walks a source through a 100-byte file: a full
// read, a read truncated by end of file, and an end-of-file read that
// leaves the position untouched.
func testSourceExhaustion(t *testing.T, newHandle Factory) {
	h := newHandle(t, pattern(100))

	src, err := h.Source(0)
	if err != nil {
		t.Fatalf("Source(0): got error %v, want nil", err)
	}

	buf := make([]byte, 50)
	n, err := src.Read(buf)
	if err != nil {
		t.Fatalf("Read(50): got error %v, want nil", err)
	}
	if n != 50 {
		t.Errorf("Read(50) = %d bytes, want 50", n)
	}
	assertPosition(t, h, src, 50)

	buf = make([]byte, 100)
	n, err = src.Read(buf)
	if err != nil {
		t.Fatalf("Read(100): got error %v, want nil", err)
	}
	if n != 50 {
		t.Errorf("Read(100) = %d bytes, want the remaining 50", n)
	}
	assertPosition(t, h, src, 100)

	n, err = src.Read(make([]byte, 10))
	if !errors.Is(err, io.EOF) {
		t.Errorf("Read at end of file: got (%d, %v), want (0, io.EOF)", n, err)
	}
	assertPosition(t, h, src, 100)

	if err := src.Close(); err != nil {
		t.Errorf("source Close(): got error %v", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("handle Close(): got error %v", err)
	}
}

// testSourceAtOffset verifies a fresh stream reports the offset it was
// created at before any I/O.
func testSourceAtOffset(t *testing.T, newHandle Factory) {
	contents := pattern(32)
	h := newHandle(t, contents)
	defer closeAll(t, h)

	src, err := h.Source(20)
	if err != nil {
		t.Fatalf("Source(20): got error %v, want nil", err)
	}
	defer closeStream(t, src)
	assertPosition(t, h, src, 20)

	got, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll: got error %v, want nil", err)
	}
	if !bytes.Equal(got, contents[20:]) {
		t.Errorf("ReadAll from offset 20 = %q, want %q", got, contents[20:])
	}
}

// testSinkAdvancesPosition verifies writes advance the sink by exactly
// the byte count and land at the right offsets.
func testSinkAdvancesPosition(t *testing.T, newHandle Factory) {
	h := newHandle(t, pattern(10))
	defer closeAll(t, h)

	snk, err := h.Sink(2)
	if err != nil {
		t.Fatalf("Sink(2): got error %v, want nil", err)
	}
	defer closeStream(t, snk)
	assertPosition(t, h, snk, 2)

	if _, err := snk.Write([]byte("XYZ")); err != nil {
		t.Fatalf("Write: got error %v, want nil", err)
	}
	assertPosition(t, h, snk, 5)

	if err := snk.Flush(); err != nil {
		t.Errorf("Flush(): got error %v, want nil", err)
	}

	got := make([]byte, 3)
	if _, err := h.ReadAt(got, 2); err != nil {
		t.Fatalf("ReadAt(2): got error %v, want nil", err)
	}
	if string(got) != "XYZ" {
		t.Errorf("ReadAt(2) after sink write = %q, want %q", got, "XYZ")
	}
}

// testAppendingSink verifies an appending sink starts at the file's
// size and extends it.
func testAppendingSink(t *testing.T, newHandle Factory) {
	h := newHandle(t, []byte("abc"))
	defer closeAll(t, h)

	snk, err := h.AppendingSink()
	if err != nil {
		t.Fatalf("AppendingSink(): got error %v, want nil", err)
	}
	defer closeStream(t, snk)
	assertPosition(t, h, snk, 3)

	if _, err := snk.Write([]byte("def")); err != nil {
		t.Fatalf("Write: got error %v, want nil", err)
	}
	assertPosition(t, h, snk, 6)

	got := make([]byte, 6)
	if _, err := h.ReadAt(got, 0); err != nil {
		t.Fatalf("ReadAt(0): got error %v, want nil", err)
	}
	if string(got) != "abcdef" {
		t.Errorf("file after append = %q, want %q", got, "abcdef")
	}
}

// testDeferredRelease verifies a live stream survives the handle's own
// close and keeps working until the stream itself is closed.
func testDeferredRelease(t *testing.T, newHandle Factory) {
	contents := pattern(40)
	h := newHandle(t, contents)

	src, err := h.Source(0)
	if err != nil {
		t.Fatalf("Source(0): got error %v, want nil", err)
	}

	head := make([]byte, 8)
	if _, err := src.Read(head); err != nil {
		t.Fatalf("Read before handle close: got error %v, want nil", err)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("handle Close() with open stream: got error %v, want nil", err)
	}

	// The handle's public surface is gone, but the stream still reads.
	if _, err := h.ReadAt(make([]byte, 1), 0); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("ReadAt after close: got error %v, want ErrClosed", err)
	}
	rest, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("Read after handle close: got error %v, want nil", err)
	}
	if !bytes.Equal(append(head, rest...), contents) {
		t.Errorf("stream read %d+%d bytes, want the full %d", len(head), len(rest), len(contents))
	}

	if err := src.Close(); err != nil {
		t.Errorf("source Close() (final release): got error %v", err)
	}
}

// testClosedHandleFails verifies every public operation reports
// ErrClosed after Close.
func testClosedHandleFails(t *testing.T, newHandle Factory) {
	h := newHandle(t, pattern(8))
	if err := h.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}

	if _, err := h.ReadAt(make([]byte, 1), 0); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("ReadAt: got error %v, want ErrClosed", err)
	}
	if _, err := h.WriteAt([]byte("x"), 0); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("WriteAt: got error %v, want ErrClosed", err)
	}
	if _, err := h.Size(); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("Size: got error %v, want ErrClosed", err)
	}
	if err := h.Sync(); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("Sync: got error %v, want ErrClosed", err)
	}
	if _, err := h.Source(0); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("Source: got error %v, want ErrClosed", err)
	}
	if _, err := h.Sink(0); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("Sink: got error %v, want ErrClosed", err)
	}
	if _, err := h.AppendingSink(); !errors.Is(err, handle.ErrClosed) {
		t.Errorf("AppendingSink: got error %v, want ErrClosed", err)
	}
}

// testCloseIdempotent verifies repeated closes are no-ops.
func testCloseIdempotent(t *testing.T, newHandle Factory) {
	h := newHandle(t, pattern(8))
	if err := h.Close(); err != nil {
		t.Fatalf("first Close(): got error %v, want nil", err)
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close(): got error %v, want nil", err)
	}
}

func assertPosition(t *testing.T, h *handle.Handle, stream any, want int64) {
	t.Helper()
	got, err := h.Position(stream)
	if err != nil {
		t.Fatalf("Position(): got error %v, want nil", err)
	}
	if got != want {
		t.Errorf("Position() = %d, want %d", got, want)
	}
}

func closeStream(t *testing.T, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Errorf("stream Close(): got error %v", err)
	}
}

func closeAll(t *testing.T, h *handle.Handle) {
	t.Helper()
	if err := h.Close(); err != nil {
		t.Errorf("handle Close(): got error %v", err)
	}
}
