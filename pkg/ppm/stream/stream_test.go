package stream

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
)

func TestReaderOffsets(t *testing.T) {
	r := NewReader("memory", bytes.NewReader([]byte("abcdef")))

	b, err := r.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)
	assert.Equal(t, int64(1), r.Offset())

	require.NoError(t, r.UnreadByte())
	assert.Equal(t, int64(0), r.Offset())

	peeked, err := r.Peek(3)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(peeked))
	assert.Equal(t, int64(0), r.Offset(), "Peek must not consume")

	buf := make([]byte, 4)
	n, err := io.ReadFull(r, buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, int64(4), r.Offset())

	remaining, err := r.Remaining()
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ef", string(rest))

	_, err = r.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, int64(6), r.Offset())
}

// TestReaderSizeRestoresPosition tests that querying the size mid-stream
// leaves the byte sequence intact
func TestReaderSizeRestoresPosition(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), ChunkSize/5)
	path := filepath.Join(t.TempDir(), "carrier.ppm")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	r, err := OpenCarrier(path)
	require.NoError(t, err)
	defer r.Close()

	head := make([]byte, 15)
	_, err = io.ReadFull(r, head)
	require.NoError(t, err)

	size, err := r.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), size)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, append(head, rest...))
}

func TestOpenRejectsDirectories(t *testing.T) {
	_, err := OpenPayload(t.TempDir())
	assert.Error(t, err)

	_, err = OpenCarrier(filepath.Join(t.TempDir(), "missing.ppm"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriterCommit(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "stream_test",
		Level: hclog.Trace,
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "out.ppm")

	w, err := CreateOutput(path, OutputOptions{Mode: 0o640, ExpectedSize: 5, Logger: logger})
	require.NoError(t, err)
	defer w.Close()

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist, "target must not exist before Commit")

	require.NoError(t, w.WriteByte('h'))
	_, err = w.Write([]byte("ello"))
	require.NoError(t, err)
	assert.Equal(t, int64(5), w.Written())

	require.NoError(t, w.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	assert.Error(t, w.Commit(), "second Commit must fail")
	assert.NoError(t, w.Close(), "Close after Commit is a no-op")
	assertOnlyFiles(t, dir, "out.ppm")
}

func TestWriterAbortLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	w, err := CreateOutput(path, OutputOptions{})
	require.NoError(t, err)
	_, err = w.Write(bytes.Repeat([]byte{0xAA}, 3*ChunkSize))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Abort(), "Abort is idempotent")
	assertOnlyFiles(t, dir)
}

// TestWriterCommitFailureCleansUp tests that a failed flush still removes
// the staged file and reports why
func TestWriterCommitFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	w, err := CreateOutput(path, OutputOptions{})
	require.NoError(t, err)
	_, err = w.Write([]byte("pending"))
	require.NoError(t, err)

	require.NoError(t, w.file.Close())

	err = w.Commit()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.Contains(t, err.Error(), "flushing output")
	assertOnlyFiles(t, dir)
}

func TestWriterRefusesExistingOutput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "existing")
	require.NoError(t, os.WriteFile(path, []byte("keep me"), 0o600))

	_, err := CreateOutput(path, OutputOptions{})
	assert.ErrorIs(t, err, ppmerrors.ErrOutputExists)

	w, err := CreateOutput(path, OutputOptions{Overwrite: true})
	require.NoError(t, err)
	_, err = w.Write([]byte("replaced"))
	require.NoError(t, err)
	require.NoError(t, w.Commit())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(got))
	assertOnlyFiles(t, dir, "existing")
}

func TestWriterInsufficientDiskSpace(t *testing.T) {
	dir := t.TempDir()
	available, err := AvailableDiskSpace(dir)
	if err != nil {
		t.Skipf("free disk space unavailable: %v", err)
	}
	if available > (1<<62)-1 {
		t.Skip("filesystem reports effectively unlimited space")
	}

	_, err = CreateOutput(filepath.Join(dir, "huge"), OutputOptions{ExpectedSize: available + 1<<40})
	assert.ErrorIs(t, err, ppmerrors.ErrInsufficientDiskSpace)
	assertOnlyFiles(t, dir)
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	assert.ElementsMatch(t, names, got)
}
