// Package stream provides the sequential byte cursors the codec and the
// bit-packing engine run on: buffered readers over carrier and payload
// files, and an output writer that only replaces its target on Commit.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the buffer size used for file-backed streams
const ChunkSize = 64 * 1024

// Reader is a forward-only byte cursor with one byte of put-back.
// It satisfies io.ByteScanner for the header parser and io.ByteReader for
// the bit-packing engine.
type Reader struct {
	name   string
	src    io.ReadSeeker
	closer io.Closer
	buf    *bufio.Reader
	offset int64
}

// NewReader wraps an in-memory or already opened source
func NewReader(name string, src io.ReadSeeker) *Reader {
	r := &Reader{
		name: name,
		src:  src,
		buf:  bufio.NewReaderSize(src, ChunkSize),
	}
	if c, ok := src.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// OpenCarrier opens the image whose pixel bytes will host or hold a payload
func OpenCarrier(path string) (*Reader, error) {
	return open("carrier", path)
}

// OpenPayload opens the file to hide
func OpenPayload(path string) (*Reader, error) {
	return open("payload", path)
}

func open(role, path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", role, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening %s: %w", role, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("opening %s: %s is a directory", role, path)
	}
	return NewReader(path, f), nil
}

// Name returns the path or label the reader was created with
func (r *Reader) Name() string {
	return r.name
}

// ReadByte returns the next byte, or io.EOF once the stream is exhausted
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.buf.ReadByte()
	if err == nil {
		r.offset++
	}
	return b, err
}

// UnreadByte puts back the byte returned by the last ReadByte
func (r *Reader) UnreadByte() error {
	if err := r.buf.UnreadByte(); err != nil {
		return err
	}
	r.offset--
	return nil
}

// Peek returns the next n bytes without consuming them
func (r *Reader) Peek(n int) ([]byte, error) {
	return r.buf.Peek(n)
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.offset += int64(n)
	return n, err
}

// Offset is the number of bytes consumed so far
func (r *Reader) Offset() int64 {
	return r.offset
}

// Size returns the total size of the underlying source. The source position
// is restored afterwards, so buffered reads continue where they were.
func (r *Reader) Size() (int64, error) {
	current, err := r.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("querying size of %s: %w", r.name, err)
	}
	end, err := r.src.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("querying size of %s: %w", r.name, err)
	}
	if _, err := r.src.Seek(current, io.SeekStart); err != nil {
		return 0, fmt.Errorf("restoring position of %s: %w", r.name, err)
	}
	return end, nil
}

// Remaining returns the number of bytes not yet consumed
func (r *Reader) Remaining() (int64, error) {
	size, err := r.Size()
	if err != nil {
		return 0, err
	}
	if size < r.offset {
		return 0, nil
	}
	return size - r.offset, nil
}

// Close releases the underlying file, if any
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
