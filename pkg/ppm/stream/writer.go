package stream

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	ppmerrors "github.com/prevostcorentin/ppm-steg/pkg/ppm/errors"
	"github.com/prevostcorentin/ppm-steg/pkg/utils/permissions"
)

// OutputOptions controls how CreateOutput prepares the target file
type OutputOptions struct {
	// Mode is applied to the output file; zero means permissions.DefaultFilePerms
	Mode os.FileMode
	// Overwrite allows replacing an existing file at the target path
	Overwrite bool
	// ExpectedSize, when positive, is checked against free disk space
	ExpectedSize int64
	Logger       hclog.Logger
}

// Writer buffers output into a temporary file next to the target. The target
// only appears, complete, once Commit succeeds; any other exit path removes
// the temporary file.
type Writer struct {
	path    string
	tmpPath string
	file    *os.File
	buf     *bufio.Writer
	written int64
	done    bool
	logger  hclog.Logger
}

// CreateOutput starts writing a new output file at path
func CreateOutput(path string, opts OutputOptions) (*Writer, error) {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if !opts.Overwrite {
		if _, err := os.Lstat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", ppmerrors.ErrOutputExists, path)
		}
	}

	dir := filepath.Dir(path)
	if opts.ExpectedSize > 0 {
		available, err := AvailableDiskSpace(dir)
		if err != nil {
			logger.Debug("Could not query free disk space", "dir", dir, "error", err)
		} else if available < opts.ExpectedSize {
			return nil, fmt.Errorf("%w: %s needs %d bytes, %d available",
				ppmerrors.ErrInsufficientDiskSpace, path, opts.ExpectedSize, available)
		}
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}

	mode := opts.Mode
	if mode == 0 {
		mode = os.FileMode(permissions.DefaultFilePerms)
	}
	if err := file.Chmod(mode); err != nil {
		logger.Debug("Could not set output permissions", "mode", permissions.FormatOctal(uint16(mode.Perm())), "error", err)
	}

	logger.Trace("💾 Output staged", "path", path, "temp", file.Name())

	return &Writer{
		path:    path,
		tmpPath: file.Name(),
		file:    file,
		buf:     bufio.NewWriterSize(file, ChunkSize),
		logger:  logger,
	}, nil
}

// Path returns the final output path
func (w *Writer) Path() string {
	return w.path
}

// Written is the number of bytes accepted so far
func (w *Writer) Written() int64 {
	return w.written
}

// WriteByte appends one byte
func (w *Writer) WriteByte(b byte) error {
	if err := w.buf.WriteByte(b); err != nil {
		return err
	}
	w.written++
	return nil
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	w.written += int64(n)
	return n, err
}

// Commit flushes everything to disk and moves the file into place
func (w *Writer) Commit() error {
	if w.done {
		return fmt.Errorf("output %s already closed", w.path)
	}

	if err := w.buf.Flush(); err != nil {
		return errors.Join(fmt.Errorf("flushing output: %w", err), w.Abort())
	}
	if err := w.file.Sync(); err != nil {
		return errors.Join(fmt.Errorf("syncing output: %w", err), w.Abort())
	}
	if err := w.file.Close(); err != nil {
		w.done = true
		os.Remove(w.tmpPath)
		return fmt.Errorf("closing output: %w", err)
	}
	w.done = true

	if err := atomicReplace(w.tmpPath, w.path, w.logger); err != nil {
		os.Remove(w.tmpPath)
		return err
	}
	return nil
}

// Abort discards everything written. It is a no-op after Commit.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	closeErr := w.file.Close()
	if err := os.Remove(w.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing partial output: %w", err)
	}
	w.logger.Debug("🧹 Discarded partial output", "path", w.path, "bytes", w.written)
	return closeErr
}

// Close aborts an uncommitted output, so it is safe to defer
func (w *Writer) Close() error {
	return w.Abort()
}
