// Package output writes conversion outputs to the local filesystem.
package output

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Ensure AtomicSink implements the interface.
var _ driven.OutputSink = (*AtomicSink)(nil)

// AtomicSink writes each output to a temporary file in the destination
// directory and renames it into place once complete.
type AtomicSink struct {
	dirMode  os.FileMode
	fileMode os.FileMode
}

// NewAtomicSink creates a sink that creates missing directories with
// 0755 and files with 0644.
func NewAtomicSink() *AtomicSink {
	return &AtomicSink{dirMode: 0755, fileMode: 0644}
}

// Write implements driven.OutputSink.
func (s *AtomicSink) Write(ctx context.Context, path string, write func(w io.Writer) error) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	cw := &countingWriter{w: tmp}
	bw := bufio.NewWriter(cw)
	if err := write(bw); err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		return 0, fmt.Errorf("failed to set mode on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		committed = true
		return 0, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	committed = true
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
