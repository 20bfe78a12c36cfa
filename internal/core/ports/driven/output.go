package driven

import (
	"context"
	"io"
)

// OutputSink writes conversion outputs.
type OutputSink interface {
	// Write creates or replaces path with whatever write produces and
	// returns the number of bytes written. If write fails the previous
	// content of path, if any, is left untouched.
	Write(ctx context.Context, path string, write func(w io.Writer) error) (int64, error)
}
