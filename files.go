package mdlive

import (
	"context"

	"github.com/alnah/go-mdlive/internal/export"
	"github.com/alnah/go-mdlive/internal/fileutil"
)

// Exporter prints a complete HTML document to PDF.
type Exporter interface {
	Export(ctx context.Context, htmlDoc string, opts export.Options) ([]byte, error)
	Close() error
}

// FileReader reads a text file for import.
type FileReader interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// FileReaderFunc adapts a function to FileReader.
type FileReaderFunc func(ctx context.Context, path string) (string, error)

// ReadText implements FileReader.
func (f FileReaderFunc) ReadText(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// OSFileReader reads UTF-8 files from disk up to Limit bytes
// (fileutil.MaxTextSize when zero).
type OSFileReader struct {
	Limit int64
}

// ReadText implements FileReader.
// Supports context cancellation via goroutine + select since file reads
// don't natively support context.
func (r OSFileReader) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		text, err := fileutil.ReadText(path, r.Limit)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

// Compile-time interface checks.
var (
	_ Exporter   = (*export.Exporter)(nil)
	_ FileReader = OSFileReader{}
	_ FileReader = FileReaderFunc(nil)
)
