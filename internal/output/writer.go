// Package output writes converted documents to stdout, a local file or S3.
package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"doclingo/internal/domain"
	"doclingo/internal/port"
)

// StorageFactory opens object storage lazily, only when an s3:// destination
// is written to.
type StorageFactory func(ctx context.Context) (port.ObjectStorage, error)

// Writer routes content to a destination string:
//
//	""  or "-"           stdout
//	"s3://bucket/key"    object storage
//	anything else        local file path
type Writer struct {
	stdout  io.Writer
	storage StorageFactory
}

// NewWriter creates a Writer. storage may be nil, in which case s3://
// destinations fail with domain.ErrUnsupportedOutput.
func NewWriter(stdout io.Writer, storage StorageFactory) *Writer {
	return &Writer{stdout: stdout, storage: storage}
}

// Write stores data at dest and returns a human-readable location.
func (w *Writer) Write(ctx context.Context, dest string, data []byte, contentType string) (string, error) {
	if dest == "" || dest == "-" {
		if _, err := w.stdout.Write(data); err != nil {
			return "", fmt.Errorf("writing stdout: %w", err)
		}
		return "stdout", nil
	}

	if bucket, key, ok := ParseS3URI(dest); ok {
		if w.storage == nil {
			return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedOutput, dest)
		}
		store, err := w.storage(ctx)
		if err != nil {
			return "", err
		}
		out, err := store.Upload(ctx, port.UploadInput{
			Bucket:      bucket,
			Key:         key,
			Body:        bytes.NewReader(data),
			ContentType: contentType,
		})
		if err != nil {
			return "", err
		}
		return out.Location, nil
	}
	if strings.HasPrefix(dest, "s3://") {
		return "", fmt.Errorf("%w: malformed s3 destination %s", domain.ErrUnsupportedOutput, dest)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing output file: %w", err)
	}
	return dest, nil
}

// ParseS3URI splits s3://bucket/key. Both parts must be non-empty.
func ParseS3URI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// ContentType returns the MIME type for content produced in format f.
func ContentType(f domain.OutputFormat) string {
	switch f {
	case domain.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case domain.FormatJSON:
		return "application/json"
	case domain.FormatHTML, domain.FormatHTMLSplitPage:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
