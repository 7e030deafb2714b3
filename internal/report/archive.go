package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
)

var ErrArchiveDisabled = errors.New("export archive is not configured")

// Archiver stores an export file and returns where it can be fetched.
type Archiver interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// ArchiveKey is the object key for an export file.
func ArchiveKey(filename string) string {
	return path.Join("exports", filename)
}

// Archive uploads an already rendered export. A nil archiver means the
// archive is disabled.
func Archive(ctx context.Context, a Archiver, filename string, body []byte, f Format) (string, error) {
	if a == nil {
		return "", ErrArchiveDisabled
	}
	return a.Upload(ctx, ArchiveKey(filename), bytes.NewReader(body), f.ContentType())
}
