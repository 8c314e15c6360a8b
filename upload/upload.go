package upload

import (
	"context"
	"io"
)

// Provider represents a file storage implementation
// for uploaded images and documents
type Provider interface {
	MaxBytes() int64
	Upload(ctx context.Context, file io.Reader, originalName string) (string, error)
}
