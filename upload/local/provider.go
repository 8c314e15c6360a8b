package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"

	"github.com/hunger-busters/hunger-busters-api/env"
)

// defaultDirectory is where uploads land
// when no directory is configured
const defaultDirectory = "uploads"

// Provider implements an upload provider against the local filesystem
type Provider struct {
	maxBytes  int64
	directory string
}

// NewProvider creates a new instance of a Provider,
// parses environment variables,
// and makes sure the upload directory exists
func NewProvider() (*Provider, error) {
	maxBytes, err := env.GetBytesEnv("max upload file size", "UPLOAD_MAX_SIZE")
	if err != nil {
		return nil, err
	}

	directory := defaultDirectory
	if value, ok := os.LookupEnv("UPLOAD_DIR"); ok {
		value = strings.TrimSpace(value)
		if value != "" {
			directory = value
		}
	}

	err = os.MkdirAll(directory, 0o755)
	if err != nil {
		return nil, errors.Wrap(err, "creating upload directory")
	}

	return &Provider{
		maxBytes:  int64(maxBytes.Bytes()),
		directory: directory,
	}, nil
}

// MaxBytes gets the max number of bytes that can be uploaded at once
func (p *Provider) MaxBytes() int64 {
	return p.maxBytes
}

// Directory gets the directory uploads are stored in,
// so the server can serve it statically
func (p *Provider) Directory() string {
	return p.directory
}

// Upload streams a file to the upload directory,
// returning the stored path once written
func (p *Provider) Upload(ctx context.Context, file io.Reader,
	originalName string) (string, error) {

	// Generate the filename using a random ID,
	// keeping the original extension
	fileID, err := ksuid.NewRandom()
	if err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	fileName := fmt.Sprintf("%s.%s", fileID, ext)

	storedPath := filepath.Join(p.directory, fileName)
	target, err := os.Create(storedPath)
	if err != nil {
		return "", errors.Wrap(err, "creating upload file")
	}
	defer target.Close()

	_, err = io.Copy(target, file)
	if err != nil {
		// Don't leave partial files behind
		os.Remove(storedPath)
		return "", errors.Wrap(err, "writing upload file")
	}

	return storedPath, nil
}
