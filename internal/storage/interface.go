package storage

import (
	"context"
	"io"
	"time"
)

// FileInfo describes a stored pass image.
type FileInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// StorageInterface defines the interface for pass image backends. Keys are
// bare file names inside one shared directory.
type StorageInterface interface {
	// SaveFile writes the content under key, replacing any existing file.
	SaveFile(ctx context.Context, key string, reader io.Reader) error

	// ReadFile opens a file for reading.
	ReadFile(key string) (io.ReadCloser, error)

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	// DeleteFile removes a file. A missing file is not an error.
	DeleteFile(ctx context.Context, key string) error

	// ListFiles returns every stored file.
	ListFiles(ctx context.Context) ([]FileInfo, error)

	// URL returns the public path the file is served under.
	URL(key string) string

	// KeyFromURL extracts the key from a URL produced by URL.
	KeyFromURL(url string) (string, bool)

	// SanitizeKey reduces a client file name to a key accepted by SaveFile.
	SanitizeKey(name string) (string, error)
}
