package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"vighnaharta-backend/internal/logger"
)

var (
	ErrInvalidKey   = errors.New("invalid file name")
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)

// LocalStorageService stores pass images on the local filesystem.
type LocalStorageService struct {
	dir          string
	publicPrefix string
	maxFileSize  int64
	allowedTypes map[string]bool
}

// NewLocalStorageService creates the pass directory if needed.
func NewLocalStorageService(cfg Config) (*LocalStorageService, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pass directory: %w", err)
	}

	prefix := "/" + strings.Trim(cfg.PublicPrefix, "/")
	if prefix == "/" {
		prefix = "/passes"
	}
	allowed := map[string]bool{}
	for _, t := range cfg.AllowedTypes {
		allowed[strings.ToLower(strings.TrimPrefix(t, "."))] = true
	}
	if len(allowed) == 0 {
		allowed = map[string]bool{"png": true, "jpg": true, "jpeg": true, "webp": true}
	}

	return &LocalStorageService{
		dir:          cfg.Dir,
		publicPrefix: prefix,
		maxFileSize:  cfg.MaxFileSize,
		allowedTypes: allowed,
	}, nil
}

// SanitizeKey reduces a client-supplied file name to a safe base name with an
// allowed extension.
func (s *LocalStorageService) SanitizeKey(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	base = unsafeKeyChars.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		return "", ErrInvalidKey
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if !s.allowedTypes[ext] {
		return "", fmt.Errorf("%w: extension %q not allowed", ErrInvalidKey, ext)
	}
	return base, nil
}

func (s *LocalStorageService) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

// SaveFile writes through a temp file and renames it into place so readers
// never observe a partial image.
func (s *LocalStorageService) SaveFile(ctx context.Context, key string, reader io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	src := reader
	if s.maxFileSize > 0 {
		src = io.LimitReader(reader, s.maxFileSize+1)
	}
	n, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if s.maxFileSize > 0 && n > s.maxFileSize {
		return ErrFileTooLarge
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to store file: %w", err)
	}
	logger.Debug("Pass image stored", "key", key, "bytes", n)
	return nil
}

// ReadFile reads file from local filesystem
func (s *LocalStorageService) ReadFile(key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// FileExists checks if file exists in local filesystem
func (s *LocalStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

// DeleteFile deletes file from local filesystem
func (s *LocalStorageService) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ListFiles lists stored images, skipping in-flight temp files.
func (s *LocalStorageService) ListFiles(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pass directory: %w", err)
	}
	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Key: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return files, nil
}

func (s *LocalStorageService) URL(key string) string {
	return s.publicPrefix + "/" + key
}

func (s *LocalStorageService) KeyFromURL(url string) (string, bool) {
	key, ok := strings.CutPrefix(url, s.publicPrefix+"/")
	if !ok || key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

// ContentType maps a key's extension to its MIME type.
func ContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return "application/octet-stream"
}
