package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"portfolio/internal/storage"
)

// LocalFileStorage keeps uploaded objects on disk and serves them from baseURL.
type LocalFileStorage struct {
	baseDir string // e.g. "./uploads"
	baseURL string // e.g. "http://localhost:8080/uploads"
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Upload(ctx context.Context, key, _ string, r io.Reader, _ int64) error {
	const op = "storage.filestorage.Upload"

	if err := ctx.Err(); err != nil {
		return err
	}

	filePath, err := s.resolve(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("%s: failed to create directories: %w", op, err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("%s: failed to create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, r)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(filePath)
			return fmt.Errorf("%s: failed to copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(filePath)
		return ctx.Err()
	}

	return nil
}

func (s *LocalFileStorage) Delete(_ context.Context, key string) error {
	const op = "storage.filestorage.Delete"

	filePath, err := s.resolve(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrFileNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *LocalFileStorage) PublicURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *LocalFileStorage) GetFullPath(key string) string {
	return filepath.Join(s.baseDir, key)
}

func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}

// resolve maps key below baseDir and rejects keys that would escape it.
func (s *LocalFileStorage) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", storage.ErrFileNotFound
	}
	return filepath.Join(s.baseDir, clean), nil
}
