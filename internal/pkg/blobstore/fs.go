package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/logger"
)

// FSStore хранит сгенерированные документы в каталоге на диске
type FSStore struct {
	dir string
}

// NewFSStore создает хранилище в каталоге dir
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save document: %w", err)
	}

	logger.Info("document saved",
		logger.Field("path", path),
	)
	return path, nil
}

func (s *FSStore) Load(_ context.Context, filename string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return data, nil
}
