package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/registration-service/internal/config"
)

const docsSubdir = "docs"

// Store persists uploaded files on local disk. Stored paths become durable
// references owned by the aggregates that bind them.
type Store struct {
	baseDir string
	maxSize int64
}

// NewStore builds the upload store.
func NewStore(cfg config.UploadsConfig) *Store {
	return &Store{baseDir: cfg.BaseDir, maxSize: cfg.MaxSizeBytes}
}

// SaveDocument writes a phase-2 identity/required document under the docs
// directory and returns the storage path.
func (s *Store) SaveDocument(fileName string, data []byte) (string, error) {
	return s.save(filepath.Join(s.baseDir, docsSubdir), fileName, data)
}

// SaveAsset writes an event asset such as a poster or guideline file.
func (s *Store) SaveAsset(fileName string, data []byte) (string, error) {
	return s.save(s.baseDir, fileName, data)
}

func (s *Store) save(dir, fileName string, data []byte) (string, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("file %s exceeds maximum size of %d bytes", fileName, s.maxSize)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], sanitize(fileName))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// DetectMimeType guesses the document MIME type from its file name; the
// extraction service only distinguishes PDFs from images.
func DetectMimeType(fileName string) string {
	if strings.HasSuffix(strings.ToLower(fileName), ".pdf") {
		return "application/pdf"
	}
	return "image/jpeg"
}
