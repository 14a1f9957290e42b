package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/registration-service/internal/config"
)

func TestSaveDocumentWritesUnderDocs(t *testing.T) {
	base := t.TempDir()
	store := NewStore(config.UploadsConfig{BaseDir: base, MaxSizeBytes: 1024})

	path, err := store.SaveDocument("aadhar card.jpg", []byte("content"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, filepath.Join(base, "docs")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveRejectsOversizedFile(t *testing.T) {
	store := NewStore(config.UploadsConfig{BaseDir: t.TempDir(), MaxSizeBytes: 4})

	_, err := store.SaveDocument("big.jpg", []byte("too large"))
	assert.Error(t, err)
}

func TestSanitizeStripsPathAndSpecials(t *testing.T) {
	assert.Equal(t, "passwd", sanitize("../../etc/passwd"))
	assert.Equal(t, "id_card_1.jpg", sanitize("id card 1.jpg"))
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMimeType("guidelines.PDF"))
	assert.Equal(t, "image/jpeg", DetectMimeType("card.jpg"))
	assert.Equal(t, "image/jpeg", DetectMimeType("card.png"))
}
