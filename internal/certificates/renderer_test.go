package certificates

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/registration-service/internal/config"
	"github.com/spec-kit/registration-service/internal/domain"
)

func TestRenderWritesCertificateFile(t *testing.T) {
	out := t.TempDir()
	renderer := NewFileRenderer(config.CertificatesConfig{OutputDir: out})

	event := &domain.Event{
		ID:       "event-1",
		Name:     "City Marathon",
		Sport:    "Running",
		Location: "Pune",
		Date:     time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
	}

	path, err := renderer.Render(event, "Raj Kumar")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "event-1", "Raj_Kumar.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Raj Kumar")
	assert.Contains(t, string(content), "City Marathon")
	assert.Contains(t, string(content), "1 October 2024")
}
