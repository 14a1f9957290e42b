package certificates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spec-kit/registration-service/internal/config"
	"github.com/spec-kit/registration-service/internal/domain"
)

// FileRenderer writes certificate artifacts to disk, one file per
// participant, grouped by event.
type FileRenderer struct {
	outputDir string
}

// NewFileRenderer builds the renderer.
func NewFileRenderer(cfg config.CertificatesConfig) *FileRenderer {
	return &FileRenderer{outputDir: cfg.OutputDir}
}

// Render produces the certificate file and returns its path. The artifact is
// a plain-text certificate; swapping in a PDF renderer only requires another
// implementation of the service's renderer interface.
func (r *FileRenderer) Render(event *domain.Event, participantName string) (string, error) {
	dir := filepath.Join(r.outputDir, event.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create certificate dir: %w", err)
	}

	name := strings.ReplaceAll(strings.TrimSpace(participantName), " ", "_")
	path := filepath.Join(dir, name+".txt")

	content := fmt.Sprintf(
		"CERTIFICATE OF PARTICIPATION\n\nThis certifies that %s\nparticipated in %s (%s)\nheld at %s on %s.\n",
		participantName,
		event.Name,
		event.Sport,
		event.Location,
		event.Date.Format("2 January 2006"),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write certificate: %w", err)
	}
	return path, nil
}
