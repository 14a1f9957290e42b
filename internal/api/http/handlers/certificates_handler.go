package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registration-service/internal/api/dto"
	"github.com/spec-kit/registration-service/internal/auth"
	"github.com/spec-kit/registration-service/internal/service"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

// CertificatesHandler manages certificate endpoints.
type CertificatesHandler struct {
	service *service.CertificateService
}

// NewCertificatesHandler constructs handler.
func NewCertificatesHandler(certificateService *service.CertificateService) *CertificatesHandler {
	return &CertificatesHandler{service: certificateService}
}

// Generate POST /api/certificates/generate/:eventId.
func (h *CertificatesHandler) Generate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	count, err := h.service.Generate(c.Context(), principal.User.ID, c.Params("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.GenerateCertificatesResponse{
		Message:           "Certificates generated successfully",
		TotalCertificates: count,
	})
}

// List GET /api/certificates/:eventId.
func (h *CertificatesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	certs, err := h.service.List(c.Context(), principal.User.ID, c.Params("eventId"))
	if err != nil {
		return err
	}

	items := make([]dto.CertificateResponse, 0, len(certs))
	for _, cert := range certs {
		items = append(items, dto.CertificateResponse{
			ID:              cert.ID,
			EventID:         cert.EventID,
			RegistrationID:  cert.RegistrationID,
			ParticipantName: cert.ParticipantName,
			FilePath:        cert.FilePath,
			CreatedAt:       cert.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
