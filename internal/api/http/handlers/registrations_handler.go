package handlers

import (
	"io"
	"mime/multipart"
	"regexp"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registration-service/internal/api/dto"
	"github.com/spec-kit/registration-service/internal/auth"
	"github.com/spec-kit/registration-service/internal/domain"
	"github.com/spec-kit/registration-service/internal/service"
	"github.com/spec-kit/registration-service/internal/storage"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

// documentFieldPattern is the phase-2 wire contract for file field names:
// member{index}_{documentName}. Keys are parsed into typed document keys
// here at the boundary; raw field names never reach the service.
var documentFieldPattern = regexp.MustCompile(`^member(\d+)_(.+)$`)

// RegistrationsHandler manages the two-phase registration endpoints.
type RegistrationsHandler struct {
	service *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{service: registrationService}
}

// Start POST /api/registrations/:eventId/start.
func (h *RegistrationsHandler) Start(c *fiber.Ctx) error {
	var req dto.StartRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	members := make([]service.MemberInput, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, service.MemberInput{
			Name:  m.Name,
			Age:   m.Age,
			Email: m.Email,
			Phone: m.Phone,
		})
	}

	reg, err := h.service.Start(c.Context(), c.Params("eventId"), service.StartInput{
		Type:     req.Type,
		TeamName: req.TeamName,
		Location: req.Location,
		Members:  members,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.StartRegistrationResponse{
		Message:        "Details saved.",
		RegistrationID: reg.ID,
	})
}

// VerifyAndComplete POST /api/registrations/verify-and-complete.
func (h *RegistrationsHandler) VerifyAndComplete(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	registrationID := formValue(form, "registrationId")
	if registrationID == "" {
		return apperrors.NewValidationError("registrationId required", nil)
	}

	files, err := collectUploadedFiles(form)
	if err != nil {
		return err
	}

	reg, err := h.service.VerifyAndComplete(c.Context(), registrationID, files)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerifyAndCompleteResponse{
		Message:      "Verified and Registered!",
		Registration: registrationResponse(reg),
	})
}

// ListByEvent GET /api/events/:eventId/registrations.
func (h *RegistrationsHandler) ListByEvent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	registrations, err := h.service.ListByEvent(c.Context(), principal.User.ID, c.Params("eventId"))
	if err != nil {
		return err
	}

	items := make([]dto.RegistrationResponse, 0, len(registrations))
	for i := range registrations {
		items = append(items, registrationResponse(&registrations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func collectUploadedFiles(form *multipart.Form) ([]service.UploadedFile, error) {
	var files []service.UploadedFile
	for field, headers := range form.File {
		key, ok := parseDocumentKey(field)
		if !ok || len(headers) == 0 {
			continue
		}
		data, err := readFileHeader(headers[0])
		if err != nil {
			return nil, apperrors.NewValidationError("could not read uploaded file", map[string]any{"field": field})
		}
		files = append(files, service.UploadedFile{
			Key:      key,
			FileName: headers[0].Filename,
			MimeType: storage.DetectMimeType(headers[0].Filename),
			Data:     data,
		})
	}
	return files, nil
}

func parseDocumentKey(field string) (service.DocumentKey, bool) {
	m := documentFieldPattern.FindStringSubmatch(field)
	if m == nil {
		return service.DocumentKey{}, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return service.DocumentKey{}, false
	}
	return service.DocumentKey{MemberIndex: index, DocumentName: m[2]}, true
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func registrationResponse(reg *domain.Registration) dto.RegistrationResponse {
	members := make([]dto.MemberResponse, 0, len(reg.Members))
	for _, m := range reg.Members {
		docs := make([]dto.UploadedDocumentResponse, 0, len(m.UploadedDocs))
		for _, d := range m.UploadedDocs {
			docs = append(docs, dto.UploadedDocumentResponse{Name: d.Name, Path: d.Path})
		}
		members = append(members, dto.MemberResponse{
			Name:         m.Name,
			Age:          m.Age,
			Email:        m.Email,
			Phone:        m.Phone,
			UploadedDocs: docs,
		})
	}
	return dto.RegistrationResponse{
		ID:        reg.ID,
		EventID:   reg.EventID,
		Type:      reg.Type,
		TeamName:  reg.TeamName,
		Location:  reg.Location,
		Members:   members,
		Status:    reg.Status,
		CreatedAt: reg.CreatedAt,
	}
}
