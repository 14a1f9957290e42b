package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/registration-service/internal/api/dto"
	"github.com/spec-kit/registration-service/internal/auth"
	"github.com/spec-kit/registration-service/internal/domain"
	"github.com/spec-kit/registration-service/internal/service"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

// EventsHandler manages event endpoints.
type EventsHandler struct {
	service *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{service: eventService}
}

// Create POST /api/events. Multipart: form fields + optional poster and
// guideline files.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return apperrors.NewValidationError("invalid date", map[string]any{"date": req.Date})
	}

	var docs []domain.RequiredDocument
	if req.RequiredDocs != "" {
		if err := json.Unmarshal([]byte(req.RequiredDocs), &docs); err != nil {
			docs = nil
		}
	}

	input := service.EventCreateInput{
		Name:         req.Name,
		Sport:        req.Sport,
		Date:         date,
		Location:     req.Location,
		Fee:          req.Fee,
		FeeCurrency:  req.FeeCurrency,
		EventType:    domain.EventType(req.EventType),
		TeamSize:     req.TeamSize,
		RequiredDocs: docs,
	}
	if req.EventType == "" {
		input.EventType = domain.EventTypeIndividual
	}

	if poster, err := readFormFile(c, "poster"); err == nil && poster != nil {
		input.Poster = poster
	}
	if guideline, err := readFormFile(c, "guideline"); err == nil && guideline != nil {
		input.Guideline = guideline
	}

	event, err := h.service.Create(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Event created successfully",
		"event":   eventResponse(event),
	})
}

// List GET /api/events.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	events, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponses(events)})
}

// ListMine GET /api/events/my-events.
func (h *EventsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	events, err := h.service.ListMine(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponses(events)})
}

// Get GET /api/events/:eventId.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.service.Get(c.Context(), c.Params("eventId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventResponse(event)})
}

// Delete DELETE /api/events/:eventId.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), principal.User.ID, c.Params("eventId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Event deleted"})
}

func parseEventDate(val string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, val)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func readFormFile(c *fiber.Ctx, field string) (*service.AssetUpload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	data, err := readFileHeader(header)
	if err != nil {
		return nil, err
	}
	return &service.AssetUpload{FileName: header.Filename, Data: data}, nil
}

func eventResponse(event *domain.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:            event.ID,
		Name:          event.Name,
		Sport:         event.Sport,
		Date:          event.Date,
		Location:      event.Location,
		Fee:           event.Fee,
		FeeCurrency:   event.FeeCurrency,
		EventType:     event.EventType,
		TeamSize:      event.TeamSize,
		RequiredDocs:  event.RequiredDocs,
		PosterPath:    event.PosterPath,
		GuidelinePath: event.GuidelinePath,
		OrganizerID:   event.OrganizerID,
		CreatedAt:     event.CreatedAt,
	}
}

func eventResponses(events []domain.Event) []dto.EventResponse {
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, eventResponse(&events[i]))
	}
	return items
}
