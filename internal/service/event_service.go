package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
	"github.com/spec-kit/registration-service/internal/repository"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

// AssetStore persists event assets (posters, guideline files).
type AssetStore interface {
	SaveAsset(fileName string, data []byte) (string, error)
}

// AssetUpload carries one optional event asset.
type AssetUpload struct {
	FileName string
	Data     []byte
}

// EventCreateInput describes event creation payload.
type EventCreateInput struct {
	Name         string
	Sport        string
	Date         time.Time
	Location     string
	Fee          float64
	FeeCurrency  string
	EventType    domain.EventType
	TeamSize     int
	RequiredDocs []domain.RequiredDocument
	Poster       *AssetUpload
	Guideline    *AssetUpload
}

// EventService coordinates event workflows.
type EventService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	certificates  repository.CertificateRepository
	assets        AssetStore
	logger        *zap.Logger
}

// EventDependencies bundles collaborators for the event service.
type EventDependencies struct {
	EventRepo        repository.EventRepository
	RegistrationRepo repository.RegistrationRepository
	CertificateRepo  repository.CertificateRepository
	Assets           AssetStore
	Logger           *zap.Logger
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{
		events:        deps.EventRepo,
		registrations: deps.RegistrationRepo,
		certificates:  deps.CertificateRepo,
		assets:        deps.Assets,
		logger:        deps.Logger,
	}
}

// Create creates an event for an organizer. The identity document is always
// forced into the required-document list.
func (s *EventService) Create(ctx context.Context, organizerID string, input EventCreateInput) (*domain.Event, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Sport) == "" || strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.NewValidationError("name, sport, location required", nil)
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("date required", nil)
	}
	if input.EventType == "" {
		input.EventType = domain.EventTypeIndividual
	}
	if input.EventType != domain.EventTypeIndividual && input.EventType != domain.EventTypeTeam {
		return nil, apperrors.NewValidationError("eventType must be Individual or Team", nil)
	}
	if input.FeeCurrency == "" {
		input.FeeCurrency = "INR"
	}

	docs := ensureIdentityDoc(input.RequiredDocs)

	event := &domain.Event{
		Name:         strings.TrimSpace(input.Name),
		Sport:        strings.TrimSpace(input.Sport),
		Date:         input.Date,
		Location:     strings.TrimSpace(input.Location),
		Fee:          input.Fee,
		FeeCurrency:  input.FeeCurrency,
		EventType:    input.EventType,
		RequiredDocs: docs,
		OrganizerID:  organizerID,
	}
	if input.EventType == domain.EventTypeTeam {
		event.TeamSize = input.TeamSize
	}

	if input.Poster != nil {
		path, err := s.assets.SaveAsset(input.Poster.FileName, input.Poster.Data)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		event.PosterPath = &path
	}
	if input.Guideline != nil {
		path, err := s.assets.SaveAsset(input.Guideline.FileName, input.Guideline.Data)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		event.GuidelinePath = &path
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	s.logger.Info("event created", zap.String("event_id", event.ID), zap.String("name", event.Name))
	return event, nil
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// ListMine returns events owned by the organizer.
func (s *EventService) ListMine(ctx context.Context, organizerID string) ([]domain.Event, error) {
	return s.events.ListByOrganizer(ctx, organizerID)
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	return event, nil
}

// Delete removes an event the caller organizes, cascading its registrations
// and certificate records.
func (s *EventService) Delete(ctx context.Context, organizerID, eventID string) error {
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return apperrors.NewForbidden("not the event organizer")
	}

	if err := s.certificates.DeleteByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.registrations.DeleteByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.String("event_id", eventID))
	return nil
}

// ensureIdentityDoc guarantees the identity document appears in the
// required-document list, marked required.
func ensureIdentityDoc(docs []domain.RequiredDocument) []domain.RequiredDocument {
	for _, doc := range docs {
		if strings.EqualFold(doc.Name, domain.IdentityDocumentName) {
			return docs
		}
	}
	return append([]domain.RequiredDocument{{Name: domain.IdentityDocumentName, Required: true}}, docs...)
}
