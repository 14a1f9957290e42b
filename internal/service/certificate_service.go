package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
	"github.com/spec-kit/registration-service/internal/events"
	"github.com/spec-kit/registration-service/internal/repository"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

// CertificateRenderer produces the certificate artifact for one participant
// and returns its file path.
type CertificateRenderer interface {
	Render(event *domain.Event, participantName string) (string, error)
}

// CertificateService generates participation certificates for completed
// registrations of an event.
type CertificateService struct {
	certificates  repository.CertificateRepository
	registrations repository.RegistrationRepository
	eventsRepo    repository.EventRepository
	renderer      CertificateRenderer
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// CertificateDependencies bundles collaborators for the service.
type CertificateDependencies struct {
	CertificateRepo  repository.CertificateRepository
	RegistrationRepo repository.RegistrationRepository
	EventRepo        repository.EventRepository
	Renderer         CertificateRenderer
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewCertificateService constructs the service.
func NewCertificateService(deps CertificateDependencies) *CertificateService {
	return &CertificateService{
		certificates:  deps.CertificateRepo,
		registrations: deps.RegistrationRepo,
		eventsRepo:    deps.EventRepo,
		renderer:      deps.Renderer,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// Generate renders one certificate per member of every completed registration
// of the event. Only the event's organizer may trigger generation.
func (s *CertificateService) Generate(ctx context.Context, organizerID, eventID string) (int, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if event.OrganizerID != organizerID {
		return 0, apperrors.NewForbidden("not the event organizer")
	}

	registrations, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if len(registrations) == 0 {
		return 0, apperrors.NewValidationError("no registrations found", nil)
	}

	generated := 0
	for _, reg := range registrations {
		if !reg.IsComplete() {
			continue
		}
		for _, member := range reg.Members {
			path, err := s.renderer.Render(event, member.Name)
			if err != nil {
				return generated, apperrors.NewInternalError(err)
			}
			cert := &domain.Certificate{
				EventID:         eventID,
				RegistrationID:  reg.ID,
				ParticipantName: member.Name,
				FilePath:        path,
			}
			if err := s.certificates.Create(ctx, cert); err != nil {
				return generated, err
			}
			generated++
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCertificatesGenerated,
			EventID:   eventID,
			Timestamp: time.Now(),
			Payload:   events.CertificatesGeneratedPayload{Count: generated},
		})
	}
	s.logger.Info("certificates generated",
		zap.String("event_id", eventID),
		zap.Int("count", generated))
	return generated, nil
}

// List returns certificate records for an event the caller organizes.
func (s *CertificateService) List(ctx context.Context, organizerID, eventID string) ([]domain.Certificate, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.NewForbidden("not the event organizer")
	}
	return s.certificates.ListByEvent(ctx, eventID)
}
