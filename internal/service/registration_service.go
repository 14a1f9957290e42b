package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
	"github.com/spec-kit/registration-service/internal/events"
	"github.com/spec-kit/registration-service/internal/repository"
	"github.com/spec-kit/registration-service/internal/verification"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

// DocumentStore persists uploaded document bytes and returns a durable
// storage path.
type DocumentStore interface {
	SaveDocument(fileName string, data []byte) (string, error)
}

// DocumentKey addresses one uploaded file: the member it belongs to (by
// phase-1 order) and the required-document name it satisfies. The raw
// member{i}_{docName} wire keys are parsed into this at the HTTP boundary and
// never travel further.
type DocumentKey struct {
	MemberIndex  int
	DocumentName string
}

// UploadedFile is one file from a phase-2 multipart submission.
type UploadedFile struct {
	Key      DocumentKey
	FileName string
	MimeType string
	Data     []byte
}

// MemberInput carries one member's claimed details for phase 1.
type MemberInput struct {
	Name  string
	Age   int
	Email string
	Phone string
}

// StartInput describes a phase-1 registration payload.
type StartInput struct {
	Type     domain.EventType
	TeamName string
	Location string
	Members  []MemberInput
}

// RegistrationService coordinates the two-phase registration workflow:
// phase 1 captures claimed details, phase 2 binds uploaded documents, runs
// identity verification per member and completes the registration.
type RegistrationService struct {
	registrations repository.RegistrationRepository
	eventsRepo    repository.EventRepository
	extractor     verification.Extractor
	store         DocumentStore
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	now           func() time.Time
}

// RegistrationDependencies bundles collaborators for the service.
type RegistrationDependencies struct {
	RegistrationRepo repository.RegistrationRepository
	EventRepo        repository.EventRepository
	Extractor        verification.Extractor
	Store            DocumentStore
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		registrations: deps.RegistrationRepo,
		eventsRepo:    deps.EventRepo,
		extractor:     deps.Extractor,
		store:         deps.Store,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		now:           time.Now,
	}
}

// WithClock overrides the clock used for age computation; tests use this to
// pin "now".
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// Start runs phase 1: pure capture of claimed details, no verification. The
// resulting registration has status details_submitted and members stored in
// submitted order with empty document bindings.
func (s *RegistrationService) Start(ctx context.Context, eventID string, input StartInput) (*domain.Registration, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}

	if input.Type != domain.EventTypeIndividual && input.Type != domain.EventTypeTeam {
		return nil, apperrors.NewValidationError("type must be Individual or Team", nil)
	}
	if strings.TrimSpace(input.Location) == "" {
		return nil, apperrors.NewValidationError("location required", nil)
	}
	if len(input.Members) == 0 {
		return nil, apperrors.NewValidationError("at least one member required", nil)
	}
	if input.Type == domain.EventTypeIndividual && len(input.Members) != 1 {
		return nil, apperrors.NewValidationError("individual registration must have exactly one member", nil)
	}
	if input.Type == domain.EventTypeTeam {
		if strings.TrimSpace(input.TeamName) == "" {
			return nil, apperrors.NewValidationError("teamName required for team registration", nil)
		}
		if event.TeamSize > 0 && len(input.Members) > event.TeamSize {
			return nil, apperrors.NewValidationError("too many members for this event",
				map[string]any{"max": event.TeamSize, "got": len(input.Members)})
		}
	}

	members := make([]domain.Member, 0, len(input.Members))
	for i, m := range input.Members {
		if strings.TrimSpace(m.Name) == "" {
			return nil, apperrors.NewValidationError("member name required",
				map[string]any{"member_index": i})
		}
		members = append(members, domain.Member{
			Name:         strings.TrimSpace(m.Name),
			Age:          m.Age,
			Email:        m.Email,
			Phone:        m.Phone,
			UploadedDocs: []domain.UploadedDocument{},
		})
	}

	reg := &domain.Registration{
		EventID:  event.ID,
		Type:     input.Type,
		Location: strings.TrimSpace(input.Location),
		Members:  members,
		Status:   domain.RegistrationStatusDetailsSubmitted,
	}
	if input.Type == domain.EventTypeTeam {
		teamName := strings.TrimSpace(input.TeamName)
		reg.TeamName = &teamName
	}

	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventRegistrationStarted,
		EventID: event.ID,
		Payload: events.RegistrationStartedPayload{
			RegistrationID: reg.ID,
			EventName:      event.Name,
			MemberCount:    len(reg.Members),
		},
	})
	s.logger.Info("registration started",
		zap.String("registration_id", reg.ID),
		zap.String("event", event.Name),
		zap.Int("members", len(reg.Members)),
	)
	return reg, nil
}

// VerifyAndComplete runs phase 2. Document bindings are rebuilt from scratch
// on every attempt; any failure before the commit leaves the stored aggregate
// untouched so the client can resubmit with corrected inputs. Verification
// proceeds in member order and stops at the first failure.
func (s *RegistrationService) VerifyAndComplete(ctx context.Context, registrationID string, files []UploadedFile) (*domain.Registration, error) {
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("registration", map[string]any{"registration_id": registrationID})
		}
		return nil, err
	}

	event, err := s.eventsRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": reg.EventID})
		}
		return nil, err
	}

	identityDocs, err := s.bindDocuments(reg, event, files)
	if err != nil {
		return nil, err
	}

	if err := s.verifyMembers(ctx, reg, identityDocs); err != nil {
		return nil, err
	}

	reg.Status = domain.RegistrationStatusComplete
	if err := s.registrations.Save(ctx, reg); err != nil {
		return nil, err
	}

	contacts := make([]events.MemberContact, 0, len(reg.Members))
	for _, m := range reg.Members {
		contacts = append(contacts, events.MemberContact{Name: m.Name, Phone: m.Phone})
	}
	s.publish(ctx, events.Event{
		Type:    events.EventRegistrationCompleted,
		EventID: event.ID,
		Payload: events.RegistrationCompletedPayload{
			RegistrationID: reg.ID,
			EventName:      event.Name,
			Members:        contacts,
		},
	})
	s.logger.Info("registration completed",
		zap.String("registration_id", reg.ID),
		zap.String("event", event.Name),
	)
	return reg, nil
}

// bindDocuments assigns uploaded files to members against the event's
// required documents. The returned map points each member index at its
// identity document's bytes for the verification step.
func (s *RegistrationService) bindDocuments(reg *domain.Registration, event *domain.Event, files []UploadedFile) (map[int]UploadedFile, error) {
	identityDocs := make(map[int]UploadedFile)
	for i := range reg.Members {
		member := &reg.Members[i]
		member.UploadedDocs = []domain.UploadedDocument{}

		for _, doc := range event.RequiredDocs {
			file, found := findFile(files, DocumentKey{MemberIndex: i, DocumentName: doc.Name})
			if !found {
				// The identity document is fatal when absent even if the
				// event left its required flag off.
				if doc.Required || doc.Name == domain.IdentityDocumentName {
					return nil, apperrors.NewMissingDocument(doc.Name, member.Name)
				}
				continue
			}

			path, err := s.store.SaveDocument(file.FileName, file.Data)
			if err != nil {
				return nil, apperrors.NewInternalError(err)
			}
			member.UploadedDocs = append(member.UploadedDocs, domain.UploadedDocument{
				Name: doc.Name,
				Path: path,
			})
			if doc.Name == domain.IdentityDocumentName {
				identityDocs[i] = file
			}
		}
	}
	return identityDocs, nil
}

// verifyMembers checks each member's claimed identity against the document in
// registration order, failing fast on the first mismatch so no further
// external calls are made once failure is certain.
func (s *RegistrationService) verifyMembers(ctx context.Context, reg *domain.Registration, identityDocs map[int]UploadedFile) error {
	for i := range reg.Members {
		member := &reg.Members[i]
		file, ok := identityDocs[i]
		if !ok {
			// Identity document explicitly optional for this event and not
			// uploaded; binding already accepted that, so skip verification.
			continue
		}

		extracted, err := s.extractor.ExtractIdentity(ctx, file.Data, file.MimeType)
		if err != nil {
			s.logger.Warn("identity extraction failed",
				zap.String("registration_id", reg.ID),
				zap.String("member", member.Name),
				zap.Error(err),
			)
			return apperrors.NewExtractionFailed(member.Name, err)
		}

		if age, ok := verification.ComputeAge(extracted.RawDOB, s.now()); ok {
			extracted.Age = &age
		}

		result := verification.EvaluateMatch(member.Name, member.Age, *extracted)
		if !result.OK() {
			s.logger.Warn("identity mismatch",
				zap.String("registration_id", reg.ID),
				zap.String("member", member.Name),
				zap.String("reason", result.Reason),
			)
			return apperrors.NewIdentityMismatch(result.Reason, map[string]any{
				"member":        member.Name,
				"claimed_name":  member.Name,
				"claimed_age":   member.Age,
				"extracted_dob": extracted.RawDOB,
			})
		}

		s.logger.Info("member verified",
			zap.String("registration_id", reg.ID),
			zap.String("member", member.Name),
		)
	}
	return nil
}

// ListByEvent returns all registrations for an event the caller organizes.
func (s *RegistrationService) ListByEvent(ctx context.Context, organizerID, eventID string) ([]domain.Registration, error) {
	event, err := s.eventsRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("event", map[string]any{"event_id": eventID})
		}
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, apperrors.NewForbidden("not the event organizer")
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

func (s *RegistrationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func findFile(files []UploadedFile, key DocumentKey) (UploadedFile, bool) {
	for _, f := range files {
		if f.Key == key {
			return f, true
		}
	}
	return UploadedFile{}, false
}
