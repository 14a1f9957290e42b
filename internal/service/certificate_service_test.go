package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

type memCertificateRepo struct {
	certs map[string]domain.Certificate
}

func newMemCertificateRepo() *memCertificateRepo {
	return &memCertificateRepo{certs: map[string]domain.Certificate{}}
}

func (r *memCertificateRepo) Create(_ context.Context, cert *domain.Certificate) error {
	// Upsert on (event, registration, participant) like the SQL constraint.
	key := cert.EventID + "/" + cert.RegistrationID + "/" + cert.ParticipantName
	if existing, ok := r.certs[key]; ok {
		existing.FilePath = cert.FilePath
		r.certs[key] = existing
		*cert = existing
		return nil
	}
	cert.ID = uuid.NewString()
	cert.CreatedAt = time.Now()
	r.certs[key] = *cert
	return nil
}

func (r *memCertificateRepo) ListByEvent(_ context.Context, eventID string) ([]domain.Certificate, error) {
	var out []domain.Certificate
	for _, c := range r.certs {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCertificateRepo) DeleteByEvent(_ context.Context, eventID string) error {
	for key, c := range r.certs {
		if c.EventID == eventID {
			delete(r.certs, key)
		}
	}
	return nil
}

type fakeRenderer struct {
	rendered []string
}

func (f *fakeRenderer) Render(event *domain.Event, participantName string) (string, error) {
	f.rendered = append(f.rendered, participantName)
	return "certificates/" + event.ID + "/" + participantName + ".txt", nil
}

type CertificateServiceSuite struct {
	suite.Suite

	eventRepo *memEventRepo
	regRepo   *memRegistrationRepo
	certRepo  *memCertificateRepo
	renderer  *fakeRenderer
	service   *CertificateService

	event *domain.Event
}

func (s *CertificateServiceSuite) SetupTest() {
	s.eventRepo = newMemEventRepo()
	s.regRepo = newMemRegistrationRepo()
	s.certRepo = newMemCertificateRepo()
	s.renderer = &fakeRenderer{}

	s.service = NewCertificateService(CertificateDependencies{
		CertificateRepo:  s.certRepo,
		RegistrationRepo: s.regRepo,
		EventRepo:        s.eventRepo,
		Renderer:         s.renderer,
		Logger:           zap.NewNop(),
	})

	s.event = &domain.Event{
		Name:        "City Marathon",
		Sport:       "Running",
		EventType:   domain.EventTypeTeam,
		OrganizerID: uuid.NewString(),
	}
	s.Require().NoError(s.eventRepo.Create(context.Background(), s.event))
}

func (s *CertificateServiceSuite) addRegistration(status domain.RegistrationStatus, names ...string) *domain.Registration {
	members := make([]domain.Member, 0, len(names))
	for _, name := range names {
		members = append(members, domain.Member{Name: name, Age: 30})
	}
	reg := &domain.Registration{
		EventID: s.event.ID,
		Type:    domain.EventTypeTeam,
		Members: members,
		Status:  status,
	}
	s.Require().NoError(s.regRepo.Create(context.Background(), reg))
	return reg
}

func (s *CertificateServiceSuite) TestGenerateOnlyCompletedRegistrations() {
	s.addRegistration(domain.RegistrationStatusComplete, "Raj Kumar", "Anita Sharma")
	s.addRegistration(domain.RegistrationStatusDetailsSubmitted, "Pending Person")

	count, err := s.service.Generate(context.Background(), s.event.OrganizerID, s.event.ID)
	s.Require().NoError(err)
	s.Equal(2, count)
	s.ElementsMatch([]string{"Raj Kumar", "Anita Sharma"}, s.renderer.rendered)

	certs, err := s.certRepo.ListByEvent(context.Background(), s.event.ID)
	s.Require().NoError(err)
	s.Len(certs, 2)
}

func (s *CertificateServiceSuite) TestGenerateNoRegistrations() {
	_, err := s.service.Generate(context.Background(), s.event.OrganizerID, s.event.ID)
	s.Require().Error(err)
	s.Equal("VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func (s *CertificateServiceSuite) TestGenerateRequiresOrganizer() {
	s.addRegistration(domain.RegistrationStatusComplete, "Raj Kumar")

	_, err := s.service.Generate(context.Background(), uuid.NewString(), s.event.ID)
	s.Require().Error(err)
	s.Equal("FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func (s *CertificateServiceSuite) TestGenerateUnknownEvent() {
	_, err := s.service.Generate(context.Background(), s.event.OrganizerID, uuid.NewString())
	s.Require().Error(err)
	s.NotErrorIs(err, pgx.ErrNoRows)
	s.Equal("NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func (s *CertificateServiceSuite) TestRegenerateIsIdempotent() {
	s.addRegistration(domain.RegistrationStatusComplete, "Raj Kumar")

	count, err := s.service.Generate(context.Background(), s.event.OrganizerID, s.event.ID)
	s.Require().NoError(err)
	s.Equal(1, count)

	count, err = s.service.Generate(context.Background(), s.event.OrganizerID, s.event.ID)
	s.Require().NoError(err)
	s.Equal(1, count)

	certs, err := s.certRepo.ListByEvent(context.Background(), s.event.ID)
	s.Require().NoError(err)
	s.Len(certs, 1)
}

func TestCertificateServiceSuite(t *testing.T) {
	suite.Run(t, new(CertificateServiceSuite))
}
