package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/registration-service/internal/domain"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

type memAssetStore struct {
	saved []string
}

func (s *memAssetStore) SaveAsset(fileName string, _ []byte) (string, error) {
	path := "uploads/" + fileName
	s.saved = append(s.saved, path)
	return path, nil
}

func newEventService() (*EventService, *memEventRepo, *memRegistrationRepo, *memCertificateRepo, *memAssetStore) {
	eventRepo := newMemEventRepo()
	regRepo := newMemRegistrationRepo()
	certRepo := newMemCertificateRepo()
	assets := &memAssetStore{}

	svc := NewEventService(EventDependencies{
		EventRepo:        eventRepo,
		RegistrationRepo: regRepo,
		CertificateRepo:  certRepo,
		Assets:           assets,
		Logger:           zap.NewNop(),
	})
	return svc, eventRepo, regRepo, certRepo, assets
}

func validEventInput() EventCreateInput {
	return EventCreateInput{
		Name:      "City Marathon",
		Sport:     "Running",
		Date:      time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		Location:  "Pune",
		EventType: domain.EventTypeTeam,
		TeamSize:  4,
	}
}

func TestCreateEventForcesIdentityDocument(t *testing.T) {
	svc, _, _, _, _ := newEventService()

	event, err := svc.Create(context.Background(), uuid.NewString(), validEventInput())
	require.NoError(t, err)
	require.NotEmpty(t, event.RequiredDocs)
	assert.Equal(t, domain.IdentityDocumentName, event.RequiredDocs[0].Name)
	assert.True(t, event.RequiredDocs[0].Required)
}

func TestCreateEventKeepsExplicitIdentityDocFlag(t *testing.T) {
	svc, _, _, _, _ := newEventService()

	input := validEventInput()
	input.RequiredDocs = []domain.RequiredDocument{
		{Name: domain.IdentityDocumentName, Required: false},
		{Name: "Medical Certificate", Required: true},
	}
	event, err := svc.Create(context.Background(), uuid.NewString(), input)
	require.NoError(t, err)
	require.Len(t, event.RequiredDocs, 2)
	assert.False(t, event.RequiredDocs[0].Required)
}

func TestCreateEventSavesAssets(t *testing.T) {
	svc, _, _, _, assets := newEventService()

	input := validEventInput()
	input.Poster = &AssetUpload{FileName: "poster.jpg", Data: []byte("img")}
	event, err := svc.Create(context.Background(), uuid.NewString(), input)
	require.NoError(t, err)
	require.NotNil(t, event.PosterPath)
	assert.Len(t, assets.saved, 1)
}

func TestCreateEventValidation(t *testing.T) {
	svc, _, _, _, _ := newEventService()

	input := validEventInput()
	input.Name = " "
	_, err := svc.Create(context.Background(), uuid.NewString(), input)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	input = validEventInput()
	input.EventType = "Tournament"
	_, err = svc.Create(context.Background(), uuid.NewString(), input)
	require.Error(t, err)
}

func TestDeleteEventCascades(t *testing.T) {
	svc, eventRepo, regRepo, certRepo, _ := newEventService()
	organizerID := uuid.NewString()

	event, err := svc.Create(context.Background(), organizerID, validEventInput())
	require.NoError(t, err)

	reg := &domain.Registration{
		EventID: event.ID,
		Type:    domain.EventTypeTeam,
		Members: []domain.Member{{Name: "Raj Kumar", Age: 34}},
		Status:  domain.RegistrationStatusComplete,
	}
	require.NoError(t, regRepo.Create(context.Background(), reg))
	require.NoError(t, certRepo.Create(context.Background(), &domain.Certificate{
		EventID:         event.ID,
		RegistrationID:  reg.ID,
		ParticipantName: "Raj Kumar",
		FilePath:        "certificates/x.txt",
	}))

	require.NoError(t, svc.Delete(context.Background(), organizerID, event.ID))

	_, err = eventRepo.GetByID(context.Background(), event.ID)
	require.Error(t, err)
	regs, err := regRepo.ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Empty(t, regs)
	certs, err := certRepo.ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Empty(t, certs)
}

func TestDeleteEventRequiresOrganizer(t *testing.T) {
	svc, _, _, _, _ := newEventService()

	event, err := svc.Create(context.Background(), uuid.NewString(), validEventInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.NewString(), event.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}
