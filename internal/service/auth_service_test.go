package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/registration-service/internal/config"
	"github.com/spec-kit/registration-service/internal/domain"
	apperrors "github.com/spec-kit/registration-service/pkg/util"
)

type memUserRepo struct {
	byID    map[string]domain.User
	byEmail map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]domain.User{}, byEmail: map[string]string{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(context.Background(), id)
}

func newAuthService() *AuthService {
	return NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}, newMemUserRepo())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService()

	user, token, _, err := svc.Register(context.Background(), "Raj Kumar", "Raj@Example.com", "s3cret", domain.UserRoleOrganizer)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "raj@example.com", user.Email)
	assert.Equal(t, domain.UserStatusActive, user.Status)

	loggedIn, token, _, err := svc.Login(context.Background(), "raj@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService()

	_, _, _, err := svc.Register(context.Background(), "Raj", "raj@example.com", "s3cret", domain.UserRolePlayer)
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "Other", "raj@example.com", "s3cret", domain.UserRolePlayer)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newAuthService()

	_, _, _, err := svc.Register(context.Background(), "Raj", "raj@example.com", "s3cret", "ADMIN")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService()

	_, _, _, err := svc.Register(context.Background(), "Raj", "raj@example.com", "s3cret", domain.UserRolePlayer)
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "raj@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService()

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}
