package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/notify"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

func TestVerifyCredentialsMarksAndNotifies(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.notifier, zap.NewNop())

	admin := env.seedUser(t, "ada", domain.RoleAdmin)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)

	verified, err := svc.VerifyCredentials(context.Background(), admin, therapist.ID)
	require.NoError(t, err)
	assert.True(t, verified.CredentialsVerified)

	stored, err := env.users.GetByID(context.Background(), therapist.ID)
	require.NoError(t, err)
	assert.True(t, stored.CredentialsVerified)

	assert.Equal(t, []notify.Kind{notify.KindCredentialsVerified}, env.notifier.kinds())
}

func TestVerifyCredentialsIdempotent(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.notifier, zap.NewNop())

	admin := env.seedUser(t, "ada", domain.RoleAdmin)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)

	_, err := svc.VerifyCredentials(context.Background(), admin, therapist.ID)
	require.NoError(t, err)
	_, err = svc.VerifyCredentials(context.Background(), admin, therapist.ID)
	require.NoError(t, err)

	// Only the first verification notifies.
	assert.Len(t, env.notifier.kinds(), 1)
}

func TestVerifyCredentialsAdminOnly(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.notifier, zap.NewNop())

	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)
	therapist := env.seedUser(t, "tess", domain.RoleTherapist)

	_, err := svc.VerifyCredentials(context.Background(), organizer, therapist.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	_, err = svc.VerifyCredentials(context.Background(), nil, therapist.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestVerifyCredentialsRejectsNonTherapist(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.notifier, zap.NewNop())

	admin := env.seedUser(t, "ada", domain.RoleAdmin)
	organizer := env.seedUser(t, "olga", domain.RoleOrganizer)

	_, err := svc.VerifyCredentials(context.Background(), admin, organizer.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestVerifyCredentialsUnknownTherapist(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users, env.notifier, zap.NewNop())
	admin := env.seedUser(t, "ada", domain.RoleAdmin)

	_, err := svc.VerifyCredentials(context.Background(), admin, "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
