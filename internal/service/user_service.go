package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/staffing-service/internal/domain"
	"github.com/spec-kit/staffing-service/internal/notify"
	"github.com/spec-kit/staffing-service/internal/repository"
	apperrors "github.com/spec-kit/staffing-service/pkg/util"
)

// UserService handles account-level operations outside the auth flow.
type UserService struct {
	users    repository.UserRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, notifier Notifier, logger *zap.Logger) *UserService {
	return &UserService{users: users, notifier: notifier, logger: logger}
}

// VerifyCredentials marks a therapist's credentials as reviewed and notifies
// them. Admin-only; re-verifying an already verified therapist is a no-op.
func (s *UserService) VerifyCredentials(ctx context.Context, actor *domain.User, therapistID string) (*domain.User, error) {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return nil, apperrors.NewForbidden("admin role required")
	}

	therapist, err := s.users.GetByID(ctx, therapistID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("therapist", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if therapist.Role != domain.RoleTherapist {
		return nil, apperrors.NewValidationError("user is not a therapist",
			map[string]any{"role": therapist.Role})
	}
	if therapist.CredentialsVerified {
		return therapist, nil
	}

	if err := s.users.SetCredentialsVerified(ctx, therapist.ID, true); err != nil {
		return nil, apperrors.MapError(err)
	}
	therapist.CredentialsVerified = true

	if s.notifier != nil {
		if !s.notifier.Send(ctx, notify.CredentialsVerified{To: therapist.Email, Name: therapist.Name}) {
			s.logger.Warn("credentials_verified notification not delivered",
				zap.String("therapist_id", therapist.ID))
		}
	}
	return therapist, nil
}
