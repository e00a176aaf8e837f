package usecase

import (
	"context"
	"time"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// UpdateProfileInput carries the editable profile fields; nil leaves a field
// unchanged.
type UpdateProfileInput struct {
	Username *string
	Phone    *string
	Bio      *string
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FlagFraud marks a user for manual review of their withdrawals. Flagged
// users keep trading; the flag only feeds the admin withdrawal queue.
func (uc *UserUseCase) FlagFraud(ctx context.Context, adminID, userID, note string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.FraudFlagged = true
	user.FraudNote = note
	user.FraudFlaggedAt = &now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Warn("User %s flagged for fraud review by admin %s: %s", userID, adminID, note)
	return user, nil
}

// ClearFraudFlag removes the fraud marker after review.
func (uc *UserUseCase) ClearFraudFlag(ctx context.Context, adminID, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FraudFlagged = false
	user.FraudNote = ""
	user.FraudFlaggedAt = nil

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Fraud flag cleared for user %s by admin %s", userID, adminID)
	return user, nil
}
