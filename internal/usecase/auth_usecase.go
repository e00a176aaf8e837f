package usecase

import (
	"context"

	"tradevault/internal/domain/entity"
	"tradevault/internal/domain/repository"
	"tradevault/pkg/errors"
	"tradevault/pkg/logger"
)

type AuthUseCase struct {
	authClient FirebaseAuthClient
	userRepo   repository.UserRepository
	walletUC   *WalletUseCase
}

func NewAuthUseCase(authClient FirebaseAuthClient, userRepo repository.UserRepository, walletUC *WalletUseCase) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
		walletUC:   walletUC,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Username string
	Phone    string
}

type RegisterOutput struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates the Firebase account, the user profile, and a
// zero-balance wallet, then returns a custom token for the first sign-in.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	if existing, _ := uc.userRepo.GetByEmail(ctx, input.Email); existing != nil {
		return nil, errors.Conflict("EMAIL_TAKEN", "Email is already registered")
	}

	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Internal("Failed to create auth account", err)
	}

	user := &entity.User{
		ID:       uid,
		Email:    input.Email,
		Username: input.Username,
		Phone:    input.Phone,
		Role:     "user",
		Status:   "active",
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if _, err := uc.walletUC.CreateWallet(ctx, uid); err != nil {
		// The account exists without a wallet; surface the error so the
		// client retries registration completion.
		logger.Error("Wallet provisioning failed for user %s: %v", uid, err)
		return nil, errors.Internal("Failed to provision wallet", err)
	}

	token, err := uc.authClient.GenerateToken(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to generate token", err)
	}

	logger.Info("Registered user %s (%s)", uid, input.Email)
	return &RegisterOutput{User: user, Token: token}, nil
}

// VerifyToken resolves a bearer token to the user ID it was issued for.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, idToken string) (string, error) {
	uid, err := uc.authClient.VerifyToken(ctx, idToken)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return uid, nil
}

// GetProfile returns the authenticated user's own profile.
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}
