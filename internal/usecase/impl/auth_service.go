// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register creates a new account and immediately issues a token pair, so the
// client is logged in without a second round trip.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	_, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		srv.log(ctx).Warn("Registration rejected, email already taken", slog.String("email", input.Email))

		return nil, domainerrors.ErrEmailTaken.WrapMessage("user with this email already exists")
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to check email availability")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
	}

	if err := srv.userRepo.Create(ctx, newUser); err != nil {
		return nil, errors.Wrap(err, "failed to create user during registration")
	}

	output, err := srv.issueTokens(ctx, newUser)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", newUser.ID))

	return output, nil
}

// Login verifies the credentials and rotates the account's stored refresh
// token. A missing account and a wrong password produce the same error so the
// response does not reveal which one failed.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed, unknown email", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed, password mismatch", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	output, err := srv.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", user.ID))

	return output, nil
}

// issueTokens generates a fresh token pair and overwrites the account's stored
// refresh token, invalidating whichever session held the previous one.
func (srv *authService) issueTokens(ctx context.Context, user *entity.User) (*usecase.AuthOutput, error) {
	accessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	refreshToken, err := srv.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}

	if err := srv.userRepo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		srv.log(ctx).Error("Failed to store refresh token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to store refresh token")
	}
	user.RefreshToken = &refreshToken

	return &usecase.AuthOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself stays valid and unchanged; only the stored value decides
// whether the presented token still names the account's live session.
func (srv *authService) Refresh(ctx context.Context, input *usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid refresh token")
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrSessionNotFound.WrapMessage("session not found")
		}

		return nil, errors.Wrap(err, "failed to find user for refresh")
	}

	if user.RefreshToken == nil || *user.RefreshToken != input.RefreshToken {
		srv.log(ctx).Warn("Refresh token does not match stored session", slog.Any("userID", user.ID))

		return nil, domainerrors.ErrSessionNotFound.WrapMessage("session not found")
	}

	newAccessToken, err := srv.tokenService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate new access token")
	}

	return &usecase.RefreshOutput{AccessToken: newAccessToken}, nil
}

// Profile returns the full account record for the authenticated user.
func (srv *authService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user not found")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// ListUsers returns every account. The delivery layer restricts this to admins.
func (srv *authService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := srv.userRepo.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}
