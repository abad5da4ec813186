package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	mockRepo "taskhub/internal/mocks/repository"
	mockSvc "taskhub/internal/mocks/service"
	"taskhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service      usecase.AuthUsecase
	userRepo     *mockRepo.MockUserRepository
	hasher       *mockSvc.MockPasswordHasher
	tokenService *mockSvc.MockTokenService
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewAuthService(AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenService,
		Logger:       logger,
	})

	return authServiceFixtures{
		service:      svc,
		userRepo:     userRepo,
		hasher:       hasher,
		tokenService: tokenService,
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "secret123",
	}
	userID := uuid.New()

	fx.userRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrUserNotFound)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)
	fx.userRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.User")).
		Run(func(ctx context.Context, user *entity.User) {
			user.ID = userID
		}).
		Return(nil)
	fx.tokenService.EXPECT().
		GenerateAccessToken(userID, input.Email, entity.RoleUser).
		Return("access-token", nil)
	fx.tokenService.EXPECT().
		GenerateRefreshToken(userID).
		Return("refresh-token", nil)
	fx.userRepo.EXPECT().
		UpdateRefreshToken(ctx, userID, mock.MatchedBy(func(token *string) bool {
			return token != nil && *token == "refresh-token"
		})).
		Return(nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
	assert.Equal(t, "refresh-token", output.RefreshToken)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, entity.RoleUser, output.User.Role)
	assert.Equal(t, "hashed_password", output.User.PasswordHash)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "secret123",
	}

	fx.userRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(&entity.User{ID: uuid.New(), Email: input.Email}, nil)

	output, err := fx.service.Register(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
}

func TestAuthService_Login_Success_RotatesRefreshToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "secret123",
	}
	oldToken := "old-refresh-token"
	user := &entity.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: "hashed_password",
		Role:         entity.RoleUser,
		RefreshToken: &oldToken,
	}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(input.Password, user.PasswordHash).Return(true)
	fx.tokenService.EXPECT().
		GenerateAccessToken(user.ID, user.Email, user.Role).
		Return("new-access-token", nil)
	fx.tokenService.EXPECT().
		GenerateRefreshToken(user.ID).
		Return("new-refresh-token", nil)
	fx.userRepo.EXPECT().
		UpdateRefreshToken(ctx, user.ID, mock.MatchedBy(func(token *string) bool {
			return token != nil && *token == "new-refresh-token"
		})).
		Return(nil)

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", output.AccessToken)
	assert.Equal(t, "new-refresh-token", output.RefreshToken)
	require.NotNil(t, output.User.RefreshToken)
	assert.Equal(t, "new-refresh-token", *output.User.RefreshToken)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "missing@example.com",
		Password: "secret123",
	}

	fx.userRepo.EXPECT().
		FindByEmail(ctx, input.Email).
		Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{
		Email:    "test@example.com",
		Password: "wrong",
	}
	user := &entity.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: "hashed_password",
		Role:         entity.RoleUser,
	}

	fx.userRepo.EXPECT().FindByEmail(ctx, input.Email).Return(user, nil)
	fx.hasher.EXPECT().Check(input.Password, user.PasswordHash).Return(false)

	output, err := fx.service.Login(ctx, input)

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_Refresh_Success_KeepsRefreshToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	refreshToken := "stored-refresh-token"
	user := &entity.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Role:         entity.RoleUser,
		RefreshToken: &refreshToken,
	}

	fx.tokenService.EXPECT().
		ValidateRefreshToken(refreshToken).
		Return(&service.Claims{UserID: user.ID}, nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	fx.tokenService.EXPECT().
		GenerateAccessToken(user.ID, user.Email, user.Role).
		Return("fresh-access-token", nil)

	output, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: refreshToken})

	require.NoError(t, err)
	assert.Equal(t, "fresh-access-token", output.AccessToken)
	// No UpdateRefreshToken expectation: refreshing must not rotate the token.
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()

	fx.tokenService.EXPECT().
		ValidateRefreshToken("garbage").
		Return(nil, errors.Wrap(domainerrors.ErrInvalidToken, "token is malformed"))

	output, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "garbage"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestAuthService_Refresh_RotatedAwayToken(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	presented := "superseded-refresh-token"
	current := "current-refresh-token"
	user := &entity.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Role:         entity.RoleUser,
		RefreshToken: &current,
	}

	fx.tokenService.EXPECT().
		ValidateRefreshToken(presented).
		Return(&service.Claims{UserID: user.ID}, nil)
	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

	output, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: presented})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestAuthService_Refresh_UserGone(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.tokenService.EXPECT().
		ValidateRefreshToken("valid-but-orphaned").
		Return(&service.Claims{UserID: userID}, nil)
	fx.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

	output, err := fx.service.Refresh(ctx, &usecase.RefreshInput{RefreshToken: "valid-but-orphaned"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotFound)
}

func TestAuthService_Profile_Success(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	user := &entity.User{
		ID:    uuid.New(),
		Email: "test@example.com",
		Role:  entity.RoleUser,
	}

	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)

	got, err := fx.service.Profile(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestAuthService_Profile_NotFound(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.userRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)

	got, err := fx.service.Profile(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestAuthService_ListUsers(t *testing.T) {
	fx := createTestAuthService(t)

	ctx := context.Background()
	users := []*entity.User{
		{ID: uuid.New(), Email: "a@example.com", Role: entity.RoleAdmin},
		{ID: uuid.New(), Email: "b@example.com", Role: entity.RoleUser},
	}

	fx.userRepo.EXPECT().ListAll(ctx).Return(users, nil)

	got, err := fx.service.ListUsers(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, users, got)
}
