package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskhub/config"
	httpmiddleware "taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"
	"taskhub/internal/delivery/http/validator"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/infra/auth"
	"taskhub/internal/infra/persistence/memory"
	"taskhub/internal/usecase/impl"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testServer wires the full HTTP stack over in-memory repositories.
type testServer struct {
	echo     *echo.Echo
	cfg      *config.Config
	userRepo repository.UserRepository
	hasher   service.PasswordHasher
	tokenSvc service.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"
	cfg.Auth.AccessTokenTTL = time.Minute
	cfg.Auth.RefreshTokenTTL = time.Hour
	cfg.Auth.BcryptCost = bcrypt.MinCost

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(cfg)

	userRepo := memory.NewUserRepository()
	taskRepo := memory.NewTaskRepository()

	authUC := impl.NewAuthService(impl.AuthServiceParams{
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokenSvc,
		Logger:       logger,
	})
	taskUC := impl.NewTaskService(impl.TaskServiceParams{
		TaskRepo: taskRepo,
		Logger:   logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(logger, cfg).HandleHTTPError
	e.Validator = validator.New()

	r := NewRouter(RouterParams{
		AuthHandler:    handler.NewAuthHandler(authUC, logger),
		TaskHandler:    handler.NewTaskHandler(taskUC, logger),
		AuthMiddleware: httpmiddleware.NewAuthMiddleware(tokenSvc),
	})
	r.RegisterRoutes(e)

	return &testServer{
		echo:     e,
		cfg:      cfg,
		userRepo: userRepo,
		hasher:   hasher,
		tokenSvc: tokenSvc,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

type authPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func (s *testServer) register(t *testing.T, name, email, password string) authPayload {
	t.Helper()

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	var payload authPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))

	return payload
}

func TestRegisterLoginRefreshFlow(t *testing.T) {
	s := newTestServer(t)

	registered := s.register(t, "Alice", "alice@example.com", "secret1")
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)
	assert.Equal(t, "alice@example.com", registered.User.Email)
	assert.Equal(t, "user", registered.User.Role)

	// The access token works against the profile endpoint.
	rec, env := s.do(t, http.MethodGet, "/api/auth/me", registered.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice@example.com", me["email"])

	// The response never leaks the password hash or the stored refresh token.
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), registered.RefreshToken)

	// Refresh yields a new usable access token without rotating the refresh token.
	rec, env = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var refreshed struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	require.NotEmpty(t, refreshed.AccessToken)

	rec, _ = s.do(t, http.MethodGet, "/api/auth/me", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The same refresh token is still accepted afterwards.
	rec, _ = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": registered.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRotatesRefreshToken(t *testing.T) {
	s := newTestServer(t)

	registered := s.register(t, "Bob", "bob@example.com", "secret1")

	rec, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "bob@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var loggedIn authPayload
	require.NoError(t, json.Unmarshal(env.Data, &loggedIn))
	require.NotEqual(t, registered.RefreshToken, loggedIn.RefreshToken)

	// The refresh token issued at registration was rotated away by the login.
	rec, env = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": registered.RefreshToken,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	// The latest refresh token still works.
	rec, _ = s.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refreshToken": loggedIn.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "Carol", "carol@example.com", "secret1")

	rec, env := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "carol@example.com",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "Dave", "dave@example.com", "secret1")

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Dave Again",
		"email":    "dave@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, env.Success)
}

func TestRegisterWithoutName(t *testing.T) {
	s := newTestServer(t)

	// The display name is optional.
	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "noname@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.True(t, env.Success)

	var payload authPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Empty(t, payload.User.Name)
	assert.NotEmpty(t, payload.AccessToken)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     "Eve",
		"email":    "not-an-email",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestGateRejectsMissingAndBadTokens(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "no token provided", env.Message)

	rec, env = s.do(t, http.MethodGet, "/api/tasks", "definitely-not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token failed", env.Message)
}

func TestGateRejectsExpiredToken(t *testing.T) {
	s := newTestServer(t)

	registered := s.register(t, "Frank", "frank@example.com", "secret1")

	// A token service with an already-elapsed TTL mints expired tokens signed
	// with the same secrets.
	expiredCfg := &config.Config{}
	expiredCfg.SecretKey = s.cfg.SecretKey
	expiredCfg.Auth.AccessTokenTTL = -time.Minute
	expiredCfg.Auth.RefreshTokenTTL = time.Hour

	expiredSvc, err := auth.NewJWTService(expiredCfg)
	require.NoError(t, err)

	rec, _ := s.do(t, http.MethodGet, "/api/auth/me", registered.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	expired, err := expiredSvc.GenerateAccessToken(mustUserID(t, registered.User.ID), registered.User.Email, entity.RoleUser)
	require.NoError(t, err)

	rec, env := s.do(t, http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token failed", env.Message)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	s := newTestServer(t)

	registered := s.register(t, "Grace", "grace@example.com", "secret1")

	rec, env := s.do(t, http.MethodGet, "/api/auth/me", registered.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token failed", env.Message)
}

func TestTaskCRUDAndOwnerIsolation(t *testing.T) {
	s := newTestServer(t)

	alice := s.register(t, "Alice", "alice@example.com", "secret1")
	mallory := s.register(t, "Mallory", "mallory@example.com", "secret1")

	// Create
	rec, env := s.do(t, http.MethodPost, "/api/tasks", alice.AccessToken, map[string]any{
		"title":       "Buy milk",
		"description": "Two liters",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)

	// List
	rec, env = s.do(t, http.MethodGet, "/api/tasks", alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	// Another account sees nothing of it.
	rec, env = s.do(t, http.MethodGet, "/api/tasks", mallory.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Empty(t, list)

	rec, _ = s.do(t, http.MethodGet, "/api/tasks/"+created.ID, mallory.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, "/api/tasks/"+created.ID, mallory.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Update
	rec, env = s.do(t, http.MethodPut, "/api/tasks/"+created.ID, alice.AccessToken, map[string]any{
		"title":       "Buy oat milk",
		"description": "One liter",
		"completed":   true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.True(t, updated.Completed)

	// Delete
	rec, _ = s.do(t, http.MethodDelete, "/api/tasks/"+created.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/tasks/"+created.ID, alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminEndpointRequiresAdminRole(t *testing.T) {
	s := newTestServer(t)

	user := s.register(t, "Plain User", "plain@example.com", "secret1")

	rec, env := s.do(t, http.MethodGet, "/api/admin/users", user.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, env.Success)

	// Seed an admin account directly, then log in through the API.
	hash, err := s.hasher.Hash("secret1")
	require.NoError(t, err)
	require.NoError(t, s.userRepo.Create(context.Background(), &entity.User{
		Name:         "Root",
		Email:        "root@example.com",
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}))

	rec, env = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "root@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var admin authPayload
	require.NoError(t, json.Unmarshal(env.Data, &admin))

	rec, env = s.do(t, http.MethodGet, "/api/admin/users", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Len(t, users, 2)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func mustUserID(t *testing.T, raw string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(raw)
	require.NoError(t, err)

	return id
}
