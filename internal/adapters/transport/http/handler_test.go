package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	myhttp "github.com/aurelin/auth-service/internal/adapters/transport/http"
	"github.com/aurelin/auth-service/internal/adapters/transport/http/dto"
	"github.com/aurelin/auth-service/internal/app/auth/password"
	appsvc "github.com/aurelin/auth-service/internal/app/auth/service"
	"github.com/aurelin/auth-service/internal/app/auth/token"
	authErrors "github.com/aurelin/auth-service/internal/domain/auth/errors"
	"github.com/aurelin/auth-service/internal/domain/auth/model"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type userRepoStub struct{ users map[string]model.User }

func (u *userRepoStub) CreateUser(_ context.Context, m model.User) (uuid.UUID, error) {
	if _, exists := u.users[m.Username]; exists {
		return uuid.Nil, authErrors.ErrAlreadyExists
	}
	u.users[m.Username] = m
	return m.ID, nil
}

func (u *userRepoStub) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	v, ok := u.users[username]
	if !ok {
		return model.User{}, authErrors.ErrNotFound
	}
	return v, nil
}

func newService(t *testing.T) appsvc.Service {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := token.NewCodec(token.Config{
		Secret:     "handler-test-secret",
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)

	return appsvc.New(
		&userRepoStub{users: make(map[string]model.User)},
		password.NewHasher(""),
		codec,
		validator.New(),
	)
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return myhttp.NewHandler(newService(t), zap.NewNop()).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var signupBody = dto.SignupDTO{FullName: "Test User", Username: "test_user", Password: "test@password"}
var loginBody = dto.LoginDTO{Username: "test_user", Password: "test@password"}

func TestIndex(t *testing.T) {
	router := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[dto.IndexResponse](t, w)
	require.Equal(t, http.StatusOK, body.StatusCode)
	require.NotEmpty(t, body.Detail)
}

func TestSignup(t *testing.T) {
	router := newRouter(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode[dto.SignupResponse](t, w)
	require.Equal(t, "test_user", body.User.Username)
	require.Equal(t, "Test User", body.User.FullName)
	require.Contains(t, body.Detail, "User created successfully")
}

func TestSignup_Duplicate(t *testing.T) {
	router := newRouter(t)

	w := doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[dto.ErrorBody](t, w)
	require.Equal(t, "Username: test_user, already registered", body.Detail)
}

func TestSignup_MalformedBody(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	router := newRouter(t)
	doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)

	w := doJSON(t, router, http.MethodPost, "/login", loginBody, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[dto.TokenPairResponse](t, w)
	require.Equal(t, "bearer", body.TokenType)
	require.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
}

func TestLogin_BadCredentials(t *testing.T) {
	router := newRouter(t)
	doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)

	for _, body := range []dto.LoginDTO{
		{Username: "test_user", Password: "wrong"},
		{Username: "ghost_user", Password: "test@password"},
	} {
		w := doJSON(t, router, http.MethodPost, "/login", body, nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Invalid credentials", decode[dto.ErrorBody](t, w).Detail)
	}
}

func TestProtected(t *testing.T) {
	router := newRouter(t)
	doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)
	pair := decode[dto.TokenPairResponse](t, doJSON(t, router, http.MethodPost, "/login", loginBody, nil))

	w := doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer " + pair.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, decode[dto.MessageResponse](t, w).Message, "test_user")
}

func TestProtected_MissingHeader(t *testing.T) {
	router := newRouter(t)

	// absent header is a validation failure, not an auth failure
	w := doJSON(t, router, http.MethodGet, "/protected", nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProtected_BadPrefix(t *testing.T) {
	router := newRouter(t)
	doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)
	pair := decode[dto.TokenPairResponse](t, doJSON(t, router, http.MethodPost, "/login", loginBody, nil))

	for _, header := range []string{
		"Token " + pair.AccessToken,
		"bearer " + pair.AccessToken,
		pair.AccessToken,
		"Bearer ",
	} {
		w := doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{"Authorization": header})
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestProtected_GarbageToken(t *testing.T) {
	router := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer not.a.token",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken(t *testing.T) {
	router := newRouter(t)
	doJSON(t, router, http.MethodPost, "/signup", signupBody, nil)
	pair := decode[dto.TokenPairResponse](t, doJSON(t, router, http.MethodPost, "/login", loginBody, nil))

	w := doJSON(t, router, http.MethodGet, "/refresh_token", nil, map[string]string{
		"Authorization": "Bearer " + pair.RefreshToken,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// value rotation under a stepped clock is covered at the service level;
	// here it is enough that a fresh pair comes back and authenticates
	rotated := decode[dto.TokenPairResponse](t, w)
	require.Equal(t, "bearer", rotated.TokenType)
	require.NotEmpty(t, rotated.AccessToken)
	require.NotEmpty(t, rotated.RefreshToken)
	w = doJSON(t, router, http.MethodGet, "/protected", nil, map[string]string{
		"Authorization": "Bearer " + rotated.AccessToken,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, decode[dto.MessageResponse](t, w).Message, "test_user")
}

func TestRefreshToken_MissingHeader(t *testing.T) {
	router := newRouter(t)

	w := doJSON(t, router, http.MethodGet, "/refresh_token", nil, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRouter_CORSHeaderEmitted(t *testing.T) {
	const origin = "https://app.example.com"

	corsMW := cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	router := myhttp.NewHandler(newService(t), zap.NewNop()).Router(corsMW)

	// middleware passed into Router sits ahead of the routes, so every
	// endpoint carries the CORS header
	for _, path := range []string{"/", "/protected"} {
		w := doJSON(t, router, http.MethodGet, path, nil, map[string]string{"Origin": origin})
		require.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"), "path %s", path)
	}

	// disallowed origin gets no header
	w := doJSON(t, router, http.MethodGet, "/", nil, map[string]string{"Origin": "https://evil.example.com"})
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	// preflight short-circuits before the handlers
	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
}
