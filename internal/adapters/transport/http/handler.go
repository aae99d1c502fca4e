package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aurelin/auth-service/internal/adapters/transport/http/dto"
	"github.com/aurelin/auth-service/internal/adapters/transport/http/middleware"
	appsvc "github.com/aurelin/auth-service/internal/app/auth/service"
	authErrors "github.com/aurelin/auth-service/internal/domain/auth/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler owns the HTTP surface and translates domain errors into the wire
// contract. All auth decisions live in the service; the only check made here
// is whether the Authorization header is present at all, which is a 422-class
// validation failure rather than a 401.
type Handler struct {
	svc appsvc.Service
	log *zap.Logger
}

func NewHandler(svc appsvc.Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Router assembles the gin engine with recovery, request logging and routes.
// Extra middleware (CORS and the like) must be passed here: gin snapshots each
// route's handler chain at registration time, so anything attached to the
// engine afterwards never runs for these routes.
func (h *Handler) Router(extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(h.log))
	router.Use(extra...)

	router.GET("/", h.Index)
	router.POST("/signup", h.Signup)
	router.POST("/login", h.Login)
	router.GET("/protected", h.Protected)
	router.GET("/refresh_token", h.RefreshToken)
	return router
}

func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, dto.IndexResponse{
		StatusCode: http.StatusOK,
		Detail:     "Welcome to the JWT auth service",
	})
}

func (h *Handler) Signup(c *gin.Context) {
	var body dto.SignupDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorBody{Detail: err.Error()})
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), body)
	if err != nil {
		if authErrors.IsAlreadyExists(err) {
			c.JSON(http.StatusBadRequest, dto.ErrorBody{
				Detail: fmt.Sprintf("Username: %s, already registered", body.Username),
			})
			return
		}
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		Detail: fmt.Sprintf("User created successfully, user ID %s!", user.ID),
		User:   dto.UserSummary{FullName: user.FullName, Username: user.Username},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var body dto.LoginDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorBody{Detail: err.Error()})
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), body)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse(pair.AccessToken, pair.RefreshToken))
}

func (h *Handler) Protected(c *gin.Context) {
	header, ok := requireAuthorizationHeader(c)
	if !ok {
		return
	}

	username, err := h.svc.Authenticate(c.Request.Context(), header, time.Now())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: fmt.Sprintf("Welcome, %s!", username)})
}

func (h *Handler) RefreshToken(c *gin.Context) {
	header, ok := requireAuthorizationHeader(c)
	if !ok {
		return
	}

	pair, err := h.svc.Refresh(c.Request.Context(), header, time.Now())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse(pair.AccessToken, pair.RefreshToken))
}

// requireAuthorizationHeader rejects a request with no Authorization header at
// all with 422, the host-framework-style validation failure. A present but
// malformed header falls through to the service and surfaces as 401.
func requireAuthorizationHeader(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorBody{Detail: "Missing Authorization header"})
		return "", false
	}
	return header, true
}

func tokenPairResponse(access, refresh string) dto.TokenPairResponse {
	return dto.TokenPairResponse{
		TokenType:    "bearer",
		AccessToken:  access,
		RefreshToken: refresh,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case authErrors.IsInvalidArgument(err):
		c.JSON(http.StatusBadRequest, dto.ErrorBody{Detail: err.Error()})
	case authErrors.IsInvalidCredentials(err):
		c.JSON(http.StatusUnauthorized, dto.ErrorBody{Detail: "Invalid credentials"})
	case authErrors.IsInvalidToken(err):
		c.JSON(http.StatusUnauthorized, dto.ErrorBody{Detail: "Could not validate credentials"})
	case authErrors.IsAlreadyExists(err):
		c.JSON(http.StatusBadRequest, dto.ErrorBody{Detail: err.Error()})
	default:
		h.log.Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorBody{Detail: "internal server error"})
	}
}
