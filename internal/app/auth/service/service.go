package service

import (
	"context"
	"time"

	"github.com/aurelin/auth-service/internal/adapters/transport/http/dto"
	"github.com/aurelin/auth-service/internal/app/auth/password"
	"github.com/aurelin/auth-service/internal/app/auth/token"
	"github.com/aurelin/auth-service/internal/domain/auth/model"
	"github.com/aurelin/auth-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
)

// Service is the request-scoped auth state machine: every operation is a
// single terminal call, a pure function of its inputs plus the signing secret
// and the store snapshot. Possession of a valid access token is the whole
// session concept; nothing is kept in process between calls.
type Service interface {
	Signup(ctx context.Context, in dto.SignupDTO) (model.User, error)
	Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error)
	Authenticate(ctx context.Context, bearer string, now time.Time) (string, error)
	Refresh(ctx context.Context, bearer string, now time.Time) (model.TokenPair, error)
}

func New(ur repo.UserRepo, hasher *password.Hasher, codec *token.Codec, v *validator.Validate) Service {
	return &authService{
		userRepo: ur,
		hasher:   hasher,
		codec:    codec,
		v:        v,
	}
}
