package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aurelin/auth-service/internal/adapters/transport/http/dto"
	"github.com/aurelin/auth-service/internal/app/auth/password"
	"github.com/aurelin/auth-service/internal/app/auth/token"
	customErrors "github.com/aurelin/auth-service/internal/domain/auth/errors"
	"github.com/aurelin/auth-service/internal/domain/auth/model"
	"github.com/aurelin/auth-service/internal/domain/auth/repo"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

type authService struct {
	userRepo repo.UserRepo
	hasher   *password.Hasher
	codec    *token.Codec
	v        *validator.Validate
}

func (a *authService) Signup(ctx context.Context, in dto.SignupDTO) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	// Friendly pre-check so a taken username does not burn a hash; the real
	// duplicate guard is the store's atomic insert-if-absent below.
	if _, err := a.userRepo.GetUserByUsername(ctx, in.Username); err == nil {
		return model.User{}, customErrors.ErrAlreadyExists
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return model.User{}, customErrors.WrapInternal(err, "Signup")
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.New(),
		FullName:     in.FullName,
		Username:     in.Username,
		PasswordHash: passwordHash,
	}
	if _, err = a.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, customErrors.ErrAlreadyExists
		}
		return model.User{}, customErrors.WrapInternal(err, "Signup")
	}
	return user, nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		// absent user and wrong password must be indistinguishable
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.TokenPair{}, customErrors.ErrInvalidCredentials
	}

	return a.issuePair(user.Username, time.Now())
}

func (a *authService) Authenticate(_ context.Context, bearer string, now time.Time) (string, error) {
	raw, err := stripBearer(bearer)
	if err != nil {
		return "", err
	}
	subject, err := a.codec.Decode(raw, now)
	if err != nil {
		return "", customErrors.ErrInvalidToken
	}
	return subject, nil
}

func (a *authService) Refresh(_ context.Context, bearer string, now time.Time) (model.TokenPair, error) {
	raw, err := stripBearer(bearer)
	if err != nil {
		return model.TokenPair{}, err
	}

	// Any token the codec accepts rotates the pair; access and refresh carry
	// no kind discriminator, matching the original contract.
	subject, err := a.codec.Decode(raw, now)
	if err != nil {
		return model.TokenPair{}, customErrors.ErrInvalidToken
	}
	return a.issuePair(subject, now)
}

func (a *authService) issuePair(subject string, now time.Time) (model.TokenPair, error) {
	at, err := a.codec.Issue(subject, model.KindAccess, now)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "issue access token")
	}
	rt, err := a.codec.Issue(subject, model.KindRefresh, now)
	if err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "issue refresh token")
	}

	return model.TokenPair{
		AccessToken:  at,
		RefreshToken: rt,
		AccessTTL:    a.codec.TTL(model.KindAccess),
		RefreshTTL:   a.codec.TTL(model.KindRefresh),
		Subject:      subject,
	}, nil
}

func stripBearer(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || raw == "" {
		return "", customErrors.ErrInvalidToken
	}
	return raw, nil
}
