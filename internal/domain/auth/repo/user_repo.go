package repo

import (
	"context"

	"github.com/aurelin/auth-service/internal/domain/auth/model"
	"github.com/google/uuid"
)

// UserRepo is the durable username-keyed account store.
//
// CreateUser must be an atomic insert-if-absent: when a record with the same
// username already exists the call returns errors.ErrAlreadyExists, and two
// concurrent creates for one username can never both succeed. The service
// layer depends on this instead of re-deriving a check-then-insert of its own.
type UserRepo interface {
	CreateUser(ctx context.Context, user model.User) (uuid.UUID, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}
