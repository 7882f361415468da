package users

import (
	"context"
	"errors"
)

// ErrNotFound indicates no user exists with the given ID.
var ErrNotFound = errors.New("user not found")

// Repo persists user accounts.
type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
}
