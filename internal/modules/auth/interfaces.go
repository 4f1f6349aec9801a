package auth

import (
	"context"

	"pipecrm/internal/domain"
)

// UserRepository is the slice of user storage the auth service uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
