package ports

import (
	"context"

	"github.com/plataforma/accounts-api/internal/core/domain"
)

// RegisterInput carries the self-registration fields. Role is optional and
// defaults to usuario.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUserInput carries the admin-creation fields. Role is required.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.PublicUser, string, error)
	Login(ctx context.Context, email, password string) (*domain.PublicUser, string, error)

	ListUsers(ctx context.Context, caller domain.Caller) ([]domain.PublicUser, error)
	GetUser(ctx context.Context, caller domain.Caller, id string) (*domain.PublicUser, error)
	CreateUser(ctx context.Context, caller domain.Caller, in CreateUserInput) (*domain.PublicUser, error)
	UpdateUser(ctx context.Context, caller domain.Caller, id string, in UpdateUserInput) (*domain.PublicUser, error)
	DeleteUser(ctx context.Context, caller domain.Caller, id string) error
}
