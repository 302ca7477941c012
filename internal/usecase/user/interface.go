package user

import (
	"context"

	domain "user-crud-api/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (*domain.User, error)
}
