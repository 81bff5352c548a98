package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskward/api/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	// Delete removes the user and, in the same transaction, every task
	// and refresh token the user owns.
	Delete(ctx context.Context, id uuid.UUID) error
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	PhoneNumber string
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}
