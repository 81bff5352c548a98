package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskward/api/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID) error
}

// TokenPair is what login and registration hand back to the client:
// a short-lived JWT plus an opaque, revocable refresh token.
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService interface {
	IssuePair(ctx context.Context, user *domain.User) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Revoke(ctx context.Context, refreshToken string) error
	ResolveCaller(accessToken string) (uuid.UUID, error)
}
