package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskward/api/internal/core/domain"
	"github.com/taskward/api/internal/core/ports"
)

type AuthConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authService struct {
	userRepo ports.UserRepository
	authRepo ports.AuthRepository
	cfg      AuthConfig
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, cfg AuthConfig) ports.AuthService {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &authService{userRepo: userRepo, authRepo: authRepo, cfg: cfg}
}

func (s *authService) IssuePair(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	entity := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(s.cfg.RefreshTTL),
		Revoked:   false,
	}
	if err := s.authRepo.StoreRefreshToken(ctx, entity); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &ports.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	entity, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if entity == nil {
		return "", domain.ErrTokenInvalid
	}
	if entity.Revoked {
		return "", domain.ErrTokenRevoked
	}
	if entity.ExpiresAt.Before(time.Now()) {
		return "", domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, entity.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", domain.ErrTokenInvalid
	}

	access, err := s.generateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return access, nil
}

// Revoke marks the token revoked. A second revoke of the same token
// fails with ErrTokenRevoked rather than silently succeeding, so a
// double logout is observably rejected.
func (s *authService) Revoke(ctx context.Context, refreshToken string) error {
	entity, err := s.authRepo.GetRefreshTokenByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return fmt.Errorf("failed to get refresh token: %w", err)
	}
	if entity == nil {
		return domain.ErrTokenInvalid
	}
	if entity.Revoked {
		return domain.ErrTokenRevoked
	}
	return s.authRepo.RevokeRefreshToken(ctx, entity.ID)
}

// ResolveCaller checks signature and expiry only; access tokens are
// stateless and carry no server-side record.
func (s *authService) ResolveCaller(accessToken string) (uuid.UUID, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrTokenInvalid
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return userID, nil
}

func (s *authService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"exp":   now.Add(s.cfg.AccessTTL).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.Secret)
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
