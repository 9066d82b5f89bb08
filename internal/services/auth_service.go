package services

import (
	"context"
	"errors"
	"time"

	"quickchat/config"
	quickchat_errors "quickchat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates stateless access tokens. A token is
// verifiable from its signature alone, so there is no session table.
type AuthService struct {
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		jwtSecret: []byte(cfg.JWTSecret),
		accessTTL: time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type AccessClaims struct {
	UserID string `json:"sub"`
	jwt.RegisteredClaims
}

// IssueToken mints a signed access token bound to userID.
func (s *AuthService) IssueToken(userID uuid.UUID) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTTL)

	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.accessTTL.Seconds()), nil
}

// ParseAccessToken validates a token and returns its claims. Any
// malformed, mis-signed, or expired token maps to ErrUnauthorized.
func (s *AuthService) ParseAccessToken(tokenString string) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, quickchat_errors.ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, quickchat_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return AccessClaims{}, quickchat_errors.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return AccessClaims{}, quickchat_errors.ErrUnauthorized
	}

	return *claims, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func comparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HTTPStatus maps service errors onto response status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, quickchat_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, quickchat_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, quickchat_errors.ErrForbidden):
		return 403
	case errors.Is(err, quickchat_errors.ErrNotFound):
		return 404
	case errors.Is(err, quickchat_errors.ErrAlreadyExists), errors.Is(err, quickchat_errors.ErrConflict):
		return 409
	case errors.Is(err, quickchat_errors.ErrTooLarge):
		return 413
	case errors.Is(err, quickchat_errors.ErrRateLimited):
		return 429
	case errors.Is(err, quickchat_errors.ErrUploadFailed):
		return 502
	default:
		return 500
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

// WithUserContext attaches the authenticated user's identity to ctx.
// The auth gate is the only writer.
func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext resolves the identity the auth gate attached.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
