package authgate

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v4"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/models"
	"github.com/pulsefeed/backend/internal/repositories"
)

// JWTResolver resolves locally issued session tokens.
type JWTResolver struct {
	secret []byte
	users  repositories.UserRepository
}

// NewJWTResolver creates a resolver validating tokens signed with secret.
func NewJWTResolver(secret string, users repositories.UserRepository) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), users: users}
}

func (r *JWTResolver) Resolve(ctx context.Context, tokenString string) (*Principal, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return r.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.New(apperr.CodeSessionExpired, "session expired")
		}
		return nil, apperr.Wrap(err, apperr.CodeUnauthorized, "invalid token")
	}
	if !token.Valid {
		return nil, apperr.New(apperr.CodeUnauthorized, "invalid token")
	}

	user, err := r.users.GetUserByID(claims.UserID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeUnauthorized, "unknown principal")
	}
	return &Principal{ID: user.ID, Role: user.Role, Status: user.Status}, nil
}
