package authgate

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/pulsefeed/backend/internal/apperr"
	"github.com/pulsefeed/backend/internal/repositories"
)

// FirebaseResolver resolves Firebase ID tokens to local principals.
type FirebaseResolver struct {
	client *auth.Client
	users  repositories.UserRepository
}

// NewFirebaseResolver creates a resolver backed by the given auth client.
func NewFirebaseResolver(client *auth.Client, users repositories.UserRepository) *FirebaseResolver {
	return &FirebaseResolver{client: client, users: users}
}

func (r *FirebaseResolver) Resolve(ctx context.Context, tokenString string) (*Principal, error) {
	token, err := r.client.VerifyIDToken(ctx, tokenString)
	if err != nil {
		if auth.IsIDTokenExpired(err) {
			return nil, apperr.Wrap(err, apperr.CodeSessionExpired, "session expired")
		}
		return nil, apperr.Wrap(err, apperr.CodeUnauthorized, "invalid or expired ID token")
	}

	user, err := r.users.GetUserByFirebaseUID(token.UID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeUnauthorized, "authenticated user not registered")
	}
	return &Principal{ID: user.ID, Role: user.Role, Status: user.Status}, nil
}
