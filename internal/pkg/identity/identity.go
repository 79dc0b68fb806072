// Package identity resolves the acting user of a request.
package identity

import (
	"context"

	"github.com/cmlabs-hris/workforce-guard/internal/pkg/apperror"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

var (
	ErrNoActor      = apperror.New(apperror.ErrUnauthenticated, "no authenticated user on request")
	ErrInvalidToken = apperror.New(apperror.ErrUnauthenticated, "invalid or revoked access token")
)

// ActorFromContext returns the user id carried by the verified token.
func ActorFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", ErrNoActor
	}

	userID, ok := claims[jwt.ClaimUserID].(string)
	if !ok || userID == "" {
		return "", ErrNoActor
	}
	return userID, nil
}
