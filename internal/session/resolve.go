package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v4"

	"github.com/julianstephens/weekslot/internal/errors"
	"github.com/julianstephens/weekslot/internal/logger"
	"github.com/julianstephens/weekslot/internal/models"
)

// UserClaim is the access token claim carrying the user's id.
const UserClaim = "user_id"

// UserSource fetches the authenticated user from the authority.
type UserSource interface {
	CurrentUser(ctx context.Context) (models.User, error)
}

// ClaimsUserID reads the user id claim from an access token without verifying
// its signature. The authority verifies tokens on every request; this is only
// used to show a provisional identity before the first round trip.
func ClaimsUserID(accessToken string) (models.ID, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return "", fmt.Errorf("failed to decode access token: %w", err)
	}

	switch v := claims[UserClaim].(type) {
	case float64:
		return models.ID(strconv.FormatInt(int64(v), 10)), nil
	case string:
		if v != "" {
			return models.ID(v), nil
		}
	}
	return "", fmt.Errorf("access token has no %s claim", UserClaim)
}

// Resolve fills s with the viewer. When accessToken is set its user id is
// published first, then the full user is fetched from src. A rejection from
// the authority clears the session; a transport failure keeps the
// provisional identity.
func Resolve(ctx context.Context, s *Session, accessToken string, src UserSource) error {
	if accessToken != "" {
		if id, err := ClaimsUserID(accessToken); err == nil {
			s.Set(models.User{ID: id})
		} else {
			logger.Debug("ignoring undecodable access token", "error", err)
		}
	}

	user, err := src.CurrentUser(ctx)
	if err != nil {
		if errors.IsRejection(err) {
			s.Clear()
		}
		return fmt.Errorf("failed to resolve current user: %w", err)
	}
	s.Set(user)
	logger.Info("session resolved", "user", user.ID, "username", user.Username)
	return nil
}
