// Package auth validates session tokens and decodes the identity snapshot
// they carry. Tokens are minted by the login service after the Discord OAuth
// exchange; the role and ownership data inside them is captured once at that
// point so no request here ever calls the Discord API.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/guildgamesh/guildgamesh-backend/errors"
	"github.com/guildgamesh/guildgamesh-backend/types"
)

// SessionClaims is the JWT payload of a session token. Beyond the registered
// claims it holds the full per-server identity snapshot.
type SessionClaims struct {
	jwt.RegisteredClaims

	MemberServerIDs        []string            `json:"memberServerIds"`
	OwnedServerIDs         []string            `json:"ownedServerIds"`
	AdministratorServerIDs []string            `json:"administratorServerIds"`
	RolesByServer          map[string][]string `json:"rolesByServer"`
}

// ValidateSessionToken parses and verifies a session token and returns the
// identity context it encodes. The claims' subject is the Discord user id.
func ValidateSessionToken(tokenString, secret string) (types.IdentityContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, apperrors.Unauthorized("invalid_algorithm", "Unexpected signing method")
			}
			return []byte(secret), nil
		})
	if err != nil || !token.Valid {
		return types.IdentityContext{}, apperrors.Unauthorized("invalid_token", "Invalid session")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.Subject == "" {
		return types.IdentityContext{}, apperrors.Unauthorized("invalid_claims", "Invalid token structure")
	}

	return types.NewIdentityContext(
		claims.Subject,
		claims.MemberServerIDs,
		claims.OwnedServerIDs,
		claims.AdministratorServerIDs,
		claims.RolesByServer,
	), nil
}

// IssueSessionToken mints a session token for an identity snapshot. Used by
// the login service and by tests; the API itself never issues tokens.
func IssueSessionToken(identity types.IdentityContext, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		MemberServerIDs:        identity.MemberServerIDs,
		OwnedServerIDs:         identity.OwnedServerIDs,
		AdministratorServerIDs: identity.AdministratorServerIDs,
		RolesByServer:          identity.RolesByServer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
