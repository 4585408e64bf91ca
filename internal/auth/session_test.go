package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildgamesh/guildgamesh-backend/types"
)

const testSecret = "session-test-secret"

func testIdentity() types.IdentityContext {
	return types.NewIdentityContext(
		"user-1",
		[]string{"server-a", "server-b"},
		[]string{"server-a"},
		nil,
		map[string][]string{
			"server-a": {"role-1", "role-2"},
			"server-b": {"role-3"},
		},
	)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := IssueSessionToken(testIdentity(), testSecret, time.Hour)
	require.NoError(t, err)

	identity, err := ValidateSessionToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, "user-1", identity.UserID)
	assert.ElementsMatch(t, []string{"server-a", "server-b"}, identity.MemberServerIDs)
	assert.Equal(t, []string{"server-a"}, identity.OwnedServerIDs)
	assert.Equal(t, []string{"role-1", "role-2"}, identity.RolesOn("server-a"))
	assert.True(t, identity.OwnsServer("server-a"))
	assert.False(t, identity.OwnsServer("server-b"))
}

func TestValidateSessionTokenRejectsBadSignature(t *testing.T) {
	token, err := IssueSessionToken(testIdentity(), "other-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsExpired(t *testing.T) {
	token, err := IssueSessionToken(testIdentity(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateSessionToken(token, testSecret)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsMissingSubject(t *testing.T) {
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ValidateSessionToken(signed, testSecret)
	assert.Error(t, err)
}

func TestValidateSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateSessionToken("not-a-token", testSecret)
	assert.Error(t, err)
}
