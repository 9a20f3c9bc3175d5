package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "acme", "a@b.com", "GENERATOR", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "acme", claims.Username)
	require.Equal(t, "a@b.com", claims.Subject)
	require.Equal(t, "GENERATOR", claims.Rol)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "acme", "a@b.com", "RECYCLER", time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other")
	require.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken("secret", "u1", "acme", "a@b.com", "RECYCLER", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "secret")
	require.Error(t, err)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("not-a-token", "secret")
	require.Error(t, err)
}
