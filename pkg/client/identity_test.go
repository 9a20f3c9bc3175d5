package client

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Eco-nexion/econexion/internal/models"
)

func TestDecodeIdentity(t *testing.T) {
	user, err := decodeIdentity(makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR"))
	require.NoError(t, err)
	require.Equal(t, User{ID: "u1", Name: "EcoPlast", Email: "gen@eco.com", Role: models.RoleGenerator}, user)
}

func TestDecodeIdentityLowercaseRole(t *testing.T) {
	user, err := decodeIdentity(makeToken(t, "u2", "GreenCycle", "rec@eco.com", "recycler"))
	require.NoError(t, err)
	require.Equal(t, models.RoleRecycler, user.Role)
}

func TestDecodeIdentityRejectsBadTokens(t *testing.T) {
	junkPayload := base64.RawURLEncoding.EncodeToString([]byte("not json"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"two segments", "a.b"},
		{"four segments", "a.b.c.d"},
		{"payload not base64", "a.$$$$.c"},
		{"payload not json", "a." + junkPayload + ".c"},
		{"unknown role", makeToken(t, "u1", "n", "e@x.com", "ADMIN")},
		{"missing user id", makeToken(t, "", "n", "e@x.com", "GENERATOR")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeIdentity(tt.token)
			require.Error(t, err)
		})
	}
}
