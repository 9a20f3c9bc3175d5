package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Eco-nexion/econexion/internal/models"
)

// User is the identity carried by the session.
type User struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

// decodeIdentity extracts identity claims from the token's middle segment
// without verifying the signature. The server remains the authority; this is
// only so navigation decisions never need a network round-trip.
func decodeIdentity(token string) (User, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return User{}, fmt.Errorf("malformed token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return User{}, fmt.Errorf("decode token payload: %w", err)
	}

	var claims struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Sub      string `json:"sub"`
		Rol      string `json:"rol"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return User{}, fmt.Errorf("parse token payload: %w", err)
	}

	role, ok := models.ParseRole(claims.Rol)
	if !ok {
		return User{}, fmt.Errorf("unknown role claim %q", claims.Rol)
	}
	if claims.ID == "" {
		return User{}, fmt.Errorf("token missing user id")
	}

	return User{
		ID:    claims.ID,
		Name:  claims.Username,
		Email: claims.Sub,
		Role:  role,
	}, nil
}
