package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Eco-nexion/econexion/internal/models"
)

// makeToken builds a three-segment token whose middle segment carries the
// identity claims. The signature is garbage; the client never verifies it.
func makeToken(t *testing.T, id, name, email, rol string) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]string{
		"id":       id,
		"username": name,
		"sub":      email,
		"rol":      rol,
	})
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

type brokenKeystore struct{}

func (brokenKeystore) Set(ctx context.Context, key, value string) error { return errors.New("locked") }
func (brokenKeystore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("locked")
}
func (brokenKeystore) Remove(ctx context.Context, key string) error { return errors.New("locked") }

func TestLoadWithEmptyStoreIsAnonymous(t *testing.T) {
	m := NewManager(NewMemoryKeystore(), New("http://unused"))
	session := m.Load(context.Background())

	require.False(t, session.Authenticated())
	require.Empty(t, session.Token)
	require.Nil(t, session.User)
}

func TestLoadRestoresIdentityFromToken(t *testing.T) {
	store := NewMemoryKeystore()
	token := makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR")
	require.NoError(t, store.Set(context.Background(), keyToken, token))

	m := NewManager(store, New("http://unused"))
	session := m.Load(context.Background())

	require.True(t, session.Authenticated())
	require.Equal(t, token, session.Token)
	require.Equal(t, "u1", session.User.ID)
	require.Equal(t, "EcoPlast", session.User.Name)
	require.Equal(t, "gen@eco.com", session.User.Email)
	require.Equal(t, models.RoleGenerator, session.User.Role)
}

func TestLoadOpaqueTokenFallsBackToStoredIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKeystore()
	require.NoError(t, store.Set(ctx, keyToken, "opaque-session-token"))
	require.NoError(t, store.Set(ctx, keyUserID, "u2"))
	require.NoError(t, store.Set(ctx, keyName, "GreenCycle"))
	require.NoError(t, store.Set(ctx, keyEmail, "rec@eco.com"))
	require.NoError(t, store.Set(ctx, keyRole, "RECYCLER"))

	m := NewManager(store, New("http://unused"))
	session := m.Load(ctx)

	require.True(t, session.Authenticated())
	require.Equal(t, "u2", session.User.ID)
	require.Equal(t, models.RoleRecycler, session.User.Role)
}

func TestLoadUndecodableTokenWithoutStoredIdentityIsAnonymous(t *testing.T) {
	store := NewMemoryKeystore()
	require.NoError(t, store.Set(context.Background(), keyToken, "not-a-jwt"))

	m := NewManager(store, New("http://unused"))
	session := m.Load(context.Background())

	require.False(t, session.Authenticated())
}

func TestLoadFailsClosedOnStorageError(t *testing.T) {
	m := NewManager(brokenKeystore{}, New("http://unused"))
	session := m.Load(context.Background())

	require.False(t, session.Authenticated())
}

func TestSignInRejectsBadInputWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	m := NewManager(NewMemoryKeystore(), New(server.URL))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "secret"},
		{"missing domain dot", "a@b", "secret"},
		{"double at", "a@@b.com", "secret"},
		{"embedded space", "a b@c.com", "secret"},
		{"empty password", "a@b.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := m.SignIn(context.Background(), tt.email, tt.password)
			require.False(t, result.OK)
			require.NotEmpty(t, result.Message)
		})
	}

	require.Zero(t, calls.Load(), "local validation must not reach the network")
	require.False(t, m.Session().Authenticated())
}

func TestSignInSuccessPersistsAndSetsSession(t *testing.T) {
	token := makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "gen@eco.com", body["email"])

		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
	defer server.Close()

	ctx := context.Background()
	store := NewMemoryKeystore()
	m := NewManager(store, New(server.URL))

	result := m.SignIn(ctx, "gen@eco.com", "secret123")
	require.True(t, result.OK)

	session := m.Session()
	require.True(t, session.Authenticated())
	require.Equal(t, "u1", session.User.ID)
	require.Equal(t, models.RoleGenerator, session.User.Role)

	// A fresh manager over the same store restores the same identity.
	restored := NewManager(store, New(server.URL)).Load(ctx)
	require.True(t, restored.Authenticated())
	require.Equal(t, "u1", restored.User.ID)

	target, redirect := Redirect(session, ScreenLogin)
	require.True(t, redirect)
	require.Equal(t, ScreenGeneratorDashboard, target)
}

func TestSignInWrongCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer server.Close()

	m := NewManager(NewMemoryKeystore(), New(server.URL))
	result := m.SignIn(context.Background(), "gen@eco.com", "wrong")

	require.False(t, result.OK)
	require.Equal(t, "invalid credentials", result.Message)
	require.False(t, m.Session().Authenticated())
}

// halfBrokenKeystore accepts the token write, then fails on the next key.
// Reads and removes keep working, so rollback is observable.
type halfBrokenKeystore struct {
	*MemoryKeystore
	failKey string
}

func (k *halfBrokenKeystore) Set(ctx context.Context, key, value string) error {
	if key == k.failKey {
		return errors.New("disk full")
	}
	return k.MemoryKeystore.Set(ctx, key, value)
}

func TestSignInPartialPersistFailureRollsBack(t *testing.T) {
	token := makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
	defer server.Close()

	ctx := context.Background()
	store := &halfBrokenKeystore{MemoryKeystore: NewMemoryKeystore(), failKey: keyName}
	m := NewManager(store, New(server.URL))

	result := m.SignIn(ctx, "gen@eco.com", "secret123")
	require.False(t, result.OK)
	require.False(t, m.Session().Authenticated())

	// The token written before the failure must not survive.
	_, err := store.Get(ctx, keyToken)
	require.ErrorIs(t, err, ErrKeyNotFound)

	restored := NewManager(store, New(server.URL)).Load(ctx)
	require.False(t, restored.Authenticated(), "failed sign-in must not be resurrectable")
}

func TestSignInStorageFailureDoesNotSetSession(t *testing.T) {
	token := makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": token})
	}))
	defer server.Close()

	m := NewManager(brokenKeystore{}, New(server.URL))
	result := m.SignIn(context.Background(), "gen@eco.com", "secret123")

	require.False(t, result.OK)
	require.False(t, m.Session().Authenticated())
}

func TestSignUpDoesNotEstablishSession(t *testing.T) {
	var registered atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/register", r.URL.Path)
		registered.Add(1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "u9"})
	}))
	defer server.Close()

	m := NewManager(NewMemoryKeystore(), New(server.URL))
	result := m.SignUp(context.Background(), Registration{
		CompanyName:     "EcoPlast",
		UserName:        "ana",
		Position:        "ops",
		Email:           "ana@eco.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleGenerator,
	})

	require.True(t, result.OK)
	require.Equal(t, int32(1), registered.Load())
	require.False(t, m.Session().Authenticated(), "sign-up must not sign the user in")
}

func TestSignUpLocalValidation(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	m := NewManager(NewMemoryKeystore(), New(server.URL))
	base := Registration{
		CompanyName:     "EcoPlast",
		UserName:        "ana",
		Position:        "ops",
		Email:           "ana@eco.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		Role:            models.RoleGenerator,
	}

	mutations := map[string]func(*Registration){
		"blank company":     func(r *Registration) { r.CompanyName = "  " },
		"bad email":         func(r *Registration) { r.Email = "ana@eco" },
		"password mismatch": func(r *Registration) { r.ConfirmPassword = "other" },
		"empty password":    func(r *Registration) { r.Password = ""; r.ConfirmPassword = "" },
		"unknown role":      func(r *Registration) { r.Role = "ADMIN" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			reg := base
			mutate(&reg)
			result := m.SignUp(context.Background(), reg)
			require.False(t, result.OK)
			require.NotEmpty(t, result.Message)
		})
	}

	require.Zero(t, calls.Load())
}

func TestSignOutClearsEverythingAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKeystore()
	token := makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR")
	require.NoError(t, store.Set(ctx, keyToken, token))

	m := NewManager(store, New("http://unused"))
	require.True(t, m.Load(ctx).Authenticated())

	require.NoError(t, m.SignOut(ctx))
	require.False(t, m.Session().Authenticated())

	for _, key := range []string{keyToken, keyName, keyEmail, keyUserID, keyRole} {
		_, err := store.Get(ctx, key)
		require.ErrorIs(t, err, ErrKeyNotFound)
	}

	// Second sign-out is a no-op.
	require.NoError(t, m.SignOut(ctx))
	require.False(t, m.Load(ctx).Authenticated())
}

func TestUnauthorizedResponseInvalidatesSession(t *testing.T) {
	token := makeToken(t, "u1", "EcoPlast", "gen@eco.com", "GENERATOR")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	}))
	defer server.Close()

	ctx := context.Background()
	store := NewMemoryKeystore()
	require.NoError(t, store.Set(ctx, keyToken, token))

	api := New(server.URL)
	m := NewManager(store, api)
	require.True(t, m.Load(ctx).Authenticated())

	_, err := api.Posts(ctx)
	require.Error(t, err)

	require.False(t, m.Session().Authenticated(), "401 must drop the session")
	_, getErr := store.Get(ctx, keyToken)
	require.ErrorIs(t, getErr, ErrKeyNotFound)
}
