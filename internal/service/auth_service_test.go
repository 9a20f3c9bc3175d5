package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Eco-nexion/econexion/internal/config"
	"github.com/Eco-nexion/econexion/internal/models"
	"github.com/Eco-nexion/econexion/internal/repository"
	"github.com/Eco-nexion/econexion/internal/security"
)

type fakeUserStore struct {
	byEmail map[string]models.User
}

func (f *fakeUserStore) Create(ctx context.Context, user models.User) error {
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	cfg := &config.AppConfig{}
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.JWTTTL = time.Hour
	users := &fakeUserStore{byEmail: map[string]models.User{}}
	return NewAuthService(users, cfg, zerolog.Nop()), users
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username:       "ana",
		Email:          "Ana@Eco.com",
		Password:       "secret123",
		EnterpriseName: "EcoPlast",
		Position:       "ops",
		Role:           "generator",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with normalized email and role", func(t *testing.T) {
		svc, store := newAuthFixture(t)

		user, err := svc.Register(ctx, registerInput())
		require.NoError(t, err)
		require.Equal(t, "ana@eco.com", user.Email)
		require.Equal(t, models.RoleGenerator, user.Role)
		require.NotEmpty(t, user.ID)
		require.NotEmpty(t, user.PasswordHash)

		_, err = store.FindByEmail(ctx, "ana@eco.com")
		require.NoError(t, err)
	})

	t.Run("duplicate email", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Register(ctx, registerInput())
		require.NoError(t, err)
		_, err = svc.Register(ctx, registerInput())
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("unknown role", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		in := registerInput()
		in.Role = "admin"
		_, err := svc.Register(ctx, in)
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		in := registerInput()
		in.Password = ""
		_, err := svc.Register(ctx, in)
		require.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials yield a token carrying identity", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		registered, err := svc.Register(ctx, registerInput())
		require.NoError(t, err)

		result, err := svc.Login(ctx, "ana@eco.com", "secret123")
		require.NoError(t, err)
		require.Equal(t, registered.ID, result.User.ID)

		claims, err := security.ParseAccessToken(result.Token, "test-secret")
		require.NoError(t, err)
		require.Equal(t, registered.ID, claims.UserID)
		require.Equal(t, "ana@eco.com", claims.Subject)
		require.Equal(t, "GENERATOR", claims.Rol)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Register(ctx, registerInput())
		require.NoError(t, err)

		_, err = svc.Login(ctx, "ana@eco.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newAuthFixture(t)
		_, err := svc.Login(ctx, "nobody@eco.com", "secret123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
