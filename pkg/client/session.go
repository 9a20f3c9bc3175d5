package client

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"sync"

	"github.com/Eco-nexion/econexion/internal/models"
)

// Storage keys, one per identity field, matching the mobile client contract.
const (
	keyToken  = "EconexionToken"
	keyName   = "EconexionName"
	keyEmail  = "EconexionEmail"
	keyUserID = "EconexionUserId"
	keyRole   = "EconexionUserType"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Session is the authenticated identity snapshot. User is non-nil exactly
// when Token is non-empty and was decodable at load time.
type Session struct {
	Token string
	User  *User
}

func (s Session) Authenticated() bool {
	return s.User != nil
}

// Result is the outcome of a sign-in or sign-up attempt. All failure causes
// collapse to a single message suitable for direct display.
type Result struct {
	OK      bool
	Message string
}

func failure(message string) Result {
	return Result{Message: message}
}

// Registration is the sign-up form. Sign-up never establishes a session; the
// caller signs in afterwards.
type Registration struct {
	CompanyName     string
	UserName        string
	Position        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            models.Role
}

// Manager is the single source of truth for who is signed in. It persists
// the session in a Keystore and exposes a synchronous snapshot so navigation
// decisions never wait on storage or network.
type Manager struct {
	store Keystore
	api   *Client

	mu      sync.RWMutex
	current Session
}

func NewManager(store Keystore, api *Client) *Manager {
	m := &Manager{store: store, api: api}
	if api != nil {
		api.TokenSource = func(ctx context.Context) string {
			return m.Session().Token
		}
		api.OnUnauthorized = func(ctx context.Context) {
			m.Invalidate(ctx)
		}
	}
	return m
}

// Session returns the current snapshot.
func (m *Manager) Session() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Load restores the session from the keystore at startup. Any storage
// failure or undecodable token yields an anonymous session; identity is
// available synchronously afterwards.
func (m *Manager) Load(ctx context.Context) Session {
	token, err := m.store.Get(ctx, keyToken)
	if err != nil || token == "" {
		return m.setAnonymous()
	}

	user, err := decodeIdentity(token)
	if err != nil {
		// Fall back on the stored identity fields before giving up; older
		// sessions may hold an opaque token with identity stored alongside.
		stored, storedErr := m.loadStoredIdentity(ctx)
		if storedErr != nil {
			return m.setAnonymous()
		}
		user = stored
	}

	return m.set(Session{Token: token, User: &user})
}

func (m *Manager) loadStoredIdentity(ctx context.Context) (User, error) {
	id, err := m.store.Get(ctx, keyUserID)
	if err != nil || id == "" {
		return User{}, errors.New("no stored identity")
	}
	roleStr, err := m.store.Get(ctx, keyRole)
	if err != nil {
		return User{}, err
	}
	role, ok := models.ParseRole(roleStr)
	if !ok {
		return User{}, errors.New("stored role invalid")
	}
	name, _ := m.store.Get(ctx, keyName)
	email, _ := m.store.Get(ctx, keyEmail)
	return User{ID: id, Name: name, Email: email, Role: role}, nil
}

// SignIn authenticates against the backend and persists the session.
func (m *Manager) SignIn(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if !emailShape.MatchString(email) {
		return failure("enter a valid email address")
	}
	if password == "" {
		return failure("password is required")
	}

	var resp struct {
		Token string `json:"token"`
	}
	err := m.api.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return failure(messageOf(err))
	}

	user, err := decodeIdentity(resp.Token)
	if err != nil {
		return failure("sign in failed: invalid session token")
	}

	if err := m.persist(ctx, resp.Token, user); err != nil {
		// Roll back whatever was written so a later Load cannot resurrect a
		// session from a sign-in that was reported as failed.
		_ = m.SignOut(ctx)
		return failure("could not save session")
	}

	m.set(Session{Token: resp.Token, User: &user})
	return Result{OK: true}
}

// SignUp creates an account. It does not sign the user in.
func (m *Manager) SignUp(ctx context.Context, reg Registration) Result {
	if strings.TrimSpace(reg.CompanyName) == "" ||
		strings.TrimSpace(reg.UserName) == "" ||
		strings.TrimSpace(reg.Position) == "" {
		return failure("all fields are required")
	}
	if !emailShape.MatchString(strings.TrimSpace(reg.Email)) {
		return failure("enter a valid email address")
	}
	if reg.Password == "" {
		return failure("password is required")
	}
	if reg.Password != reg.ConfirmPassword {
		return failure("passwords do not match")
	}
	if reg.Role != models.RoleGenerator && reg.Role != models.RoleRecycler {
		return failure("select a role")
	}

	err := m.api.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":       reg.UserName,
		"password":       reg.Password,
		"email":          strings.TrimSpace(reg.Email),
		"enterpriseName": reg.CompanyName,
		"position":       reg.Position,
		"rol":            string(reg.Role),
	}, nil)
	if err != nil {
		return failure(messageOf(err))
	}

	return Result{OK: true}
}

// SignOut clears the persisted session. Safe to call when already anonymous.
func (m *Manager) SignOut(ctx context.Context) error {
	var firstErr error
	for _, key := range []string{keyToken, keyName, keyEmail, keyUserID, keyRole} {
		if err := m.store.Remove(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.setAnonymous()
	return firstErr
}

// Invalidate drops the session after the backend rejected its token.
func (m *Manager) Invalidate(ctx context.Context) {
	_ = m.SignOut(ctx)
}

func (m *Manager) persist(ctx context.Context, token string, user User) error {
	pairs := [...]struct{ key, value string }{
		{keyToken, token},
		{keyName, user.Name},
		{keyEmail, user.Email},
		{keyUserID, user.ID},
		{keyRole, string(user.Role)},
	}
	for _, pair := range pairs {
		if err := m.store.Set(ctx, pair.key, pair.value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) set(session Session) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = session
	return session
}

func (m *Manager) setAnonymous() Session {
	return m.set(Session{})
}

func messageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
