package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go-bizkeeper/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type authSnapshot struct {
	User           *model.User              `json:"user"`
	SessionVersion int                      `json:"session_version"`
	Accounts       map[string]model.Account `json:"accounts,omitempty"`
}

// Session is the signed-in user and the version a token must carry.
type Session struct {
	User    model.User
	Version int
}

// AuthStore is a single-session mock sign-in. Addresses without a
// registered account sign in as the admin user.
type AuthStore struct {
	mu       sync.RWMutex
	user     *model.User
	version  int
	accounts map[string]model.Account
	hashCost int
	deps     Deps
}

type AuthOption func(*AuthStore)

// WithHashCost sets the bcrypt cost for registered passwords.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthStore) { s.hashCost = cost }
}

func NewAuthStore(deps Deps, opts ...AuthOption) *AuthStore {
	s := &AuthStore{
		deps:     deps.withDefaults(),
		accounts: make(map[string]model.Account),
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthStore) Load(ctx context.Context) error {
	var snap authSnapshot
	found, err := s.deps.load(ctx, AuthStorageKey, &snap)
	if err != nil || !found {
		return err
	}
	s.mu.Lock()
	s.user = snap.User
	s.version = snap.SessionVersion
	if snap.Accounts != nil {
		s.accounts = snap.Accounts
	}
	s.mu.Unlock()
	return nil
}

// Initialize restores the persisted session and reports whether a user is
// signed in.
func (s *AuthStore) Initialize(ctx context.Context) (bool, error) {
	if err := s.Load(ctx); err != nil {
		return false, err
	}
	_, ok := s.Current()
	return ok, nil
}

func (s *AuthStore) Login(email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) < minPasswordLength {
		return Session{}, ErrInvalidCredentials
	}

	s.mu.Lock()
	var user model.User
	if acc, ok := s.accounts[accountKey(email)]; ok {
		if !acc.CheckPassword(password) {
			s.mu.Unlock()
			return Session{}, ErrInvalidCredentials
		}
		user = acc.User
	} else {
		user = model.User{
			ID:    model.UserIDForEmail(email),
			Name:  "Admin User",
			Email: email,
			Role:  s.newcomerRoleLocked(),
		}
	}
	sess := s.signInLocked(user)
	s.mu.Unlock()

	s.deps.publish(model.EntityAuth, "signed_in", user.ID, user, fmt.Sprintf("%s signed in", user.Email))
	return sess, nil
}

func (s *AuthStore) Register(in model.RegisterInput) (Session, error) {
	if err := validate(in); err != nil {
		return Session{}, err
	}
	if in.Password != in.ConfirmPassword {
		return Session{}, ErrPasswordMismatch
	}

	acc := model.Account{User: model.User{
		ID:    model.NewID(),
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}}
	if err := acc.SetPassword(in.Password, s.hashCost); err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	key := accountKey(acc.Email)
	if _, exists := s.accounts[key]; exists {
		s.mu.Unlock()
		return Session{}, ErrEmailExists
	}
	acc.Role = s.newcomerRoleLocked()
	s.accounts[key] = acc
	sess := s.signInLocked(acc.User)
	s.mu.Unlock()

	s.deps.publish(model.EntityAuth, "registered", acc.ID, acc.User, fmt.Sprintf("%s registered", acc.Email))
	return sess, nil
}

// Logout clears the user and invalidates every issued token.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	var id uuid.UUID
	if s.user != nil {
		id = s.user.ID
	}
	s.user = nil
	s.version++
	s.persistLocked()
	s.mu.Unlock()

	s.deps.publish(model.EntityAuth, "signed_out", id, nil, "Signed out")
}

func (s *AuthStore) Current() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// ValidateSession checks that a token issued for userID at version still
// belongs to the signed-in session.
func (s *AuthStore) ValidateSession(userID uuid.UUID, version int) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || s.user.ID != userID || s.version != version {
		return model.User{}, ErrNotAuthenticated
	}
	return *s.user, nil
}

func (s *AuthStore) signInLocked(user model.User) Session {
	s.version++
	u := user
	s.user = &u
	s.persistLocked()
	return Session{User: user, Version: s.version}
}

func (s *AuthStore) persistLocked() {
	s.deps.persist(AuthStorageKey, authSnapshot{User: s.user, SessionVersion: s.version, Accounts: s.accounts})
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newcomerRoleLocked grants admin only until the first account is registered.
func (s *AuthStore) newcomerRoleLocked() model.Role {
	if len(s.accounts) == 0 {
		return model.RoleAdmin
	}
	return model.RoleStaff
}
