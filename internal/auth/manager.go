// Package auth is the authentication collaborator around the journal core:
// account registration, password checks, and cookie-session management. The
// journal services trust the user identity this package resolves.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"moodlog/internal/core"
	"moodlog/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// Manager issues and resolves sessions backed by the sqlite repository.
type Manager struct {
	storage    *storage.SQLiteRepository
	sessionTTL time.Duration
	bcryptCost int
}

func NewManager(storage *storage.SQLiteRepository, sessionTTL time.Duration, bcryptCost int) *Manager {
	return &Manager{
		storage:    storage,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates an account and immediately opens a session for it.
// A taken username surfaces as core.ErrUsernameTaken.
func (m *Manager) Register(ctx context.Context, username, displayName, password string) (*core.User, string, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)

	if err := (core.User{Username: username}).Validate(); err != nil {
		return nil, "", err
	}
	if len(password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := HashPassword(password, m.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user, err := m.storage.CreateUser(ctx, username, displayName, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := m.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "Account registered", "user_id", user.ID, "username", username)
	return user, token, nil
}

// Login verifies credentials and returns a fresh session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (m *Manager) Login(ctx context.Context, username, password string) (*core.User, string, error) {
	user, err := m.storage.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := m.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout discards the session; an unknown token is not an error.
func (m *Manager) Logout(ctx context.Context, token string) error {
	return m.storage.DeleteSession(ctx, token)
}

// UserForToken resolves a session token to its user. Expired or unknown
// tokens yield core.ErrNotFound.
func (m *Manager) UserForToken(ctx context.Context, token string) (*core.User, error) {
	userID, err := m.storage.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return m.storage.GetUserByID(ctx, userID)
}

// FirstRun reports whether no account exists yet. The signup flow shows the
// onboarding variant when it does; this is the whole first-user policy.
func (m *Manager) FirstRun(ctx context.Context) (bool, error) {
	n, err := m.storage.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// PurgeExpiredSessions drops sessions past their expiry.
func (m *Manager) PurgeExpiredSessions(ctx context.Context) error {
	n, err := m.storage.DeleteExpiredSessions(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.DebugContext(ctx, "Expired sessions purged", "count", n)
	}
	return nil
}

// SessionTTL exposes the configured session lifetime, for cookie expiry.
func (m *Manager) SessionTTL() time.Duration {
	return m.sessionTTL
}

func (m *Manager) openSession(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := m.storage.CreateSession(ctx, token, userID, time.Now().Add(m.sessionTTL)); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	return token, nil
}
