// Package auth provides the server-validated admin session. The rest of
// the application only ever consumes a boolean "logged in" answer; no
// transaction data crosses this boundary.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDisabled           = errors.New("admin login is not configured")
)

// Sessions validates admin credentials and tracks opaque session tokens.
type Sessions struct {
	mu           sync.Mutex
	username     string
	passwordHash []byte
	ttl          time.Duration
	tokens       map[string]time.Time
}

// New creates a session manager for a single admin identity. The
// password hash must be a bcrypt hash; an empty hash disables login.
func New(username, passwordHash string, ttl time.Duration) *Sessions {
	return &Sessions{
		username:     username,
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		tokens:       make(map[string]time.Time),
	}
}

// HashPassword derives a bcrypt hash for a plaintext password, used when
// the deployment configures ADMIN_PASSWORD instead of a precomputed hash.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Login checks the credentials and, on success, issues a session token.
func (s *Sessions) Login(username, password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", ErrDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = time.Now().Add(s.ttl)
	return token, nil
}

// LoggedIn reports whether the token names a live session. Expired
// tokens are pruned on sight.
func (s *Sessions) LoggedIn(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, ok := s.tokens[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Logout invalidates the token. Unknown tokens are a no-op.
func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
