// Package identity resolves the signed-in user that owns the task list.
package identity

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/colonyops/taskboard/internal/core/task"
)

// ErrInvalidToken is returned when a token cannot be verified or carries no subject.
var ErrInvalidToken = errors.New("invalid identity token")

var (
	_ task.Identity = (*Static)(nil)
	_ task.Identity = (*Token)(nil)
)

// Static is an identity fixed at construction. An empty UserID is signed out.
type Static struct {
	UserID string
}

func (s Static) CurrentUserID() (string, bool) {
	return s.UserID, s.UserID != ""
}

// Token is an identity backed by an HS256 JWT. The user id is the token
// subject. The token is re-checked on every call so an expired token
// signs the user out.
type Token struct {
	secret []byte
	now    func() time.Time

	mu  sync.RWMutex
	raw string
}

// NewToken verifies raw with secret and returns the identity it carries.
func NewToken(raw string, secret []byte) (*Token, error) {
	t := &Token{secret: secret, now: time.Now, raw: raw}
	if _, err := t.subject(); err != nil {
		return nil, err
	}
	return t, nil
}

// SignOut drops the token. Subsequent calls report no identity.
func (t *Token) SignOut() {
	t.mu.Lock()
	t.raw = ""
	t.mu.Unlock()
}

func (t *Token) CurrentUserID() (string, bool) {
	sub, err := t.subject()
	if err != nil {
		return "", false
	}
	return sub, true
}

func (t *Token) subject() (string, error) {
	t.mu.RLock()
	raw := t.raw
	t.mu.RUnlock()

	if raw == "" {
		return "", ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// IssueToken signs an HS256 token for userID. A zero ttl issues a token
// that never expires.
func IssueToken(secret []byte, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id cannot be empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Resolve picks the identity for a session. A token wins over a plain user
// id. With neither the returned identity is signed out.
func Resolve(userID, token, secret string) (task.Identity, error) {
	if token != "" {
		t, err := NewToken(token, []byte(secret))
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return Static{UserID: userID}, nil
}
