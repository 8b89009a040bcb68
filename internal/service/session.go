package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/forgo/marketplace/internal/model"
)

// SessionStore persists login sessions by token hash. Implemented by the
// SurrealDB session repository and the Redis session store.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	Get(ctx context.Context, tokenHash string) (*model.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// SessionService issues and resolves signed session cookies
type SessionService struct {
	store     SessionStore
	users     CustomerLookup
	cookieKey []byte
	stateKey  []byte
	ttl       time.Duration
	now       func() time.Time
}

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	Store    SessionStore
	UserRepo CustomerLookup
	Secret   string
	TTL      time.Duration
}

// NewSessionService derives the cookie and OAuth state signing keys from the secret
func NewSessionService(cfg SessionServiceConfig) (*SessionService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is required")
	}
	cookieKey, err := deriveKey(cfg.Secret, "session-cookie")
	if err != nil {
		return nil, err
	}
	stateKey, err := deriveKey(cfg.Secret, "oauth-state")
	if err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}

	return &SessionService{
		store:     cfg.Store,
		users:     cfg.UserRepo,
		cookieKey: cookieKey,
		stateKey:  stateKey,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

func deriveKey(secret, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose)), key); err != nil {
		return nil, err
	}
	return key, nil
}

// Issue creates a session for userID and returns the cookie value
func (s *SessionService) Issue(ctx context.Context, userID string) (string, *model.Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, err
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	sess := &model.Session{
		TokenHash: hashToken(token),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return "", nil, err
	}
	return token + "." + sign(s.cookieKey, token), sess, nil
}

// Resolve returns the live session for a cookie value
func (s *SessionService) Resolve(ctx context.Context, cookie string) (*model.Session, error) {
	token, ok := verify(s.cookieKey, cookie)
	if !ok {
		return nil, ErrInvalidCookie
	}
	sess, err := s.store.Get(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.IsExpired(s.now()) {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CurrentUser returns the user behind a cookie value
func (s *SessionService) CurrentUser(ctx context.Context, cookie string) (*model.User, error) {
	sess, err := s.Resolve(ctx, cookie)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Revoke deletes the session behind a cookie value. Unknown or tampered
// cookies are ignored.
func (s *SessionService) Revoke(ctx context.Context, cookie string) error {
	token, ok := verify(s.cookieKey, cookie)
	if !ok {
		return nil
	}
	return s.store.Delete(ctx, hashToken(token))
}

// PurgeExpired removes expired sessions from the store
func (s *SessionService) PurgeExpired(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("expired sessions removed", slog.Int("count", n))
	}
	return n, nil
}

// TTL is how long an issued session stays valid in the store
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// NewState returns a fresh OAuth state and the signed cookie value carrying it
func (s *SessionService) NewState() (state, cookie string) {
	state = uuid.NewString()
	return state, state + "." + sign(s.stateKey, state)
}

// VerifyState checks that the state returned by the provider matches the signed cookie
func (s *SessionService) VerifyState(cookie, state string) error {
	want, ok := verify(s.stateKey, cookie)
	if !ok || state == "" || !hmac.Equal([]byte(want), []byte(state)) {
		return ErrInvalidState
	}
	return nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func sign(key []byte, value string) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verify splits "<value>.<mac>" and returns value when the mac matches
func verify(key []byte, signed string) (string, bool) {
	i := strings.LastIndexByte(signed, '.')
	if i <= 0 || i == len(signed)-1 {
		return "", false
	}
	value, mac := signed[:i], signed[i+1:]
	if !hmac.Equal([]byte(mac), []byte(sign(key, value))) {
		return "", false
	}
	return value, true
}
