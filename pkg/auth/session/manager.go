package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/userhubapp/userhub-backend/pkg/config"
	redisclient "github.com/userhubapp/userhub-backend/pkg/redis"
)

// ErrSessionNotFound signals a session that is absent or already revoked.
var ErrSessionNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
	UserSessionsKey(userID string) string
}

// Manager maintains the Redis session allow-list. A token pair is live
// only while its session key exists; deleting the key revokes both
// tokens at once.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis. Sessions live
// as long as the refresh token, which must outlast the access token.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if ttl <= cfg.AccessTokenTTL() {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, cfg.AccessTokenTTL())
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// NewSessionID returns a fresh session identifier for use as jti.
func NewSessionID() string {
	return uuid.NewString()
}

// Create registers a live session for the user and indexes it in the
// per-user set so RevokeAllForUser can find it later.
func (m *Manager) Create(ctx context.Context, sessionID, userID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), userID, m.ttl); err != nil {
		return err
	}
	userKey := m.keyer.UserSessionsKey(userID)
	if err := m.store.SAdd(ctx, userKey, sessionID); err != nil {
		return err
	}
	// Refresh the index TTL so it never outlives the newest session.
	return m.store.Expire(ctx, userKey, m.ttl)
}

// Exists reports whether the session is still live.
func (m *Manager) Exists(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Rotate retires the old session and registers a replacement for the
// same user, returning the new session identifier.
func (m *Manager) Rotate(ctx context.Context, oldSessionID string) (string, error) {
	if strings.TrimSpace(oldSessionID) == "" {
		return "", ErrSessionNotFound
	}

	oldKey := m.keyer.SessionKey(oldSessionID)
	userID, err := m.store.Get(ctx, oldKey)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", ErrSessionNotFound
		}
		return "", err
	}

	newSessionID := NewSessionID()
	if err := m.Create(ctx, newSessionID, userID); err != nil {
		return "", err
	}
	if err := m.store.Del(ctx, oldKey); err != nil {
		return "", err
	}
	if err := m.store.SRem(ctx, m.keyer.UserSessionsKey(userID), oldSessionID); err != nil {
		return "", err
	}

	return newSessionID, nil
}

// Revoke deletes a single session. Revoking a session that no longer
// exists is not an error, so logout stays idempotent.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}

	key := m.keyer.SessionKey(sessionID)
	userID, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil
		}
		return err
	}

	if err := m.store.Del(ctx, key); err != nil {
		return err
	}
	return m.store.SRem(ctx, m.keyer.UserSessionsKey(userID), sessionID)
}

// RevokeAllForUser deletes every live session for the user. Used when an
// account is removed so outstanding tokens stop working immediately.
func (m *Manager) RevokeAllForUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user id is required")
	}

	userKey := m.keyer.UserSessionsKey(userID)
	sessionIDs, err := m.store.SMembers(ctx, userKey)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, id := range sessionIDs {
		keys = append(keys, m.keyer.SessionKey(id))
	}
	keys = append(keys, userKey)

	return m.store.Del(ctx, keys...)
}
