package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/forgo/marketplace/internal/model"
)

// RedisSessionStore keeps login sessions in Redis under session:<token hash>.
// Expiry is enforced by the key TTL.
type RedisSessionStore struct {
	rdb redis.Cmdable
	now func() time.Time
}

type redisSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisSessionStore creates a Redis-backed session store
func NewRedisSessionStore(rdb redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, now: time.Now}
}

// NewRedisClient connects to Redis and verifies the connection with PING
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func sessionKey(tokenHash string) string {
	return "session:" + tokenHash
}

// Create stores a session with a TTL matching its expiry
func (s *RedisSessionStore) Create(ctx context.Context, sess *model.Session) error {
	now := s.now().UTC()
	ttl := sess.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	sess.ID = "session:" + uuid.NewString()
	sess.CreatedAt = now
	b, err := json.Marshal(redisSession{
		ID:        sess.ID,
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt.UTC(),
		CreatedAt: now,
	})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.TokenHash), b, ttl).Err()
}

// Get returns the session for tokenHash; nil when missing or expired
func (s *RedisSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(tokenHash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess := &model.Session{
		ID:        rs.ID,
		TokenHash: tokenHash,
		UserID:    rs.UserID,
		ExpiresAt: rs.ExpiresAt,
		CreatedAt: rs.CreatedAt,
	}
	if sess.IsExpired(s.now()) {
		return nil, nil
	}
	return sess, nil
}

// Delete removes the session for tokenHash
func (s *RedisSessionStore) Delete(ctx context.Context, tokenHash string) error {
	return s.rdb.Del(ctx, sessionKey(tokenHash)).Err()
}

// DeleteExpired is a no-op; Redis evicts expired keys itself
func (s *RedisSessionStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
