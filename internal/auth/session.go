package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nicxzdev/daily-diet-api/internal/models"
)

const (
	SessionTTL    = 7 * 24 * time.Hour
	SessionCookie = "sessionId"
)

// UserResolver looks up the user owning a session token. Returns nil, nil
// when the token matches no user.
type UserResolver interface {
	UserBySession(ctx context.Context, token string) (*models.User, error)
}

// Sessions resolves opaque session tokens to user ids. PostgreSQL is the
// source of truth (the token lives on the user row); Redis, when configured,
// fronts it as a resolution cache.
type Sessions struct {
	rdb   *redis.Client // nil disables the cache
	users UserResolver
}

func NewSessions(rdb *redis.Client, users UserResolver) *Sessions {
	return &Sessions{rdb: rdb, users: users}
}

// Issue mints a fresh opaque session token.
func (s *Sessions) Issue() string {
	return uuid.NewString()
}

// Resolve returns the user id owning the token, or "" when the token is
// unknown. Cache failures fall through to the database.
func (s *Sessions) Resolve(ctx context.Context, token string) (string, error) {
	if s.rdb != nil {
		val, err := s.rdb.Get(ctx, "session:"+token).Result()
		if err == nil {
			return val, nil
		}
	}

	u, err := s.users.UserBySession(ctx, token)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", nil
	}
	s.Cache(ctx, token, u.ID)
	return u.ID, nil
}

// Cache stores the token -> user id mapping. Best effort; the database
// remains authoritative.
func (s *Sessions) Cache(ctx context.Context, token, userID string) {
	if s.rdb == nil {
		return
	}
	s.rdb.Set(ctx, "session:"+token, userID, SessionTTL)
}
