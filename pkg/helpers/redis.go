package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SessionKey is the hash holding the live session of a user.
func SessionKey(userID string) string {
	return "user:session:" + userID
}

// OpenSession records sid as the live session of userID for ttl.
func OpenSession(ctx context.Context, rdb *redis.Client, userID, sid string, ttl time.Duration) error {
	key := SessionKey(userID)
	pipe := rdb.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    userID,
		"sid":        sid,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// CheckSession fails with ErrSessionNotFound unless userID has a live session whose
// sid matches. An empty sid only requires the session to exist.
func CheckSession(ctx context.Context, rdb *redis.Client, userID, sid string) error {
	data, err := rdb.HGetAll(ctx, SessionKey(userID)).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 || (sid != "" && data["sid"] != sid) {
		return ErrSessionNotFound
	}
	return nil
}
