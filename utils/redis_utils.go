package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient wraps the raw redis connection with the small set of cache
// operations this service needs. A nil *RedisClient is valid and behaves as a
// cache that never hits, which is what tests use.
type RedisClient struct {
	inner *redis.Client
}

const unreadNotificationCountTTL = 10 * time.Minute

var ctx = context.Background()

func GetRedisClient() *RedisClient {
	return &RedisClient{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		})}
}

func unreadNotificationCountKey(userId string) string {
	return fmt.Sprintf("unread_notification_count_%s", userId)
}

// GetUnreadNotificationCount returns the cached unread counter for the user
// and whether the cache had it.
func (r *RedisClient) GetUnreadNotificationCount(userId string) (int64, bool) {
	if r == nil {
		return 0, false
	}
	count, err := r.inner.Get(ctx, unreadNotificationCountKey(userId)).Int64()
	if err != nil {
		return 0, false
	}
	return count, true
}

func (r *RedisClient) SetUnreadNotificationCount(userId string, count int64) {
	if r == nil {
		return
	}
	r.inner.Set(ctx, unreadNotificationCountKey(userId), count, unreadNotificationCountTTL)
}

// InvalidateUnreadNotificationCount must be called whenever a notification is
// created for or read by the user, the next unread-count read repopulates the
// cache from the DB.
func (r *RedisClient) InvalidateUnreadNotificationCount(userId string) {
	if r == nil {
		return
	}
	r.inner.Del(ctx, unreadNotificationCountKey(userId))
}
