package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cooldownPrefix = "chat:cooldown:"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// ChatLimiter enforces one chat request per user per cooldown window using
// a SETNX key with TTL, so the window survives process restarts and is
// shared across replicas.
type ChatLimiter struct {
	rdb      *redis.Client
	cooldown time.Duration
}

func NewChatLimiter(rdb *redis.Client, cooldown time.Duration) *ChatLimiter {
	return &ChatLimiter{rdb: rdb, cooldown: cooldown}
}

// Allow reports whether the user may chat now; when denied it also returns
// the time remaining in the window.
func (l *ChatLimiter) Allow(ctx context.Context, userID string) (bool, time.Duration, error) {
	if l.cooldown <= 0 {
		return true, 0, nil
	}
	ok, err := l.rdb.SetNX(ctx, cooldownPrefix+userID, 1, l.cooldown).Result()
	if err != nil {
		return false, 0, err
	}
	if ok {
		return true, 0, nil
	}
	ttl, err := l.rdb.TTL(ctx, cooldownPrefix+userID).Result()
	if err != nil || ttl < 0 {
		ttl = l.cooldown
	}
	return false, ttl, nil
}
