package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV backs the cart's durable key-value port with Redis.
type RedisKV struct {
	Client *redis.Client
	ctx    context.Context
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client, ctx: context.Background()}
}

func (s *RedisKV) Get(key string) (string, error) {
	val, err := s.Client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisKV) Set(key, value string) error {
	return s.Client.Set(s.ctx, key, value, 0).Err()
}

// RedisLoyaltyMarker claims the one-shot loyalty award per order with SETNX,
// so replays of the award never double-credit a user.
type RedisLoyaltyMarker struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisLoyaltyMarker(client *redis.Client, ttl time.Duration) *RedisLoyaltyMarker {
	return &RedisLoyaltyMarker{Client: client, TTL: ttl}
}

func (m *RedisLoyaltyMarker) AwardKey(orderID int) string {
	return "loyalty:order:" + strconv.Itoa(orderID)
}

func (m *RedisLoyaltyMarker) ClaimAward(ctx context.Context, orderID int) (bool, error) {
	return m.Client.SetNX(ctx, m.AwardKey(orderID), "1", m.TTL).Result()
}
