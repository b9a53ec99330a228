package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sequenceKeyPrefix = "tracking:seq:"
	sequenceKeyTTL    = 48 * time.Hour
)

var nextSequenceScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return n
`)

// RedisSequence hands out per-day sequence numbers with a single atomic INCR,
// so concurrent checkouts never share a number.
type RedisSequence struct {
	client *redis.Client
}

func NewRedisSequence(client *redis.Client) *RedisSequence {
	return &RedisSequence{client: client}
}

func (s *RedisSequence) Next(ctx context.Context, day time.Time) (int64, error) {
	key := sequenceKeyPrefix + day.Format("20060102")
	return nextSequenceScript.Run(ctx, s.client, []string{key}, int(sequenceKeyTTL.Seconds())).Int64()
}
