package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// refillLua brings a bucket up to date; callers append their own logic.
const refillLua = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill_rate = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(bucket[1]) or capacity
local last_refill = tonumber(bucket[2]) or now

local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
if tokens_to_add > 0 then
	tokens = math.min(capacity, tokens + tokens_to_add)
	last_refill = now
end
`

// takeScript consumes one token when available and returns {allowed, tokens}.
var takeScript = redis.NewScript(refillLua + `
local allowed = 0
if tokens > 0 then
	tokens = tokens - 1
	allowed = 1
end
redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
redis.call('EXPIRE', key, window * 2)
return {allowed, tokens}
`)

// Decision is the result of one Allow call.
type Decision struct {
	Allowed   bool
	Remaining int64
}

// TokenBucket is a Redis-backed token bucket shared by every server
// instance pointing at the same Redis.
type TokenBucket struct {
	redis    *redis.Client
	capacity int64         // Maximum number of tokens
	refill   int64         // Tokens added per window
	window   time.Duration // Refill window
}

// NewTokenBucket creates a bucket refilling refillRate tokens per minute.
func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

func (tb *TokenBucket) key(client, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", client, action)
}

func (tb *TokenBucket) args() []interface{} {
	return []interface{}{tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()}
}

// Capacity returns the bucket size.
func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

// Allow consumes a token for client's action if one is available.
func (tb *TokenBucket) Allow(ctx context.Context, client, action string) (Decision, error) {
	result, err := takeScript.Run(ctx, tb.redis, []string{tb.key(client, action)}, tb.args()...).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit check failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return Decision{}, fmt.Errorf("unexpected result from rate limit script: %v", result)
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return Decision{}, fmt.Errorf("unexpected result from rate limit script: %v", result)
	}

	return Decision{Allowed: allowed == 1, Remaining: remaining}, nil
}
