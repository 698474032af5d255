// Package ratelimit provides admission control for the comment write path:
// a Redis-backed sliding-window limiter keyed by (subject, operation), and an
// in-process per-IP token bucket for the outer HTTP surface.
package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// slidingWindow prunes expired timestamps, counts the remainder and
// conditionally records the current request, all in one server-side script so
// two concurrent callers cannot both take the last slot.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window * 1000)

local current = redis.call('ZCARD', key)
if current < limit then
    redis.call('ZADD', key, now, member)
    redis.call('EXPIRE', key, window)
    return 1
end
return 0
`)

// Limiter is a sliding-window rate limiter over a shared Redis store.
// When the store is unreachable it fails open: availability of the write
// path takes priority over strict enforcement.
type Limiter struct {
	rdb     redis.Scripter
	timeout time.Duration
	log     zerolog.Logger
}

// NewLimiter creates a Limiter. timeout bounds each store round-trip.
func NewLimiter(rdb redis.Scripter, timeout time.Duration, log zerolog.Logger) *Limiter {
	return &Limiter{
		rdb:     rdb,
		timeout: timeout,
		log:     log.With().Str("component", "ratelimit").Logger(),
	}
}

// Admit reports whether the request identified by key may proceed given a
// limit of requests per window. The purge-count-insert sequence is a single
// atomic round-trip; each admitted request is recorded under a unique member
// so same-millisecond requests still count individually.
func (l *Limiter) Admit(ctx context.Context, key string, limit int, window time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	windowSeconds := int64(window / time.Second)
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	allowed, err := slidingWindow.Run(ctx, l.rdb,
		[]string{key},
		limit, windowSeconds, time.Now().UnixMilli(), uuid.New().String(),
	).Int()
	if err != nil {
		l.log.Warn().Err(err).Str("key", key).
			Msg("Rate-limit store unreachable, failing open")
		return true
	}

	return allowed == 1
}

// Key builds a rate-limit key from its parts, e.g.
// Key("rate_limit", "user", userID, "comment_create").
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
