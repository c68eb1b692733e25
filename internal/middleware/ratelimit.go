package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/journeys-backend/internal/apperror"
	"github.com/AnshRaj112/journeys-backend/internal/logging"
	"github.com/AnshRaj112/journeys-backend/pkg/clientip"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the number of requests an IP may make per window
	RateLimitMaxRequests = 25
	// RateLimitKeyPrefix is the Redis key prefix for request counters
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked after exceeding the limit
	BlockedIPDuration = 24 * time.Hour
)

// RedisRateLimiter counts requests per IP in a fixed Redis window and blocks
// IPs that exceed it. Redis errors let the request through.
type RedisRateLimiter struct {
	client *redis.Client
	window time.Duration
	max    int
	block  time.Duration
}

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		window: RateLimitWindow,
		max:    RateLimitMaxRequests,
		block:  BlockedIPDuration,
	}
}

// Middleware applies the limiter to every request.
func (l *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ipAddress := clientip.RealClientIP(r)
		ctx := r.Context()

		blocked, err := l.IsIPBlocked(ctx, ipAddress)
		if err == nil && blocked {
			apperror.Handle(w, r, apperror.New("Your IP has been temporarily blocked due to excessive requests. Please try again later.", http.StatusTooManyRequests))
			return
		}

		rateLimitKey := RateLimitKeyPrefix + ipAddress
		count, err := l.client.Incr(ctx, rateLimitKey).Result()
		if err == nil && count == 1 {
			err = l.client.Expire(ctx, rateLimitKey, l.window).Err()
		}
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(l.max) {
			if err := l.client.Set(ctx, BlockedIPKeyPrefix+ipAddress, "1", l.block).Err(); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("ip", ipAddress).Msg("Failed to record blocked IP")
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			apperror.Handle(w, r, apperror.New("Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.", http.StatusTooManyRequests))
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.max)-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.window).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// unblockIP removes an IP from the blocked list.
func (l *RedisRateLimiter) unblockIP(ctx context.Context, ipAddress string) error {
	return l.client.Del(ctx, BlockedIPKeyPrefix+ipAddress).Err()
}

// IsIPBlocked checks if an IP is currently blocked.
func (l *RedisRateLimiter) IsIPBlocked(ctx context.Context, ipAddress string) (bool, error) {
	count, err := l.client.Exists(ctx, BlockedIPKeyPrefix+ipAddress).Result()
	return count > 0, err
}
