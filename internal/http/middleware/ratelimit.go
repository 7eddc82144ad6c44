package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/yungbote/oncograph-backend/internal/http/response"
)

// DefaultMaxClients bounds how many client buckets are tracked at once.
const DefaultMaxClients = 10000

// RateLimiter hands out one token bucket per client key. Buckets live in an LRU,
// so the least recently seen client is forgotten once maxClients is reached.
type RateLimiter struct {
	mu     sync.Mutex
	limits *lru.Cache[string, *rate.Limiter]
	every  rate.Limit
	burst  int
}

// NewRateLimiter allows perMinute requests per client with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return newRateLimiter(perMinute, burst, DefaultMaxClients)
}

func newRateLimiter(perMinute, burst, maxClients int) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	if burst <= 0 {
		burst = 1
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	// lru.New only fails on a non-positive size.
	limits, _ := lru.New[string, *rate.Limiter](maxClients)
	return &RateLimiter{
		limits: limits,
		every:  limit,
		burst:  burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limits.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rl.every, rl.burst)
	rl.limits.Add(key, l)
	return l
}

// Tracked reports how many client buckets are currently held.
func (rl *RateLimiter) Tracked() int { return rl.limits.Len() }

func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// Middleware rejects requests over the limit with 429, keyed by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.Header("Retry-After", "60")
		response.RespondError(c, http.StatusTooManyRequests, "rate_limited",
			fmt.Errorf("too many requests from %s", c.ClientIP()))
	}
}
