package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	httperr "github.com/salesdash/explore/internal/core/errors"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleTimeout   = 10 * time.Minute
)

// RateLimitConfig holds configuration for the rate limiter middleware.
type RateLimitConfig struct {
	// RequestsPerMinute is the sustained per-client rate.
	RequestsPerMinute int
	// Burst is the maximum number of requests allowed in a burst.
	Burst int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterSet struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	clients   map[string]*clientLimiter
	lastSweep time.Time
	nowFn     func() time.Time
}

func newLimiterSet(cfg RateLimitConfig) *limiterSet {
	return &limiterSet{
		cfg:       cfg,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
		nowFn:     time.Now,
	}
}

// get returns the limiter for ip. Idle clients are dropped on the way.
func (s *limiterSet) get(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn()
	if now.Sub(s.lastSweep) > limiterSweepInterval {
		for key, cl := range s.clients {
			if now.Sub(cl.lastSeen) > limiterIdleTimeout {
				delete(s.clients, key)
			}
		}
		s.lastSweep = now
	}

	if cl, ok := s.clients[ip]; ok {
		cl.lastSeen = now
		return cl.limiter
	}
	limiter := rate.NewLimiter(rate.Limit(float64(s.cfg.RequestsPerMinute)/60.0), s.cfg.Burst)
	s.clients[ip] = &clientLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// RateLimit enforces a per-client-IP token bucket. Over the limit it responds
// 429 with a Retry-After header.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	set := newLimiterSet(cfg)

	return func(c *gin.Context) {
		limiter := set.get(c.ClientIP())

		reservation := limiter.Reserve()
		if !reservation.OK() {
			tooManyRequests(c, 0)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			tooManyRequests(c, int(delay.Seconds())+1)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

func tooManyRequests(c *gin.Context, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, httperr.ErrorResponse{Error: httperr.MsgTooManyRequests})
}
