// Package ratelimit throttles requests per caller.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ilya24037/www.spa.com-sub004/internal/auth"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/logger"
	"github.com/ilya24037/www.spa.com-sub004/internal/pkg/response"
)

// Store holds one token bucket per key.
type Store struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewStore allows perMinute requests per key with the given burst.
func NewStore(perMinute, burst int) *Store {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Store{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

func (s *Store) limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[key]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = l
	}
	return l
}

// Allow reports whether key may make a request now.
func (s *Store) Allow(key string) bool {
	return s.limiter(key).Allow()
}

// PerUser limits authenticated callers by user id and anonymous ones by client IP.
// It must run after the auth middleware.
func PerUser(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := auth.GetUserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}
		if !s.Allow(key) {
			logger.FromContext(c.Request.Context()).Warn("rate limit exceeded", zap.String("key", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorResponse{
				Error: "too many requests, try again later",
				Code:  "rate_limited",
			})
			return
		}
		c.Next()
	}
}
