package api

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"
)

// RateLimiter is echo middleware that rate-limits /v1/decode/* per remote
// address, the ambient concern the teacher's x/time import exists for even
// though nothing here needs LLM-token throttling: a decode request is
// cheap per-call but a misbehaving client streaming decode/round requests
// one round at a time should not be able to monopolize the session map.
type RateLimiter struct {
	rps   rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[key]
	if !ok {
		l = rate.NewLimiter(r.rps, r.burst)
		r.limiters[key] = l
	}
	return l
}

func (r *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, "/v1/decode/") {
				return next(c)
			}
			host, _, err := net.SplitHostPort(c.Request().RemoteAddr)
			if err != nil {
				host = c.Request().RemoteAddr
			}
			if !r.limiterFor(host).Allow() {
				return writeError(c, http.StatusTooManyRequests, "rate_limited", "too many decode requests")
			}
			return next(c)
		}
	}
}
