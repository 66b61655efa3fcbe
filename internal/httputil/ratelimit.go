package httputil

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter is a per-remote-address token bucket limiter, applied to the
// index/scan-trigger endpoints the same way the teacher would apply one to
// its stream endpoints.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func NewRateLimiter(perSecond float64) *RateLimiter {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      perSecond,
		burst:    burst,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Limit(rl.rps), rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Middleware rejects requests exceeding the configured per-client rate with
// a 429 using the standard error envelope.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if !rl.limiterFor(key).Allow() {
			WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
