package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"policereserves/roster/internal/common"
	"policereserves/roster/internal/constants"
	"policereserves/roster/internal/logging"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// minIdleTTL is how long an untouched client bucket is kept
const minIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP. Buckets idle longer
// than the time a full refill takes are dropped, which loses nothing.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	idleTTL  time.Duration
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	idle := minIdleTTL
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return newRateLimiter(rps, burst, idle)
}

func newRateLimiter(rps float64, burst int, idleTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: cache.New(idleTTL, idleTTL),
		idleTTL:  idleTTL,
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (l *RateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
	}
	// every hit pushes the expiry out again
	l.limiters.Set(ip, limiter, l.idleTTL)
	return limiter.(*rate.Limiter)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.getLimiter(ip).Allow() {
			logging.FromContext(r.Context()).Infow("rate limited", "ip", ip)
			common.RespondError(w, time.Now(), constants.MsgTooManyRequests, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
