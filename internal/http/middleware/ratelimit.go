package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter counts requests per IP in fixed windows.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	count int
	reset time.Time
}

// NewRateLimiter allows limit requests per IP in each period. The sweeper
// goroutine stops when stop is closed; a nil stop runs for the process
// lifetime.
func NewRateLimiter(limit int, period time.Duration, stop <-chan struct{}) *RateLimiter {
	if limit <= 0 {
		limit = 100
	}
	if period <= 0 {
		period = 15 * time.Minute
	}
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
	go rl.cleanup(stop)
	return rl
}

// Allow reports whether ip is within its window, and how many requests are
// left along with the reset time.
func (rl *RateLimiter) Allow(ip string) (ok bool, remaining int, reset time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, found := rl.windows[ip]
	if !found || !now.Before(w.reset) {
		w = &window{reset: now.Add(rl.period)}
		rl.windows[ip] = w
	}
	if w.count >= rl.limit {
		return false, 0, w.reset
	}
	w.count++
	return true, rl.limit - w.count, w.reset
}

func (rl *RateLimiter) cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for ip, w := range rl.windows {
				if !now.Before(w.reset) {
					delete(rl.windows, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

type rateLimitBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RateLimit returns an HTTP middleware that rejects requests exceeding the
// limiter with 429 Too Many Requests.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, remaining, reset := limiter.Allow(clientIP(r))
			w.Header().Set("RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(int(time.Until(reset).Seconds())))
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(rateLimitBody{
					Error:   "Too many requests",
					Message: "Rate limit exceeded. Please try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already rewritten RemoteAddr when proxies are trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
