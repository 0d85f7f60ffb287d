package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds configuration for the rate limiter middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate (tokens added per second).
	RequestsPerSecond float64
	// Burst is the maximum number of requests allowed at once.
	Burst int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces a per-client token-bucket rate limit. Over-limit
// requests get 429 with a Retry-After hint; all responses carry the standard
// rate-limit headers.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	var clients sync.Map // map[string]*clientLimiter

	// Drop limiters for clients not seen in a while.
	go func() {
		for {
			time.Sleep(5 * time.Minute)
			clients.Range(func(key, value any) bool {
				if time.Since(value.(*clientLimiter).lastSeen) > 10*time.Minute {
					clients.Delete(key)
				}
				return true
			})
		}
	}()

	getLimiter := func(ip string) *rate.Limiter {
		if v, ok := clients.Load(ip); ok {
			cl := v.(*clientLimiter)
			cl.lastSeen = time.Now()
			return cl.limiter
		}
		limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		clients.Store(ip, &clientLimiter{limiter: limiter, lastSeen: time.Now()})
		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := getLimiter(clientIP(r))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				writeTooManyRequests(w, 0)
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				writeTooManyRequests(w, int(delay.Seconds())+1)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the client address: the first hop of X-Forwarded-For when
// present (the service is expected to run behind a trusted proxy), otherwise
// RemoteAddr with the port stripped.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeTooManyRequests(w http.ResponseWriter, retryAfterSecs int) {
	if retryAfterSecs > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSecs))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    http.StatusTooManyRequests,
		"message": "rate limit exceeded",
	})
}
