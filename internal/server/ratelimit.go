package server

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	clientIdleThreshold = 1 * time.Hour
	cleanupInterval     = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter gives each client a token bucket holding capacity requests
// that refills at capacity per window.
type RateLimiter struct {
	mu          sync.Mutex
	capacity    int
	window      time.Duration
	clients     map[string]*clientLimiter
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewRateLimiter creates a limiter and starts its background cleanup. Call
// Stop when done.
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		capacity:    capacity,
		window:      window,
		clients:     make(map[string]*clientLimiter),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for client, entry := range r.clients {
		if now.Sub(entry.lastSeen) > clientIdleThreshold {
			delete(r.clients, client)
		}
	}
}

// Stop ends the background cleanup.
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCleanup) })
}

func (r *RateLimiter) newLimiter() *rate.Limiter {
	if r.capacity <= 0 || r.window <= 0 {
		return rate.NewLimiter(0, 0)
	}
	return rate.NewLimiter(rate.Every(r.window/time.Duration(r.capacity)), r.capacity)
}

// Allow reports whether the client may make another request now. When it
// may not, the returned duration is how long until a token is available; a
// zero duration on rejection means the client can never be served.
func (r *RateLimiter) Allow(client string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	entry, exists := r.clients[client]
	if !exists {
		entry = &clientLimiter{limiter: r.newLimiter()}
		r.clients[client] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// retryAfterSeconds rounds a wait up to whole seconds, never below one.
func retryAfterSeconds(delay time.Duration) string {
	seconds := int(math.Ceil(delay.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// WithRateLimit rejects requests from clients that exhausted their bucket.
// A nil limiter passes every request through.
func WithRateLimit(logger *zap.Logger, limiter *RateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handler{logger: logger}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}

		allowed, delay := limiter.Allow(client)
		if !allowed {
			if delay > 0 {
				w.Header().Set("Retry-After", retryAfterSeconds(delay))
			}
			h.respondErrorWithOp(w, http.StatusTooManyRequests, "rate limit exceeded", "server.WithRateLimit")
			return
		}

		next.ServeHTTP(w, r)
	})
}
