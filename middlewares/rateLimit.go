package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// RateLimiter allows a fixed number of requests per client IP in each window.
// X-Forwarded-For is only honoured when TrustProxy is set, since clients can
// send any value they like.
type RateLimiter struct {
	TrustProxy bool

	limits     sync.Map
	limit      int32
	window     time.Duration
	cleanupInt time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

type clientData struct {
	requests    int32
	windowStart atomic.Int64
}

func NewRateLimiter(limit int, window time.Duration, cleanupInt time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limit:      int32(limit),
		window:     window,
		cleanupInt: cleanupInt,
		stop:       make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// Stop ends the background cleanup.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupInt)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.limits.Range(func(key, value interface{}) bool {
				data := value.(*clientData)
				if now.Sub(time.Unix(0, data.windowStart.Load())) > rl.window {
					rl.limits.Delete(key)
				}
				return true
			})
		}
	}
}

func getClientIP(r *http.Request, trustProxy bool) string {
	if xff := r.Header.Get("X-Forwarded-For"); trustProxy && xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return ""
}

// allow counts a request for the client and reports whether it fits the window.
func (rl *RateLimiter) allow(clientIP string, now time.Time) bool {
	fresh := &clientData{}
	fresh.windowStart.Store(now.UnixNano())
	value, _ := rl.limits.LoadOrStore(clientIP, fresh)
	data := value.(*clientData)

	start := data.windowStart.Load()
	if now.Sub(time.Unix(0, start)) >= rl.window && data.windowStart.CompareAndSwap(start, now.UnixNano()) {
		atomic.StoreInt32(&data.requests, 0)
	}

	return atomic.AddInt32(&data.requests, 1) <= rl.limit
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(getClientIP(r, rl.TrustProxy), time.Now()) {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			RespondError(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
